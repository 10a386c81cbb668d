// Provides localized email templates.

package email

import "fmt"

// Locale represents a supported language code.
type Locale string

// Supported locales for email templates. The portal's UI defaults to
// Indonesian.
const (
	LocaleID Locale = "id"
	LocaleEN Locale = "en"
)

// DefaultLocale is used when no locale is specified or the locale is unsupported.
const DefaultLocale = LocaleID

// ParseLocale converts a string to a Locale, returning DefaultLocale if unsupported.
func ParseLocale(s string) Locale {
	switch Locale(s) {
	case LocaleID, LocaleEN:
		return Locale(s)
	default:
		return DefaultLocale
	}
}

// emailTemplates holds localized email content.
type emailTemplates struct {
	NotifikasiSubject string
	NotifikasiBody    string
}

var templates = map[Locale]*emailTemplates{
	LocaleID: {
		NotifikasiSubject: "Notifikasi: %s",
		NotifikasiBody: `Halo %s,

Ada notifikasi baru untuk Anda di portal konseling:

%s

%s

Masuk ke portal untuk melihat detailnya.

Email ini dikirim otomatis, mohon tidak membalas.
`,
	},
	LocaleEN: {
		NotifikasiSubject: "Notification: %s",
		NotifikasiBody: `Hi %s,

You have a new notification on the counseling portal:

%s

%s

Sign in to the portal to see the details.

This email was sent automatically, please do not reply.
`,
	},
}

// NotifikasiEmail renders the notification email for a locale.
func NotifikasiEmail(locale Locale, nama, judul, pesan string) (subject, body string) {
	t := templates[ParseLocale(string(locale))]
	return fmt.Sprintf(t.NotifikasiSubject, judul), fmt.Sprintf(t.NotifikasiBody, nama, judul, pesan)
}
