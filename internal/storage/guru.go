// Counselor profiles and availability computation.

package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/konselin/konselin/internal/jsondb"
)

var ErrGuruNotFound = errors.New("guru not found")

// GuruService manages the guru_bk collection.
type GuruService struct {
	store *jsondb.Store
	hours WorkingHours
}

// List returns counselors ordered by name, each with its active service
// names split into a list under "layanan". isActive filters when non-nil.
func (s *GuruService) List(isActive *bool) ([]jsondb.Record, error) {
	where := []jsondb.Clause{}
	params := []any{}
	if isActive != nil {
		where = append(where, jsondb.Eq("is_active"))
		params = append(params, *isActive)
	}
	recs, err := s.store.Select(jsondb.Query{
		From:    "guru_bk",
		Join:    jsondb.JoinGuruLayanan,
		Where:   where,
		OrderBy: "nama_lengkap",
	}, params...)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		r["layanan"] = splitLayanan(r.String("layanan"))
	}
	return recs, nil
}

// Get returns one counselor by id or ErrGuruNotFound.
func (s *GuruService) Get(id int) (jsondb.Record, error) {
	rec, err := s.store.SelectOne(jsondb.Query{
		From:  "guru_bk",
		Where: []jsondb.Clause{jsondb.Eq("id")},
	}, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrGuruNotFound
	}
	return rec, nil
}

// SetActive toggles a counselor's availability flag and returns the updated
// record.
func (s *GuruService) SetActive(id int, active bool) (jsondb.Record, error) {
	n, err := s.store.Update("guru_bk",
		[]jsondb.Assignment{jsondb.SetVal("is_active", active)},
		[]jsondb.Clause{jsondb.Eq("id"), jsondb.IsNull("deleted_at")},
		id)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrGuruNotFound
	}
	return s.Get(id)
}

// Slot is one bookable window.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Availability is the result of an available-slots query for one date.
type Availability struct {
	Tanggal        string          `json:"tanggal"`
	AvailableSlots []Slot          `json:"available_slots"`
	BookedSlots    []jsondb.Record `json:"booked_slots"`
}

// AvailableSlots computes the free windows for a counselor on a date: the
// working-hours grid minus every open appointment (menunggu, dijadwalkan or
// berlangsung) that overlaps a slot.
func (s *GuruService) AvailableSlots(guruID int, tanggal string) (*Availability, error) {
	booked, err := s.store.Select(jsondb.Query{
		From: "jadwal_konseling",
		Where: []jsondb.Clause{
			jsondb.Eq("guru_id"),
			jsondb.Eq("tanggal"),
			jsondb.In("status", "menunggu", "dijadwalkan", "berlangsung"),
		},
		OrderBy: "waktu_mulai",
	}, guruID, tanggal)
	if err != nil {
		return nil, err
	}

	av := &Availability{Tanggal: tanggal, AvailableSlots: []Slot{}, BookedSlots: booked}
	for _, slot := range s.hours.slots() {
		free := true
		for _, b := range booked {
			if overlaps(slot, b.String("waktu_mulai"), b.String("waktu_selesai")) {
				free = false
				break
			}
		}
		if free {
			av.AvailableSlots = append(av.AvailableSlots, slot)
		}
	}
	return av, nil
}

// slots expands the working hours into the fixed grid of windows. A trailing
// partial window past the end time is dropped.
func (w WorkingHours) slots() []Slot {
	start, err := parseClock(w.Start)
	if err != nil {
		return nil
	}
	end, err := parseClock(w.End)
	if err != nil {
		return nil
	}
	var out []Slot
	for cur := start; cur < end; cur += w.SlotMinutes {
		next := cur + w.SlotMinutes
		if next > end {
			break
		}
		out = append(out, Slot{Start: formatClock(cur), End: formatClock(next)})
	}
	return out
}

// overlaps reports whether a slot collides with a booked interval. HH:MM
// strings compare correctly as text.
func overlaps(slot Slot, bookedStart, bookedEnd string) bool {
	return (slot.Start >= bookedStart && slot.Start < bookedEnd) ||
		(slot.End > bookedStart && slot.End <= bookedEnd) ||
		(slot.Start <= bookedStart && slot.End >= bookedEnd)
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// splitLayanan turns the join's comma-joined service names into a list, the
// shape the frontend consumes.
func splitLayanan(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ", ")
}
