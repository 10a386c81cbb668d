package storage

import (
	"testing"
	"time"

	"github.com/konselin/konselin/internal/jsondb"
)

// testNow is the frozen "today" for date-relative queries.
var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func testServices(t *testing.T) *Services {
	t.Helper()
	store, err := jsondb.Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	return NewServices(store, DefaultWorkingHours(), func() time.Time { return testNow })
}
