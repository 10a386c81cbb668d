package storage

import (
	"errors"
	"testing"
)

func TestPushSubscribeUpsertsByEndpoint(t *testing.T) {
	svc := testServices(t)

	id, err := svc.Push.Subscribe(3, "https://push.example/ep-1", "p256-a", "auth-a")
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Errorf("Expected first subscription id 1, got %d", id)
	}

	// Same endpoint posted again: keys refresh, no second record.
	again, err := svc.Push.Subscribe(3, "https://push.example/ep-1", "p256-b", "auth-b")
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Errorf("Resubmitted endpoint created a new record: %d", again)
	}

	subs, err := svc.Push.ListByUser(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 {
		t.Fatalf("Expected 1 subscription, got %d", len(subs))
	}
	if subs[0].String("p256dh") != "p256-b" || subs[0].String("auth") != "auth-b" {
		t.Errorf("Keys not refreshed: %v", subs[0])
	}

	// A second browser is a second record.
	if _, err := svc.Push.Subscribe(3, "https://push.example/ep-2", "p256-c", "auth-c"); err != nil {
		t.Fatal(err)
	}
	subs, err = svc.Push.ListByUser(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 {
		t.Errorf("Expected 2 subscriptions, got %d", len(subs))
	}

	other, err := svc.Push.ListByUser(4)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("User filter failed: %d records", len(other))
	}
}

func TestPushUnsubscribe(t *testing.T) {
	svc := testServices(t)

	if _, err := svc.Push.Subscribe(3, "https://push.example/ep-1", "p256", "auth"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Push.DeleteByEndpoint("https://push.example/ep-1"); err != nil {
		t.Fatal(err)
	}
	subs, err := svc.Push.ListByUser(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 0 {
		t.Errorf("Subscription still listed after unsubscribe: %d", len(subs))
	}
	if err := svc.Push.DeleteByEndpoint("https://push.example/ep-1"); !errors.Is(err, ErrPushSubNotFound) {
		t.Errorf("Expected ErrPushSubNotFound, got %v", err)
	}
}
