package storage

import (
	"errors"

	"github.com/konselin/konselin/internal/jsondb"
)

var ErrPushSubNotFound = errors.New("push subscription not found")

// PushService manages web push subscriptions. Each record ties a browser
// push endpoint and its encryption keys to a user account.
type PushService struct {
	store *jsondb.Store
}

// Subscribe stores a subscription. A resubmitted endpoint updates the
// existing record in place; browsers re-post the same endpoint after a
// service worker refresh.
func (s *PushService) Subscribe(userID int, endpoint, p256dh, auth string) (int, error) {
	existing, err := s.store.SelectOne(jsondb.Query{
		From:  "push_subscriptions",
		Where: []jsondb.Clause{jsondb.Eq("endpoint")},
	}, endpoint)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		id, _ := existing.Int("id")
		_, err := s.store.Update("push_subscriptions",
			[]jsondb.Assignment{
				jsondb.SetVal("user_id", userID),
				jsondb.SetVal("p256dh", p256dh),
				jsondb.SetVal("auth", auth),
			},
			[]jsondb.Clause{jsondb.Eq("id")},
			id)
		return id, err
	}
	return s.store.Insert("push_subscriptions",
		[]string{"user_id", "endpoint", "p256dh", "auth"},
		userID, endpoint, p256dh, auth)
}

// ListByUser returns a user's subscriptions, one per registered browser.
func (s *PushService) ListByUser(userID int) ([]jsondb.Record, error) {
	return s.store.Select(jsondb.Query{
		From:  "push_subscriptions",
		Where: []jsondb.Clause{jsondb.Eq("user_id")},
	}, userID)
}

// Delete removes a subscription by id. Used when a push service reports the
// endpoint gone.
func (s *PushService) Delete(id int) error {
	n, err := s.store.SoftDelete("push_subscriptions", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPushSubNotFound
	}
	return nil
}

// DeleteByEndpoint removes the subscription registered under the endpoint,
// the identifier the browser holds when it unsubscribes.
func (s *PushService) DeleteByEndpoint(endpoint string) error {
	rec, err := s.store.SelectOne(jsondb.Query{
		From:  "push_subscriptions",
		Where: []jsondb.Clause{jsondb.Eq("endpoint")},
	}, endpoint)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrPushSubNotFound
	}
	id, _ := rec.Int("id")
	return s.Delete(id)
}
