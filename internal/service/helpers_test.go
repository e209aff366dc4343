package service_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/repo"
	"github.com/ravitejamarri/zypool/internal/service"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// recordingMetrics is a hand-written test double for metrics.Recorder.
type recordingMetrics struct {
	mu       sync.Mutex
	trips    []domain.TripType
	requests []domain.NotificationType
	outcomes []domain.Outcome
}

func (m *recordingMetrics) TripCreated(t domain.TripType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = append(m.trips, t)
}
func (m *recordingMetrics) RequestSent(t domain.NotificationType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, t)
}
func (m *recordingMetrics) Resolved(_ domain.Decision, o domain.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, o)
}

// harness wires the three services over one store with a deterministic
// clock and sequential ids.
type harness struct {
	store   repo.Store
	users   *service.UserService
	trips   *service.TripService
	notes   *service.NotificationService
	metrics *recordingMetrics
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithStore(t, repo.NewMemoryStore())
}

func newHarnessWithStore(t *testing.T, store repo.Store) *harness {
	t.Helper()
	var seq atomic.Int64
	m := &recordingMetrics{}
	deps := service.Deps{
		Metrics: m,
		Now:     func() time.Time { return t0 },
		NewID:   func() string { return fmt.Sprintf("id-%03d", seq.Add(1)) },
	}
	notes := service.NewNotificationService(store, deps)
	return &harness{
		store:   store,
		users:   service.NewUserService(store, deps),
		trips:   service.NewTripService(store, notes, deps),
		notes:   notes,
		metrics: m,
	}
}

// login registers a user with the given name and a mobile derived from n.
func (h *harness) login(t *testing.T, n int, name string) domain.User {
	t.Helper()
	u, err := h.users.Login(context.Background(), fmt.Sprintf("90000000%02d", n), name)
	require.NoError(t, err)
	return u
}

func (h *harness) offer(t *testing.T, creator domain.User, city string, seats int) domain.Trip {
	t.Helper()
	trip, err := h.trips.Create(context.Background(), domain.TripDraft{
		Type:  domain.TripTypeOffer,
		From:  "Gachibowli",
		To:    "Hitech City",
		Date:  time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Time:  "09:30",
		Seats: seats,
	}, creator.ID, city)
	require.NoError(t, err)
	return trip
}

func (h *harness) request(t *testing.T, creator domain.User, city string) domain.Trip {
	t.Helper()
	trip, err := h.trips.Create(context.Background(), domain.TripDraft{
		Type: domain.TripTypeRequest,
		From: "Ameerpet",
		To:   "Airport",
		Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Time: "18:00",
	}, creator.ID, city)
	require.NoError(t, err)
	return trip
}

// ---- failure injection -----------------------------------------------------

// failingDeleteStore wraps a Store so that deleting a notification inside a
// transaction always fails, after the trip has already been written.
type failingDeleteStore struct {
	repo.Store
}

var errInjected = fmt.Errorf("injected failure")

func (s failingDeleteStore) InTx(ctx context.Context, fn func(tx repo.Store) error) error {
	return s.Store.InTx(ctx, func(tx repo.Store) error {
		return fn(failingDeleteStore{Store: tx})
	})
}

func (s failingDeleteStore) Notifications() repo.NotificationRepo {
	return failingDeleteNotes{NotificationRepo: s.Store.Notifications()}
}

type failingDeleteNotes struct {
	repo.NotificationRepo
}

func (failingDeleteNotes) Delete(context.Context, string) error { return errInjected }
