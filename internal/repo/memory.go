package repo

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// memState is the data behind a MemoryStore. It is never shared between
// goroutines without the owning MemoryStore's lock.
//
// Stored trips are never mutated in place: writes replace the map entry with
// a fresh clone, so a shallow copy of the maps is a consistent snapshot.
type memState struct {
	users         map[string]domain.User
	usersByMobile map[string]string
	trips         map[string]domain.Trip
	tripOrder     []string // most recent first
	notes         map[string]domain.Notification
	noteOrder     []string // creation order
}

func newMemState() *memState {
	return &memState{
		users:         map[string]domain.User{},
		usersByMobile: map[string]string{},
		trips:         map[string]domain.Trip{},
		notes:         map[string]domain.Notification{},
	}
}

func (s *memState) clone() *memState {
	return &memState{
		users:         maps.Clone(s.users),
		usersByMobile: maps.Clone(s.usersByMobile),
		trips:         maps.Clone(s.trips),
		tripOrder:     slices.Clone(s.tripOrder),
		notes:         maps.Clone(s.notes),
		noteOrder:     slices.Clone(s.noteOrder),
	}
}

// memAccess decides how a repo reaches the state: under the store lock, or
// directly when already inside a transaction that holds it.
type memAccess interface {
	read(fn func(*memState) error) error
	write(fn func(*memState) error) error
}

// MemoryStore is an in-process Store. Every write holds one mutex, so
// mutations are serialized; reads share a read lock and return deep copies.
// Separate instances are fully isolated from each other.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memState
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState()}
}

func (s *MemoryStore) read(fn func(*memState) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// write applies a single-repo mutation. Each repo method checks its
// preconditions before touching the state, so no rollback is needed here.
func (s *MemoryStore) write(fn func(*memState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *MemoryStore) Users() UserRepo                 { return memUserRepo{s} }
func (s *MemoryStore) Trips() TripRepo                 { return memTripRepo{s} }
func (s *MemoryStore) Notifications() NotificationRepo { return memNotificationRepo{s} }

// InTx stages every write made through tx on a private copy of the state and
// swaps it in only when fn returns nil. The write lock is held throughout,
// so transactions are strictly sequential.
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.state.clone()
	if err := fn(&memTx{state: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// memTx is the Store view handed to InTx callbacks. The enclosing
// MemoryStore already holds the write lock.
type memTx struct {
	state *memState
}

func (t *memTx) read(fn func(*memState) error) error  { return fn(t.state) }
func (t *memTx) write(fn func(*memState) error) error { return fn(t.state) }

func (t *memTx) Users() UserRepo                 { return memUserRepo{t} }
func (t *memTx) Trips() TripRepo                 { return memTripRepo{t} }
func (t *memTx) Notifications() NotificationRepo { return memNotificationRepo{t} }

// InTx inside a transaction joins the outer one.
func (t *memTx) InTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(t)
}

// --- users ------------------------------------------------------------------

type memUserRepo struct{ a memAccess }

func (r memUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	err := r.a.write(func(s *memState) error {
		if _, ok := s.users[user.ID]; ok {
			return fmt.Errorf("duplicate user id %q", user.ID)
		}
		if _, ok := s.usersByMobile[user.Mobile]; ok {
			return fmt.Errorf("duplicate mobile %q", user.Mobile)
		}
		s.users[user.ID] = user
		s.usersByMobile[user.Mobile] = user.ID
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return user, nil
}

func (r memUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	var out domain.User
	err := r.a.read(func(s *memState) error {
		u, ok := s.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return out, nil
}

func (r memUserRepo) GetByMobile(_ context.Context, mobile string) (domain.User, error) {
	var out domain.User
	err := r.a.read(func(s *memState) error {
		id, ok := s.usersByMobile[mobile]
		if !ok {
			return domain.ErrNotFound
		}
		out = s.users[id]
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByMobile: %w", err)
	}
	return out, nil
}

func (r memUserRepo) UpdateName(_ context.Context, id, name string) (domain.User, error) {
	var out domain.User
	err := r.a.write(func(s *memState) error {
		u, ok := s.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		u.Name = name
		s.users[id] = u
		out = u
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.UpdateName: %w", err)
	}
	return out, nil
}

// --- trips ------------------------------------------------------------------

type memTripRepo struct{ a memAccess }

func (r memTripRepo) Create(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	err := r.a.write(func(s *memState) error {
		if _, ok := s.trips[trip.ID]; ok {
			return fmt.Errorf("duplicate trip id %q", trip.ID)
		}
		s.trips[trip.ID] = trip.Clone()
		s.tripOrder = slices.Insert(s.tripOrder, 0, trip.ID)
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return trip.Clone(), nil
}

func (r memTripRepo) GetByID(_ context.Context, id string) (domain.Trip, error) {
	var out domain.Trip
	err := r.a.read(func(s *memState) error {
		t, ok := s.trips[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = t.Clone()
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return out, nil
}

// GetForUpdate needs no extra locking: memory transactions are already
// exclusive.
func (r memTripRepo) GetForUpdate(ctx context.Context, id string) (domain.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r memTripRepo) ListOpenByCity(_ context.Context, city string) ([]domain.Trip, error) {
	out := []domain.Trip{}
	err := r.a.read(func(s *memState) error {
		for _, id := range s.tripOrder {
			t := s.trips[id]
			if t.City == city && !t.Status.Closed() {
				out = append(out, t.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListOpenByCity: %w", err)
	}
	return out, nil
}

func (r memTripRepo) Update(_ context.Context, trip domain.Trip) (domain.Trip, error) {
	var out domain.Trip
	err := r.a.write(func(s *memState) error {
		cur, ok := s.trips[trip.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Seats = trip.Seats
		cur.Passengers = trip.Passengers
		cur.Status = trip.Status
		cur = cur.Clone()
		s.trips[trip.ID] = cur
		out = cur.Clone()
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return out, nil
}

// --- notifications ----------------------------------------------------------

type memNotificationRepo struct{ a memAccess }

func (r memNotificationRepo) Create(_ context.Context, n domain.Notification) (domain.Notification, error) {
	err := r.a.write(func(s *memState) error {
		if _, ok := s.notes[n.ID]; ok {
			return fmt.Errorf("duplicate notification id %q", n.ID)
		}
		s.notes[n.ID] = n
		s.noteOrder = append(s.noteOrder, n.ID)
		return nil
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.Create: %w", err)
	}
	return n, nil
}

func (r memNotificationRepo) GetByID(_ context.Context, id string) (domain.Notification, error) {
	var out domain.Notification
	err := r.a.read(func(s *memState) error {
		n, ok := s.notes[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = n
		return nil
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("repo.NotificationRepo.GetByID: %w", err)
	}
	return out, nil
}

func (r memNotificationRepo) GetForUpdate(ctx context.Context, id string) (domain.Notification, error) {
	return r.GetByID(ctx, id)
}

func (r memNotificationRepo) ListByRecipient(_ context.Context, recipientID string) ([]domain.Notification, error) {
	out := []domain.Notification{}
	err := r.a.read(func(s *memState) error {
		for _, id := range s.noteOrder {
			if n := s.notes[id]; n.RecipientID == recipientID {
				out = append(out, n)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("repo.NotificationRepo.ListByRecipient: %w", err)
	}
	return out, nil
}

func (r memNotificationRepo) MarkRead(_ context.Context, id string) error {
	err := r.a.write(func(s *memState) error {
		n, ok := s.notes[id]
		if !ok {
			return domain.ErrNotFound
		}
		n.IsRead = true
		s.notes[id] = n
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.NotificationRepo.MarkRead: %w", err)
	}
	return nil
}

func (r memNotificationRepo) Delete(_ context.Context, id string) error {
	err := r.a.write(func(s *memState) error {
		if _, ok := s.notes[id]; !ok {
			return domain.ErrNotFound
		}
		delete(s.notes, id)
		s.noteOrder = slices.DeleteFunc(s.noteOrder, func(v string) bool { return v == id })
		return nil
	})
	if err != nil {
		return fmt.Errorf("repo.NotificationRepo.Delete: %w", err)
	}
	return nil
}
