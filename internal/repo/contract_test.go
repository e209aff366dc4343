package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/repo"
)

// runStoreContract exercises behaviour every Store implementation must share.
// newStore must return an empty, isolated store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) repo.Store) {
	t.Run("UserCreateAndLookup", func(t *testing.T) { testUserCreateAndLookup(t, newStore(t)) })
	t.Run("UserUpdateName", func(t *testing.T) { testUserUpdateName(t, newStore(t)) })
	t.Run("TripGetByID_NotFound", func(t *testing.T) { testTripNotFound(t, newStore(t)) })
	t.Run("TripListOpenByCity", func(t *testing.T) { testTripListOpenByCity(t, newStore(t)) })
	t.Run("TripUpdate", func(t *testing.T) { testTripUpdate(t, newStore(t)) })
	t.Run("NotificationLifecycle", func(t *testing.T) { testNotificationLifecycle(t, newStore(t)) })
	t.Run("InTxCommits", func(t *testing.T) { testInTxCommits(t, newStore(t)) })
	t.Run("InTxRollsBack", func(t *testing.T) { testInTxRollsBack(t, newStore(t)) })
}

// ---- fixtures --------------------------------------------------------------

func userFixture(id, mobile string) domain.User {
	return domain.User{ID: id, Name: "User " + id, Mobile: mobile}
}

func tripFixture(id string, creator domain.User, city string) domain.Trip {
	return domain.Trip{
		ID:         id,
		Creator:    creator,
		Type:       domain.TripTypeOffer,
		City:       city,
		From:       "Gachibowli",
		To:         "Airport",
		Date:       time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
		Time:       "10:00",
		Seats:      3,
		Passengers: []domain.User{},
		Status:     domain.TripStatusActive,
		CreatedAt:  time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func notificationFixture(id string, recipient, sender domain.User, tripID string) domain.Notification {
	return domain.Notification{
		ID:          id,
		RecipientID: recipient.ID,
		Type:        domain.NotificationJoinRequest,
		Message:     "join please",
		TripID:      tripID,
		Sender:      sender,
		CreatedAt:   time.Date(2024, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func mustCreateUser(t *testing.T, s repo.Store, u domain.User) domain.User {
	t.Helper()
	got, err := s.Users().Create(context.Background(), u)
	require.NoError(t, err)
	return got
}

func mustCreateTrip(t *testing.T, s repo.Store, tr domain.Trip) domain.Trip {
	t.Helper()
	got, err := s.Trips().Create(context.Background(), tr)
	require.NoError(t, err)
	return got
}

// ---- cases -----------------------------------------------------------------

func testUserCreateAndLookup(t *testing.T, s repo.Store) {
	ctx := context.Background()
	alice := mustCreateUser(t, s, userFixture("user-1", "9876543210"))

	byID, err := s.Users().GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, alice, byID)

	byMobile, err := s.Users().GetByMobile(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, alice, byMobile)

	_, err = s.Users().GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Users().GetByMobile(ctx, "0000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testUserUpdateName(t *testing.T, s repo.Store) {
	ctx := context.Background()
	mustCreateUser(t, s, userFixture("user-1", "9876543210"))

	got, err := s.Users().UpdateName(ctx, "user-1", "Alice B")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", got.Name)
	assert.Equal(t, "9876543210", got.Mobile)

	_, err = s.Users().UpdateName(ctx, "nobody", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testTripNotFound(t *testing.T, s repo.Store) {
	_, err := s.Trips().GetByID(context.Background(), "trip-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testTripListOpenByCity(t *testing.T, s repo.Store) {
	ctx := context.Background()
	creator := mustCreateUser(t, s, userFixture("user-1", "9876543210"))

	older := mustCreateTrip(t, s, tripFixture("trip-1", creator, "Hyderabad"))
	newer := mustCreateTrip(t, s, tripFixture("trip-2", creator, "Hyderabad"))
	mustCreateTrip(t, s, tripFixture("trip-3", creator, "Bangalore"))

	full := tripFixture("trip-4", creator, "Hyderabad")
	full.Status = domain.TripStatusFull
	full.Seats = 0
	mustCreateTrip(t, s, full)

	done := tripFixture("trip-5", creator, "Hyderabad")
	done.Status = domain.TripStatusCompleted
	mustCreateTrip(t, s, done)

	cancelled := tripFixture("trip-6", creator, "Hyderabad")
	cancelled.Status = domain.TripStatusCancelled
	mustCreateTrip(t, s, cancelled)

	trips, err := s.Trips().ListOpenByCity(ctx, "Hyderabad")
	require.NoError(t, err)

	var ids []string
	for _, tr := range trips {
		ids = append(ids, tr.ID)
	}
	// Newest first; FULL stays listed, COMPLETED and CANCELLED do not.
	assert.Equal(t, []string{"trip-4", newer.ID, older.ID}, ids)

	empty, err := s.Trips().ListOpenByCity(ctx, "Chennai")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func testTripUpdate(t *testing.T, s repo.Store) {
	ctx := context.Background()
	creator := mustCreateUser(t, s, userFixture("user-1", "9876543210"))
	rider := mustCreateUser(t, s, userFixture("user-2", "1234567890"))
	created := mustCreateTrip(t, s, tripFixture("trip-1", creator, "Hyderabad"))

	created.Seats = 2
	created.Passengers = append(created.Passengers, rider)
	updated, err := s.Trips().Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Seats)
	assert.Equal(t, []domain.User{rider}, updated.Passengers)

	got, err := s.Trips().GetByID(ctx, "trip-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Seats)
	assert.Equal(t, []domain.User{rider}, got.Passengers)
	assert.Equal(t, creator, got.Creator)
	assert.Equal(t, "10:00", got.Time)
	assert.True(t, got.Date.Equal(created.Date))

	ghost := tripFixture("trip-ghost", creator, "Hyderabad")
	_, err = s.Trips().Update(ctx, ghost)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testNotificationLifecycle(t *testing.T, s repo.Store) {
	ctx := context.Background()
	driver := mustCreateUser(t, s, userFixture("user-1", "9876543210"))
	rider := mustCreateUser(t, s, userFixture("user-2", "1234567890"))
	other := mustCreateUser(t, s, userFixture("user-3", "5555555555"))
	trip := mustCreateTrip(t, s, tripFixture("trip-1", driver, "Hyderabad"))

	_, err := s.Notifications().Create(ctx, notificationFixture("notif-1", driver, rider, trip.ID))
	require.NoError(t, err)
	_, err = s.Notifications().Create(ctx, notificationFixture("notif-2", driver, other, trip.ID))
	require.NoError(t, err)
	_, err = s.Notifications().Create(ctx, notificationFixture("notif-3", rider, driver, trip.ID))
	require.NoError(t, err)

	inbox, err := s.Notifications().ListByRecipient(ctx, driver.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "notif-1", inbox[0].ID)
	assert.Equal(t, "notif-2", inbox[1].ID)
	assert.Equal(t, rider, inbox[0].Sender)
	assert.False(t, inbox[0].IsRead)

	require.NoError(t, s.Notifications().MarkRead(ctx, "notif-1"))
	got, err := s.Notifications().GetByID(ctx, "notif-1")
	require.NoError(t, err)
	assert.True(t, got.IsRead)

	require.NoError(t, s.Notifications().Delete(ctx, "notif-1"))
	_, err = s.Notifications().GetByID(ctx, "notif-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.Notifications().Delete(ctx, "notif-1"), domain.ErrNotFound)
	assert.ErrorIs(t, s.Notifications().MarkRead(ctx, "notif-1"), domain.ErrNotFound)

	inbox, err = s.Notifications().ListByRecipient(ctx, driver.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "notif-2", inbox[0].ID)
}

func testInTxCommits(t *testing.T, s repo.Store) {
	ctx := context.Background()
	driver := mustCreateUser(t, s, userFixture("user-1", "9876543210"))
	rider := mustCreateUser(t, s, userFixture("user-2", "1234567890"))
	trip := mustCreateTrip(t, s, tripFixture("trip-1", driver, "Hyderabad"))
	_, err := s.Notifications().Create(ctx, notificationFixture("notif-1", driver, rider, trip.ID))
	require.NoError(t, err)

	err = s.InTx(ctx, func(tx repo.Store) error {
		tr, err := tx.Trips().GetForUpdate(ctx, trip.ID)
		if err != nil {
			return err
		}
		tr.Seats--
		tr.Passengers = append(tr.Passengers, rider)
		if _, err := tx.Trips().Update(ctx, tr); err != nil {
			return err
		}
		return tx.Notifications().Delete(ctx, "notif-1")
	})
	require.NoError(t, err)

	got, err := s.Trips().GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Seats)
	assert.Len(t, got.Passengers, 1)

	_, err = s.Notifications().GetByID(ctx, "notif-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testInTxRollsBack(t *testing.T, s repo.Store) {
	ctx := context.Background()
	driver := mustCreateUser(t, s, userFixture("user-1", "9876543210"))
	rider := mustCreateUser(t, s, userFixture("user-2", "1234567890"))
	trip := mustCreateTrip(t, s, tripFixture("trip-1", driver, "Hyderabad"))
	_, err := s.Notifications().Create(ctx, notificationFixture("notif-1", driver, rider, trip.ID))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.InTx(ctx, func(tx repo.Store) error {
		tr, err := tx.Trips().GetForUpdate(ctx, trip.ID)
		if err != nil {
			return err
		}
		tr.Seats = 0
		tr.Status = domain.TripStatusFull
		if _, err := tx.Trips().Update(ctx, tr); err != nil {
			return err
		}
		if err := tx.Notifications().Delete(ctx, "notif-1"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Trips().GetByID(ctx, trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Seats, "trip update must be rolled back")
	assert.Equal(t, domain.TripStatusActive, got.Status)

	_, err = s.Notifications().GetByID(ctx, "notif-1")
	assert.NoError(t, err, "notification delete must be rolled back")
}
