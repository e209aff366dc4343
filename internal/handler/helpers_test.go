package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/handler"
	"github.com/ravitejamarri/zypool/internal/session"
)

// ---- mock servicers --------------------------------------------------------

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create        func(ctx context.Context, draft domain.TripDraft, creatorID, city string) (domain.Trip, error)
	getByID       func(ctx context.Context, id string) (domain.Trip, error)
	listByCity    func(ctx context.Context, city string) ([]domain.Trip, error)
	requestToJoin func(ctx context.Context, tripID, requesterID string) (domain.Notification, error)
	offerRide     func(ctx context.Context, tripID, driverID string) (domain.Notification, error)
	resolve       func(ctx context.Context, id string, d domain.Decision) (domain.Resolution, error)
}

func (m *mockTripServicer) Create(ctx context.Context, draft domain.TripDraft, creatorID, city string) (domain.Trip, error) {
	return m.create(ctx, draft, creatorID, city)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListByCity(ctx context.Context, city string) ([]domain.Trip, error) {
	return m.listByCity(ctx, city)
}
func (m *mockTripServicer) RequestToJoin(ctx context.Context, tripID, requesterID string) (domain.Notification, error) {
	return m.requestToJoin(ctx, tripID, requesterID)
}
func (m *mockTripServicer) OfferRide(ctx context.Context, tripID, driverID string) (domain.Notification, error) {
	return m.offerRide(ctx, tripID, driverID)
}
func (m *mockTripServicer) Resolve(ctx context.Context, id string, d domain.Decision) (domain.Resolution, error) {
	return m.resolve(ctx, id, d)
}

// mockNotificationServicer is a test double for handler.NotificationServicer.
type mockNotificationServicer struct {
	getByID         func(ctx context.Context, id string) (domain.Notification, error)
	listByRecipient func(ctx context.Context, recipientID string) ([]domain.Notification, error)
	markAsRead      func(ctx context.Context, id string) error
}

func (m *mockNotificationServicer) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	return m.getByID(ctx, id)
}
func (m *mockNotificationServicer) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	return m.listByRecipient(ctx, recipientID)
}
func (m *mockNotificationServicer) MarkAsRead(ctx context.Context, id string) error {
	return m.markAsRead(ctx, id)
}

// mockUserServicer is a test double for handler.UserServicer.
type mockUserServicer struct {
	login   func(ctx context.Context, mobile, name string) (domain.User, error)
	getByID func(ctx context.Context, id string) (domain.User, error)
}

func (m *mockUserServicer) Login(ctx context.Context, mobile, name string) (domain.User, error) {
	return m.login(ctx, mobile, name)
}
func (m *mockUserServicer) GetByID(ctx context.Context, id string) (domain.User, error) {
	return m.getByID(ctx, id)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer         = (*mockTripServicer)(nil)
	_ handler.NotificationServicer = (*mockNotificationServicer)(nil)
	_ handler.UserServicer         = (*mockUserServicer)(nil)
	_ handler.SessionManager       = (*session.Manager)(nil)
)

// ---- fixtures --------------------------------------------------------------

var (
	t0      = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	alice   = domain.User{ID: "u-alice", Name: "Alice", Mobile: "9000000001"}
	charlie = domain.User{ID: "u-charlie", Name: "Charlie (Driver)", Mobile: "9000000003"}
)

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:         "t1",
		Creator:    charlie,
		Type:       domain.TripTypeOffer,
		City:       "Hyderabad",
		From:       "Gachibowli",
		To:         "Hitech City",
		Date:       time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Time:       "09:30",
		Seats:      2,
		Passengers: []domain.User{},
		Status:     domain.TripStatusActive,
		CreatedAt:  t0,
	}
}

func joinFixture() domain.Notification {
	return domain.Notification{
		ID:          "n1",
		RecipientID: charlie.ID,
		Type:        domain.NotificationJoinRequest,
		Message:     "Alice (9000000001) has requested to join your trip from Gachibowli to Hitech City.",
		TripID:      "t1",
		Sender:      alice,
		CreatedAt:   t0,
	}
}

// ---- wiring ----------------------------------------------------------------

type deps struct {
	trips *mockTripServicer
	notes *mockNotificationServicer
	users *mockUserServicer
}

func newDeps() *deps {
	return &deps{
		trips: &mockTripServicer{},
		notes: &mockNotificationServicer{},
		users: &mockUserServicer{
			getByID: func(_ context.Context, id string) (domain.User, error) {
				for _, u := range []domain.User{alice, charlie} {
					if u.ID == id {
						return u, nil
					}
				}
				return domain.User{}, domain.ErrNotFound
			},
		},
	}
}

var testSessions = session.NewManager("test-secret", time.Hour, nil)

// newHTTPHandler wires the mocks into the real router, exactly as main.go
// wires the services in production.
func newHTTPHandler(d *deps) http.Handler {
	srv := handler.NewServer(d.trips, d.notes, d.users, testSessions)
	return handler.NewRouter(srv, handler.RouterConfig{
		Logger:       discardLogger(),
		CORSOrigins:  []string{"http://localhost:8081"},
		MaxBodyBytes: 1 << 16,
	})
}

func tokenFor(t *testing.T, userID, city string) string {
	t.Helper()
	token, _, err := testSessions.Issue(session.Session{UserID: userID, City: city})
	require.NoError(t, err)
	return token
}

// do sends a request through h. A non-empty token is sent as a bearer token;
// a non-nil body is JSON-encoded.
func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}
