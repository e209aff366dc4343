package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// ListTrips handles GET /trips.
// ?city= defaults to the session's selected city. Supports ?page= and
// ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	params, ok := paginationParams(w, r)
	if !ok {
		return
	}
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		city = sess.City
	}
	if city == "" {
		requestError(w, "city is required: pass ?city= or select one for the session")
		return
	}

	trips, err := s.trips.ListByCity(r.Context(), city)
	if err != nil {
		serviceError(w, r, err, "trips not found")
		return
	}

	page := domain.Paginate(trips, params)
	data := make([]Trip, len(page))
	for i, t := range page {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, TripList{
		Data: data,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: len(trips),
		},
	})
}

// CreateTrip handles POST /trips. The trip is created in the body's city, or
// the session's selected city when the body has none.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	var body CreateTripRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	draft, city, err := requestToDraft(body, sess.City)
	if err != nil {
		requestError(w, err.Error())
		return
	}

	created, err := s.trips.Create(r.Context(), draft, sess.UserID, city)
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// GetTrip handles GET /trips/{tripId}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "tripId")
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// RequestToJoin handles POST /trips/{tripId}/join-requests.
func (s *Server) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	s.propose(w, r, s.trips.RequestToJoin)
}

// OfferRide handles POST /trips/{tripId}/ride-offers.
func (s *Server) OfferRide(w http.ResponseWriter, r *http.Request) {
	s.propose(w, r, s.trips.OfferRide)
}

func (s *Server) propose(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, tripID, senderID string) (domain.Notification, error),
) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	tripID, ok := pathParam(w, r, "tripId")
	if !ok {
		return
	}
	n, err := op(r.Context(), tripID, sess.UserID)
	if err != nil {
		serviceError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, notificationToResponse(n))
}

// requestToDraft checks the required fields of a create-trip body and
// converts it into a domain.TripDraft plus the target city.
func requestToDraft(body CreateTripRequest, sessionCity string) (domain.TripDraft, string, error) {
	typ := domain.TripType(strings.ToUpper(strings.TrimSpace(body.Type)))
	if !typ.Valid() {
		return domain.TripDraft{}, "", errors.New("type must be OFFER or REQUEST")
	}
	draft := domain.TripDraft{
		Type: typ,
		From: strings.TrimSpace(body.From),
		To:   strings.TrimSpace(body.To),
		Date: body.Date.Time,
		Time: strings.TrimSpace(body.Time),
	}
	switch {
	case draft.From == "":
		return domain.TripDraft{}, "", errors.New("from is required")
	case draft.To == "":
		return domain.TripDraft{}, "", errors.New("to is required")
	case draft.Date.IsZero():
		return domain.TripDraft{}, "", errors.New("date is required (YYYY-MM-DD)")
	}
	if _, err := time.Parse("15:04", draft.Time); err != nil {
		return domain.TripDraft{}, "", errors.New("time must be HH:MM")
	}
	if typ == domain.TripTypeOffer {
		if body.Seats == nil || *body.Seats < 1 {
			return domain.TripDraft{}, "", errors.New("seats must be at least 1 for an offer")
		}
		draft.Seats = *body.Seats
	}

	city := sessionCity
	if body.City != nil && strings.TrimSpace(*body.City) != "" {
		city = strings.TrimSpace(*body.City)
	}
	if city == "" {
		return domain.TripDraft{}, "", errors.New("city is required: pass one or select one for the session")
	}
	return draft, city, nil
}
