package handler

import (
	"errors"
	"net/http"
	"slices"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// ListNotifications handles GET /notifications: the caller's pending
// notifications, newest first.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	notes, err := s.notes.ListByRecipient(r.Context(), sess.UserID)
	if err != nil {
		serviceError(w, r, err, "notifications not found")
		return
	}

	resp := NotificationList{Data: make([]Notification, len(notes))}
	for i, n := range notes {
		resp.Data[i] = notificationToResponse(n)
		if !n.IsRead {
			resp.UnreadCount++
		}
	}
	slices.Reverse(resp.Data)
	writeJSON(w, http.StatusOK, resp)
}

// MarkNotificationRead handles POST /notifications/{notificationId}/read.
// A notification that is already gone is not an error.
func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, found, ok := s.ownNotification(w, r)
	if !ok {
		return
	}
	if found {
		if err := s.notes.MarkAsRead(r.Context(), n.ID); err != nil {
			serviceError(w, r, err, "notification not found")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResolveNotification handles POST /notifications/{notificationId}/resolution.
func (s *Server) ResolveNotification(w http.ResponseWriter, r *http.Request) {
	n, found, ok := s.ownNotification(w, r)
	if !ok {
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "not_found", "notification not found")
		return
	}
	var body ResolveRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	decision := domain.Decision(body.Decision)
	if !decision.Valid() {
		requestError(w, "decision must be accept or decline")
		return
	}

	res, err := s.trips.Resolve(r.Context(), n.ID, decision)
	if err != nil {
		serviceError(w, r, err, "notification not found")
		return
	}
	writeJSON(w, http.StatusOK, Resolution{
		NotificationID: res.Notification.ID,
		Outcome:        string(res.Outcome),
		Trip:           tripToResponse(res.Trip),
	})
}

// ownNotification loads the notification named in the path. found is false
// when it does not exist. A notification addressed to someone else is
// answered with 404 so its existence is not revealed; ok is false whenever a
// response has already been written.
func (s *Server) ownNotification(w http.ResponseWriter, r *http.Request) (n domain.Notification, found, ok bool) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return domain.Notification{}, false, false
	}
	id, ok := pathParam(w, r, "notificationId")
	if !ok {
		return domain.Notification{}, false, false
	}
	n, err := s.notes.GetByID(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Notification{}, false, true
	}
	if err != nil {
		serviceError(w, r, err, "notification not found")
		return domain.Notification{}, false, false
	}
	if n.RecipientID != sess.UserID {
		writeError(w, http.StatusNotFound, "not_found", "notification not found")
		return domain.Notification{}, false, false
	}
	return n, true, true
}
