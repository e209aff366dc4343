package handler

import (
	"errors"
	"net/http"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/service"
	"github.com/ravitejamarri/zypool/internal/session"
)

// CreateSession handles POST /sessions: log in by mobile number (registering
// on first use) and issue a session token.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	user, err := s.users.Login(r.Context(), body.Mobile, body.Name)
	if err != nil {
		serviceError(w, r, err, "user not found")
		return
	}

	city := ""
	if body.City != nil {
		city = service.NormalizeText(*body.City)
	}
	s.issue(w, r, http.StatusCreated, user, city)
}

// GetSession handles GET /session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	user, ok := s.sessionUser(w, r, sess)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CurrentSession{User: userToResponse(user), City: optionalCity(sess.City)})
}

// SelectCity handles PUT /session/city. The city lives in the token, so a
// new token is issued.
func (s *Server) SelectCity(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOf(w, r)
	if !ok {
		return
	}
	var body SelectCityRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	city := service.NormalizeText(body.City)
	if city == "" {
		requestError(w, "city is required")
		return
	}
	user, ok := s.sessionUser(w, r, sess)
	if !ok {
		return
	}
	s.issue(w, r, http.StatusOK, user, city)
}

// DeleteSession handles DELETE /session. Tokens are stateless, so logging out
// is the client discarding its token; the server only acknowledges it.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := sessionOf(w, r); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionUser loads the user a token belongs to. A token for a user that no
// longer exists is treated as unauthenticated.
func (s *Server) sessionUser(w http.ResponseWriter, r *http.Request, sess session.Session) (domain.User, bool) {
	user, err := s.users.GetByID(r.Context(), sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "unauthorized", "session user no longer exists")
		return domain.User{}, false
	}
	if err != nil {
		serviceError(w, r, err, "user not found")
		return domain.User{}, false
	}
	return user, true
}

func (s *Server) issue(w http.ResponseWriter, r *http.Request, status int, user domain.User, city string) {
	token, exp, err := s.sessions.Issue(session.Session{UserID: user.ID, City: city})
	if err != nil {
		serviceError(w, r, err, "")
		return
	}
	writeJSON(w, status, SessionResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      userToResponse(user),
		City:      optionalCity(city),
	})
}
