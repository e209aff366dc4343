package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/repo"
)

// UserService registers and looks up users.
type UserService struct {
	store repo.Store
	deps  Deps
}

// NewUserService constructs a UserService.
func NewUserService(store repo.Store, deps Deps) *UserService {
	return &UserService{store: store, deps: deps.withDefaults()}
}

// Login returns the user registered under mobile, refreshing their name, or
// registers a new one. mobile must be exactly ten digits and name must not be
// empty; otherwise domain.ErrValidation is returned.
func (s *UserService) Login(ctx context.Context, mobile, name string) (domain.User, error) {
	mobile = strings.TrimSpace(mobile)
	name = NormalizeText(name)
	if !validMobile(mobile) {
		return domain.User{}, fmt.Errorf("service.UserService.Login: %w: mobile must be 10 digits", domain.ErrValidation)
	}
	if name == "" {
		return domain.User{}, fmt.Errorf("service.UserService.Login: %w: name is required", domain.ErrValidation)
	}

	var user domain.User
	created := false
	err := s.store.InTx(ctx, func(tx repo.Store) error {
		existing, err := tx.Users().GetByMobile(ctx, mobile)
		switch {
		case err == nil:
			if existing.Name == name {
				user = existing
				return nil
			}
			user, err = tx.Users().UpdateName(ctx, existing.ID, name)
			return err
		case errors.Is(err, domain.ErrNotFound):
			created = true
			user, err = tx.Users().Create(ctx, domain.User{ID: s.deps.NewID(), Name: name, Mobile: mobile})
			return err
		default:
			return err
		}
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Login: %w", err)
	}

	s.deps.Logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.Bool("registered", created),
	)
	return user, nil
}

// GetByID returns domain.ErrNotFound if no user has that ID.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	u, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return u, nil
}

func validMobile(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
