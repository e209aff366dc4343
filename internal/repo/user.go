package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ravitejamarri/zypool/internal/domain"
)

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (id, name, mobile)
		VALUES (@id, @name, @mobile)
		RETURNING id, name, mobile`

	args := pgx.NamedArgs{
		"id":     user.ID,
		"name":   user.Name,
		"mobile": user.Mobile,
	}

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT id, name, mobile FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByMobile(ctx context.Context, mobile string) (domain.User, error) {
	const q = `SELECT id, name, mobile FROM users WHERE mobile = @mobile`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"mobile": mobile}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByMobile: %w", err)
	}
	return result, nil
}

func (r *pgUserRepo) UpdateName(ctx context.Context, id, name string) (domain.User, error) {
	const q = `
		UPDATE users
		SET name       = @name,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, name, mobile`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "name": name}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.UpdateName: %w", err)
	}
	return result, nil
}

func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	if err := s.Scan(&u.ID, &u.Name, &u.Mobile); err != nil {
		return domain.User{}, mapNoRows(err)
	}
	return u, nil
}
