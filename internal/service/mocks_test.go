package service_test

import (
	"context"

	"github.com/ravitejamarri/zypool/internal/domain"
	"github.com/ravitejamarri/zypool/internal/repo"
)

// Hand-written test doubles. Each method is a function field: set only the
// ones your test needs. A nil field panics, which flags an unexpected call.

type mockUserRepo struct {
	create      func(ctx context.Context, user domain.User) (domain.User, error)
	getByID     func(ctx context.Context, id string) (domain.User, error)
	getByMobile func(ctx context.Context, mobile string) (domain.User, error)
	updateName  func(ctx context.Context, id, name string) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByMobile(ctx context.Context, mobile string) (domain.User, error) {
	return m.getByMobile(ctx, mobile)
}
func (m *mockUserRepo) UpdateName(ctx context.Context, id, name string) (domain.User, error) {
	return m.updateName(ctx, id, name)
}

type mockTripRepo struct {
	create         func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID        func(ctx context.Context, id string) (domain.Trip, error)
	getForUpdate   func(ctx context.Context, id string) (domain.Trip, error)
	listOpenByCity func(ctx context.Context, city string) ([]domain.Trip, error)
	update         func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id string) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetForUpdate(ctx context.Context, id string) (domain.Trip, error) {
	return m.getForUpdate(ctx, id)
}
func (m *mockTripRepo) ListOpenByCity(ctx context.Context, city string) ([]domain.Trip, error) {
	return m.listOpenByCity(ctx, city)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}

type mockNotificationRepo struct {
	create          func(ctx context.Context, n domain.Notification) (domain.Notification, error)
	getByID         func(ctx context.Context, id string) (domain.Notification, error)
	getForUpdate    func(ctx context.Context, id string) (domain.Notification, error)
	listByRecipient func(ctx context.Context, recipientID string) ([]domain.Notification, error)
	markRead        func(ctx context.Context, id string) error
	delete          func(ctx context.Context, id string) error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	return m.create(ctx, n)
}
func (m *mockNotificationRepo) GetByID(ctx context.Context, id string) (domain.Notification, error) {
	return m.getByID(ctx, id)
}
func (m *mockNotificationRepo) GetForUpdate(ctx context.Context, id string) (domain.Notification, error) {
	return m.getForUpdate(ctx, id)
}
func (m *mockNotificationRepo) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	return m.listByRecipient(ctx, recipientID)
}
func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string) error {
	return m.markRead(ctx, id)
}
func (m *mockNotificationRepo) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}

// mockStore hands out the mock repos. InTx runs fn against itself.
type mockStore struct {
	users *mockUserRepo
	trips *mockTripRepo
	notes *mockNotificationRepo
}

func (m *mockStore) Users() repo.UserRepo                 { return m.users }
func (m *mockStore) Trips() repo.TripRepo                 { return m.trips }
func (m *mockStore) Notifications() repo.NotificationRepo { return m.notes }
func (m *mockStore) InTx(_ context.Context, fn func(tx repo.Store) error) error {
	return fn(m)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.UserRepo         = (*mockUserRepo)(nil)
	_ repo.TripRepo         = (*mockTripRepo)(nil)
	_ repo.NotificationRepo = (*mockNotificationRepo)(nil)
	_ repo.Store            = (*mockStore)(nil)
)
