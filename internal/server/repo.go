// Package server implements the remote sync API: account signup/login and
// account-scoped checklist CRUD. The server is a thin persistence layer; the
// checklist semantics (ordering, archive rules) live in the client's
// mutation layer and the server stores whatever consistent snapshot it is
// handed.
package server

import (
	"context"
	"errors"

	"ticklist/internal/model"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Repository is the injected storage boundary. Swapping the in-memory
// reference implementation for SQLite (or a real database) is a
// substitution, not a rewrite.
type Repository interface {
	CreateUser(ctx context.Context, u model.User) error
	UserByID(ctx context.Context, id string) (model.User, error)
	UserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUser(ctx context.Context, u model.User) error

	// Checklists returns the user's lists in stored order.
	Checklists(ctx context.Context, userID string) ([]model.Checklist, error)
	// PutChecklist inserts or fully replaces one list.
	PutChecklist(ctx context.Context, userID string, c model.Checklist) error
	// ChecklistByID scopes lookup to the owning user.
	ChecklistByID(ctx context.Context, userID, checklistID string) (model.Checklist, error)
	DeleteChecklist(ctx context.Context, userID, checklistID string) error
	// ReplaceChecklists swaps the user's whole collection (sync save).
	ReplaceChecklists(ctx context.Context, userID string, lists []model.Checklist) error
}
