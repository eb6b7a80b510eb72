package server

import (
	"context"
	"strings"
	"sync"

	"ticklist/internal/model"
)

// MemoryRepository is the reference backend: a mutex-guarded in-memory map.
// State is lost on restart; suitable for tests and local experiments, not
// production.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[string]model.User        // by id
	byEmail    map[string]string            // email -> id
	checklists map[string][]model.Checklist // by user id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      map[string]model.User{},
		byEmail:    map[string]string{},
		checklists: map[string][]model.Checklist{},
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (r *MemoryRepository) CreateUser(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := normalizeEmail(u.Email)
	if _, ok := r.byEmail[email]; ok {
		return ErrEmailTaken
	}
	u.Email = email
	r.users[u.ID] = u
	r.byEmail[email] = u.ID
	r.checklists[u.ID] = []model.Checklist{}
	return nil
}

func (r *MemoryRepository) UserByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepository) UserByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return r.users[id], nil
}

func (r *MemoryRepository) UpdateUser(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	email := normalizeEmail(u.Email)
	if email != old.Email {
		if owner, taken := r.byEmail[email]; taken && owner != u.ID {
			return ErrEmailTaken
		}
		delete(r.byEmail, old.Email)
		r.byEmail[email] = u.ID
	}
	u.Email = email
	r.users[u.ID] = u
	return nil
}

func (r *MemoryRepository) Checklists(_ context.Context, userID string) ([]model.Checklist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lists, ok := r.checklists[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]model.Checklist{}, lists...), nil
}

func (r *MemoryRepository) ChecklistByID(_ context.Context, userID, checklistID string) (model.Checklist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.checklists[userID] {
		if c.ID == checklistID {
			return c, nil
		}
	}
	return model.Checklist{}, ErrNotFound
}

func (r *MemoryRepository) PutChecklist(_ context.Context, userID string, c model.Checklist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lists, ok := r.checklists[userID]
	if !ok {
		return ErrNotFound
	}
	for i := range lists {
		if lists[i].ID == c.ID {
			lists[i] = c
			r.checklists[userID] = lists
			return nil
		}
	}
	r.checklists[userID] = append(lists, c)
	return nil
}

func (r *MemoryRepository) DeleteChecklist(_ context.Context, userID, checklistID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lists, ok := r.checklists[userID]
	if !ok {
		return ErrNotFound
	}
	for i := range lists {
		if lists[i].ID == checklistID {
			r.checklists[userID] = append(lists[:i], lists[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepository) ReplaceChecklists(_ context.Context, userID string, lists []model.Checklist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checklists[userID]; !ok {
		return ErrNotFound
	}
	r.checklists[userID] = append([]model.Checklist{}, lists...)
	return nil
}
