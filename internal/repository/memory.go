package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go-checklist-api/internal/model"
)

// MemoryStore keeps users, checklists and items in process memory. It mirrors
// the constraints of the PostgreSQL schema (unique username and email,
// restrict on checklist delete) and is used for local runs and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	now        func() time.Time
	userSeq    int64
	listSeq    int64
	itemSeq    int64
	users      map[int64]model.User
	checklists map[int64]model.Checklist
	items      map[int64]model.ChecklistItem
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:        func() time.Time { return time.Now().UTC() },
		users:      map[int64]model.User{},
		checklists: map[int64]model.Checklist{},
		items:      map[int64]model.ChecklistItem{},
	}
}

func (s *MemoryStore) Users() *MemoryUserRepository {
	return &MemoryUserRepository{store: s}
}

func (s *MemoryStore) Checklists() *MemoryChecklistRepository {
	return &MemoryChecklistRepository{store: s}
}

func (s *MemoryStore) ChecklistItems() *MemoryChecklistItemRepository {
	return &MemoryChecklistItemRepository{store: s}
}

type MemoryUserRepository struct {
	store *MemoryStore
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id int64) (model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (model.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	username = strings.TrimSpace(username)
	for _, u := range r.store.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (r *MemoryUserRepository) Insert(_ context.Context, u model.User) (model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Username == u.Username {
			return model.User{}, model.ErrUserAlreadyExists
		}
		if existing.Email == u.Email {
			return model.User{}, model.ErrEmailAlreadyExists
		}
	}

	r.store.userSeq++
	u.ID = r.store.userSeq
	u.CreatedAt = r.store.now()
	u.UpdatedAt = u.CreatedAt
	r.store.users[u.ID] = u
	return u, nil
}

// Delete exists for tests that need a token whose user is gone.
func (r *MemoryUserRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(r.store.users, id)
	return nil
}

type MemoryChecklistRepository struct {
	store *MemoryStore
}

func (r *MemoryChecklistRepository) List(_ context.Context, filter string, limit int, offset int) ([]model.Checklist, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	filter = strings.ToLower(strings.TrimSpace(filter))
	matched := make([]model.Checklist, 0, len(r.store.checklists))
	for _, c := range r.store.checklists {
		if filter == "" || strings.Contains(strings.ToLower(c.Name), filter) {
			matched = append(matched, c)
		}
	}
	slices.SortFunc(matched, func(a, b model.Checklist) int { return compareID(a.ID, b.ID) })

	return window(matched, limit, offset), len(matched), nil
}

func (r *MemoryChecklistRepository) FindByID(_ context.Context, id int64) (model.Checklist, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.checklists[id]
	if !ok {
		return model.Checklist{}, model.ErrChecklistNotFound
	}
	return c, nil
}

func (r *MemoryChecklistRepository) Create(_ context.Context, name string) (model.Checklist, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.listSeq++
	now := r.store.now()
	c := model.Checklist{ID: r.store.listSeq, Name: name, CreatedAt: now, UpdatedAt: now}
	r.store.checklists[c.ID] = c
	return c, nil
}

func (r *MemoryChecklistRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.checklists[id]; !ok {
		return model.ErrChecklistNotFound
	}
	for _, item := range r.store.items {
		if item.ChecklistID == id {
			return model.ErrChecklistInUse
		}
	}
	delete(r.store.checklists, id)
	return nil
}

type MemoryChecklistItemRepository struct {
	store *MemoryStore
}

func (r *MemoryChecklistItemRepository) List(_ context.Context, checklistID int64, limit int, offset int) ([]model.ChecklistItem, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]model.ChecklistItem, 0, len(r.store.items))
	for _, item := range r.store.items {
		if checklistID <= 0 || item.ChecklistID == checklistID {
			matched = append(matched, r.store.withChecklist(item))
		}
	}
	slices.SortFunc(matched, func(a, b model.ChecklistItem) int { return compareID(a.ID, b.ID) })

	return window(matched, limit, offset), len(matched), nil
}

func (r *MemoryChecklistItemRepository) FindByID(_ context.Context, id int64) (model.ChecklistItem, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.items[id]
	if !ok {
		return model.ChecklistItem{}, model.ErrChecklistItemNotFound
	}
	return r.store.withChecklist(item), nil
}

func (r *MemoryChecklistItemRepository) Create(_ context.Context, item model.ChecklistItem) (model.ChecklistItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.checklists[item.ChecklistID]; !ok {
		return model.ChecklistItem{}, model.ErrChecklistNotFound
	}

	r.store.itemSeq++
	now := r.store.now()
	item.ID = r.store.itemSeq
	item.Checklist = nil
	item.CreatedAt = now
	item.UpdatedAt = now
	r.store.items[item.ID] = item
	return r.store.withChecklist(item), nil
}

func (r *MemoryChecklistItemRepository) UpdateStatus(_ context.Context, id int64, status model.ChecklistItemStatus) (model.ChecklistItem, error) {
	return r.update(id, func(item *model.ChecklistItem) { item.Status = status })
}

func (r *MemoryChecklistItemRepository) Rename(_ context.Context, id int64, name string) (model.ChecklistItem, error) {
	return r.update(id, func(item *model.ChecklistItem) { item.Name = name })
}

func (r *MemoryChecklistItemRepository) update(id int64, apply func(*model.ChecklistItem)) (model.ChecklistItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.items[id]
	if !ok {
		return model.ChecklistItem{}, model.ErrChecklistItemNotFound
	}
	apply(&item)
	item.UpdatedAt = r.store.now()
	r.store.items[id] = item
	return r.store.withChecklist(item), nil
}

func (r *MemoryChecklistItemRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.items[id]; !ok {
		return model.ErrChecklistItemNotFound
	}
	delete(r.store.items, id)
	return nil
}

// withChecklist must be called with the lock held.
func (s *MemoryStore) withChecklist(item model.ChecklistItem) model.ChecklistItem {
	if c, ok := s.checklists[item.ChecklistID]; ok {
		item.Checklist = &c
	}
	return item
}

func window[T any](items []T, limit int, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

func compareID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
