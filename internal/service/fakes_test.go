package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go-checklist-api/internal/event"
	"go-checklist-api/internal/model"
)

var errStoreDown = errors.New("connection refused")

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
	err    error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]model.User)}
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.User{}, s.err
	}
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.User{}, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memUserStore) Insert(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return model.User{}, s.err
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return model.User{}, model.ErrUserAlreadyExists
		}
		if strings.EqualFold(u.Email, user.Email) {
			return model.User{}, model.ErrEmailAlreadyExists
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return user, nil
}

func (s *memUserStore) delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *memUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

type memChecklistStore struct {
	mu         sync.Mutex
	nextID     int64
	checklists map[int64]model.Checklist
	inUse      map[int64]bool
}

func newMemChecklistStore() *memChecklistStore {
	return &memChecklistStore{checklists: make(map[int64]model.Checklist), inUse: make(map[int64]bool)}
}

func (s *memChecklistStore) List(_ context.Context, filter string, limit int, offset int) ([]model.Checklist, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]model.Checklist, 0)
	for _, c := range s.checklists {
		if filter == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter)) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	if offset >= total {
		return []model.Checklist{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (s *memChecklistStore) FindByID(_ context.Context, id int64) (model.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.checklists[id]
	if !ok {
		return model.Checklist{}, model.ErrChecklistNotFound
	}
	return c, nil
}

func (s *memChecklistStore) Create(_ context.Context, name string) (model.Checklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	c := model.Checklist{ID: s.nextID, Name: name, CreatedAt: now, UpdatedAt: now}
	s.checklists[c.ID] = c
	return c, nil
}

func (s *memChecklistStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checklists[id]; !ok {
		return model.ErrChecklistNotFound
	}
	if s.inUse[id] {
		return model.ErrChecklistInUse
	}
	delete(s.checklists, id)
	return nil
}

type memItemStore struct {
	mu         sync.Mutex
	nextID     int64
	items      map[int64]model.ChecklistItem
	checklists *memChecklistStore
}

func newMemItemStore(checklists *memChecklistStore) *memItemStore {
	return &memItemStore{items: make(map[int64]model.ChecklistItem), checklists: checklists}
}

func (s *memItemStore) List(_ context.Context, checklistID int64, limit int, offset int) ([]model.ChecklistItem, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]model.ChecklistItem, 0)
	for _, item := range s.items {
		if checklistID <= 0 || item.ChecklistID == checklistID {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := len(matched)
	if offset >= total {
		return []model.ChecklistItem{}, total, nil
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (s *memItemStore) FindByID(_ context.Context, id int64) (model.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return model.ChecklistItem{}, model.ErrChecklistItemNotFound
	}
	return item, nil
}

func (s *memItemStore) Create(ctx context.Context, item model.ChecklistItem) (model.ChecklistItem, error) {
	checklist, err := s.checklists.FindByID(ctx, item.ChecklistID)
	if err != nil {
		return model.ChecklistItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	item.ID = s.nextID
	item.Checklist = &checklist
	item.CreatedAt = now
	item.UpdatedAt = now
	s.items[item.ID] = item
	return item, nil
}

func (s *memItemStore) UpdateStatus(_ context.Context, id int64, status model.ChecklistItemStatus) (model.ChecklistItem, error) {
	return s.update(id, func(item *model.ChecklistItem) { item.Status = status })
}

func (s *memItemStore) Rename(_ context.Context, id int64, name string) (model.ChecklistItem, error) {
	return s.update(id, func(item *model.ChecklistItem) { item.Name = name })
}

func (s *memItemStore) update(id int64, apply func(*model.ChecklistItem)) (model.ChecklistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return model.ChecklistItem{}, model.ErrChecklistItemNotFound
	}
	apply(&item)
	item.UpdatedAt = item.UpdatedAt.Add(time.Millisecond)
	s.items[id] = item
	return item, nil
}

func (s *memItemStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return model.ErrChecklistItemNotFound
	}
	delete(s.items, id)
	return nil
}
