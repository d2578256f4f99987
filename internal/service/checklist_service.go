package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go-checklist-api/internal/event"
	"go-checklist-api/internal/model"
	"go-checklist-api/internal/validation"
	"go-checklist-api/pkg/apierror"
)

type ChecklistStore interface {
	List(ctx context.Context, filter string, limit int, offset int) ([]model.Checklist, int, error)
	FindByID(ctx context.Context, id int64) (model.Checklist, error)
	Create(ctx context.Context, name string) (model.Checklist, error)
	Delete(ctx context.Context, id int64) error
}

type ChecklistService struct {
	checklists ChecklistStore
	events     event.Publisher
}

// Option configures the checklist services.
type Option func(*options)

type options struct {
	events event.Publisher
}

// WithPublisher sends change events for successful writes to p.
func WithPublisher(p event.Publisher) Option {
	return func(o *options) {
		if p != nil {
			o.events = p
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{events: event.Nop{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewChecklistService(checklists ChecklistStore, opts ...Option) *ChecklistService {
	o := applyOptions(opts)
	return &ChecklistService{checklists: checklists, events: o.events}
}

func (s *ChecklistService) List(ctx context.Context, query model.ChecklistQuery) (model.ChecklistPage, error) {
	page, limit := normalizePage(query.Page, query.Limit)

	checklists, total, err := s.checklists.List(ctx, query.Filter, limit, pageOffset(page, limit))
	if err != nil {
		slog.Error("list checklists failed", "error", err)
		return model.ChecklistPage{}, apierror.Internal()
	}

	return model.ChecklistPage{
		Metadata:   buildPageMeta(total, page, limit),
		Checklists: checklists,
	}, nil
}

func (s *ChecklistService) Get(ctx context.Context, id int64) (model.Checklist, error) {
	checklist, err := s.checklists.FindByID(ctx, id)
	if err != nil {
		return model.Checklist{}, checklistError("get checklist", id, err)
	}
	return checklist, nil
}

func (s *ChecklistService) Create(ctx context.Context, req model.CreateChecklistRequest) (model.Checklist, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return model.Checklist{}, err
	}

	checklist, err := s.checklists.Create(ctx, req.Name)
	if err != nil {
		slog.Error("create checklist failed", "error", err)
		return model.Checklist{}, apierror.Internal()
	}

	slog.Info("checklist created", "checklist_id", checklist.ID)
	s.events.Publish(event.Event{Type: event.TypeChecklistCreated, Payload: checklist})
	return checklist, nil
}

func (s *ChecklistService) Delete(ctx context.Context, id int64) error {
	if err := s.checklists.Delete(ctx, id); err != nil {
		return checklistError("delete checklist", id, err)
	}
	slog.Info("checklist deleted", "checklist_id", id)
	s.events.Publish(event.Event{Type: event.TypeChecklistDeleted, Payload: map[string]int64{"id": id}})
	return nil
}

func checklistError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, model.ErrChecklistNotFound):
		return apierror.NotFound("Checklist not found")
	case errors.Is(err, model.ErrChecklistInUse):
		return apierror.Conflict("Checklist still has items")
	}
	slog.Error(op+" failed", "checklist_id", id, "error", err)
	return apierror.Internal()
}
