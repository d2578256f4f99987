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

const (
	msgInvalidStatus      = "Invalid status provided."
	msgInvalidChecklistID = "Invalid checklist_id provided."
	msgInvalidName        = "Invalid name provided."
)

type ChecklistItemStore interface {
	List(ctx context.Context, checklistID int64, limit int, offset int) ([]model.ChecklistItem, int, error)
	FindByID(ctx context.Context, id int64) (model.ChecklistItem, error)
	Create(ctx context.Context, item model.ChecklistItem) (model.ChecklistItem, error)
	UpdateStatus(ctx context.Context, id int64, status model.ChecklistItemStatus) (model.ChecklistItem, error)
	Rename(ctx context.Context, id int64, name string) (model.ChecklistItem, error)
	Delete(ctx context.Context, id int64) error
}

type ChecklistItemService struct {
	items      ChecklistItemStore
	checklists ChecklistStore
	events     event.Publisher
}

func NewChecklistItemService(items ChecklistItemStore, checklists ChecklistStore, opts ...Option) *ChecklistItemService {
	o := applyOptions(opts)
	return &ChecklistItemService{items: items, checklists: checklists, events: o.events}
}

func (s *ChecklistItemService) List(ctx context.Context, query model.ChecklistItemQuery) (model.ChecklistItemPage, error) {
	page, limit := normalizePage(query.Page, query.Limit)

	items, total, err := s.items.List(ctx, query.ChecklistID, limit, pageOffset(page, limit))
	if err != nil {
		slog.Error("list checklist items failed", "error", err)
		return model.ChecklistItemPage{}, apierror.Internal()
	}

	return model.ChecklistItemPage{
		Metadata:       buildPageMeta(total, page, limit),
		ChecklistItems: items,
	}, nil
}

func (s *ChecklistItemService) Get(ctx context.Context, id int64) (model.ChecklistItem, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return model.ChecklistItem{}, itemError("get checklist item", id, err)
	}
	return item, nil
}

func (s *ChecklistItemService) Create(ctx context.Context, req model.CreateChecklistItemRequest) (model.ChecklistItem, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return model.ChecklistItem{}, err
	}

	if req.Status == "" {
		req.Status = model.StatusIncomplete
	}
	if !req.Status.Valid() {
		return model.ChecklistItem{}, apierror.BadRequest(msgInvalidStatus, string(req.Status))
	}

	if _, err := s.checklists.FindByID(ctx, req.ChecklistID); err != nil {
		if errors.Is(err, model.ErrChecklistNotFound) {
			return model.ChecklistItem{}, apierror.BadRequest(msgInvalidChecklistID, "")
		}
		slog.Error("create checklist item: lookup checklist failed", "checklist_id", req.ChecklistID, "error", err)
		return model.ChecklistItem{}, apierror.Internal()
	}

	item, err := s.items.Create(ctx, model.ChecklistItem{
		Name:        req.Name,
		ChecklistID: req.ChecklistID,
		Status:      req.Status,
	})
	if err != nil {
		// The checklist can disappear between the lookup and the insert.
		if errors.Is(err, model.ErrChecklistNotFound) {
			return model.ChecklistItem{}, apierror.BadRequest(msgInvalidChecklistID, "")
		}
		slog.Error("create checklist item failed", "checklist_id", req.ChecklistID, "error", err)
		return model.ChecklistItem{}, apierror.Internal()
	}

	slog.Info("checklist item created", "item_id", item.ID, "checklist_id", item.ChecklistID)
	s.events.Publish(event.Event{Type: event.TypeItemCreated, Payload: item})
	return item, nil
}

func (s *ChecklistItemService) UpdateStatus(ctx context.Context, id int64, status model.ChecklistItemStatus) (model.ChecklistItem, error) {
	if !status.Valid() {
		return model.ChecklistItem{}, apierror.BadRequest(msgInvalidStatus, string(status))
	}

	item, err := s.items.UpdateStatus(ctx, id, status)
	if err != nil {
		return model.ChecklistItem{}, itemError("update checklist item status", id, err)
	}
	s.events.Publish(event.Event{Type: event.TypeItemStatusChanged, Payload: item})
	return item, nil
}

func (s *ChecklistItemService) Rename(ctx context.Context, id int64, name string) (model.ChecklistItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ChecklistItem{}, apierror.BadRequest(msgInvalidName, "")
	}
	if err := validation.Struct(model.RenameItemRequest{Name: name}); err != nil {
		return model.ChecklistItem{}, err
	}

	item, err := s.items.Rename(ctx, id, name)
	if err != nil {
		return model.ChecklistItem{}, itemError("rename checklist item", id, err)
	}
	s.events.Publish(event.Event{Type: event.TypeItemRenamed, Payload: item})
	return item, nil
}

func (s *ChecklistItemService) Delete(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return itemError("delete checklist item", id, err)
	}
	slog.Info("checklist item deleted", "item_id", id)
	s.events.Publish(event.Event{Type: event.TypeItemDeleted, Payload: map[string]int64{"id": id}})
	return nil
}

func itemError(op string, id int64, err error) error {
	if errors.Is(err, model.ErrChecklistItemNotFound) {
		return apierror.NotFound("Checklist item not found")
	}
	slog.Error(op+" failed", "item_id", id, "error", err)
	return apierror.Internal()
}
