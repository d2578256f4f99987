package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-checklist-api/internal/model"
	"go-checklist-api/internal/service"
)

type ChecklistItemHandler struct {
	service *service.ChecklistItemService
}

func NewChecklistItemHandler(service *service.ChecklistItemService) *ChecklistItemHandler {
	return &ChecklistItemHandler{service: service}
}

func (h *ChecklistItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), model.ChecklistItemQuery{
		Page:        queryInt(r, "page"),
		Limit:       queryInt(r, "limit"),
		ChecklistID: int64(queryInt(r, "checklist_id")),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, &page.Metadata)
}

func (h *ChecklistItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, item, nil)
}

func (h *ChecklistItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateChecklistItemRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.MessageResponse{
		Message: "Checklist item added successfully.",
		Data:    item,
	}, nil)
}

func (h *ChecklistItemHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.UpdateItemStatusRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.UpdateStatus(r.Context(), id, payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{
		Message: "Checklist item status updated successfully.",
		Data:    item,
	}, nil)
}

func (h *ChecklistItemHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.RenameItemRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.Rename(r.Context(), id, payload.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{
		Message: "Checklist item name updated successfully.",
		Data:    item,
	}, nil)
}

func (h *ChecklistItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Checklist item deleted successfully."}, nil)
}
