package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-checklist-api/internal/model"
	"go-checklist-api/internal/service"
)

type ChecklistHandler struct {
	service *service.ChecklistService
}

func NewChecklistHandler(service *service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{service: service}
}

func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), model.ChecklistQuery{
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
		Filter: r.URL.Query().Get("filter"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, &page.Metadata)
}

func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	checklist, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, checklist, nil)
}

func (h *ChecklistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.CreateChecklistRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	checklist, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.MessageResponse{
		Message: "Checklist added successfully.",
		Data:    checklist,
	}, nil)
}

func (h *ChecklistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Checklist deleted successfully."}, nil)
}
