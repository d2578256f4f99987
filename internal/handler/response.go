package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"go-checklist-api/internal/model"
	"go-checklist-api/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.PageMeta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeError(w http.ResponseWriter, err error) {
	body := toAPIError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.HTTPStatus)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}

func toAPIError(err error) *apierror.APIError {
	var apiErr *apierror.APIError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &maxBytesErr):
		return apierror.New("PAYLOAD_TOO_LARGE", "Request body too large", "", http.StatusRequestEntityTooLarge)
	case errors.Is(err, model.ErrUserNotFound):
		return apierror.NotFound("User not found")
	case errors.Is(err, model.ErrUserAlreadyExists):
		return apierror.Conflict("Username is already in use.")
	case errors.Is(err, model.ErrEmailAlreadyExists):
		return apierror.Conflict("Email is already in use.")
	case errors.Is(err, model.ErrInvalidToken):
		return apierror.Unauthorized("Authentication required")
	case errors.Is(err, model.ErrChecklistNotFound):
		return apierror.NotFound("Checklist not found")
	case errors.Is(err, model.ErrChecklistInUse):
		return apierror.Conflict("Checklist still has items")
	case errors.Is(err, model.ErrChecklistItemNotFound):
		return apierror.NotFound("Checklist item not found")
	}

	// Log unclassified errors so they are visible in container logs.
	slog.Error("unhandled error in writeError", "error", err)
	return apierror.Internal()
}

// decodeJSON reads a single JSON document from the request body.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return apierror.BadRequest("request body is required", "")
		}
		return apierror.BadRequest("invalid JSON body", "")
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest("invalid id", "id")
	}
	return id, nil
}

func queryInt(r *http.Request, key string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return value
}
