package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go-checklist-api/internal/model"
	"go-checklist-api/pkg/apierror"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout bounds handler run time. A handler that overruns gets a 503 with
// the standard error envelope.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body, _ := json.Marshal(model.APIResponse{
		Error: apierror.New("REQUEST_TIMEOUT", "Request timed out", "", http.StatusServiceUnavailable),
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
