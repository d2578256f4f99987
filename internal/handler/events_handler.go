package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	gws "github.com/gorilla/websocket"

	"go-checklist-api/internal/event"
	"go-checklist-api/internal/websocket"
)

// EventsHandler upgrades authenticated requests to a websocket that receives
// checklist change events.
type EventsHandler struct {
	bus      event.Bus
	upgrader gws.Upgrader
}

// NewEventsHandler accepts same-origin upgrades plus the explicitly listed
// origins. A "*" entry does not widen the check, since the socket is
// authenticated by cookie.
func NewEventsHandler(bus event.Bus, allowedOrigins []string) *EventsHandler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" && o != "*" {
			origins = append(origins, strings.ToLower(o))
		}
	}

	return &EventsHandler{
		bus: bus,
		upgrader: gws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r, origins)
			},
		},
	}
}

func originAllowed(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return slices.Contains(allowed, strings.ToLower(strings.TrimRight(origin, "/")))
}

// Stream subscribes before completing the handshake so that no change made
// after the client sees the upgrade is missed.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	// Upgrade writes its own error response.
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("event stream upgrade failed", "error", err)
		return
	}

	if err := websocket.Stream(r.Context(), conn, events); err != nil {
		slog.Debug("event stream closed with error", "error", err)
	}
}
