package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-checklist-api/internal/event"
)

func TestEventStreamDeliversChanges(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.register("root", true)
	s.register("alice", false)
	adminCookie := s.login("root")
	userCookie := s.login("alice")

	srv := httptest.NewServer(s.handler)
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{}
	header.Set("Cookie", userCookie.Name+"="+userCookie.Value)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	rec, _ := s.do(http.MethodPost, "/api/checklists", map[string]string{"checklistName": "Trip"}, adminCookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var got struct {
		Type    event.Type      `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, event.TypeChecklistCreated, got.Type)
	assert.Contains(t, string(got.Payload), `"checklistName":"Trip"`)
}
