package dash

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivePushesSnapshots(t *testing.T) {
	srv, store := newTestServer(t, true)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	readState := func() stateResponse {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		var resp stateResponse
		require.NoError(t, json.Unmarshal(msg, &resp))
		return resp
	}

	// The hub sends the current state immediately on connect.
	initial := readState()
	assert.Equal(t, "USA", initial.Selected)
	assert.Equal(t, phaseReady, initial.Phase)

	// A selection change pushes the loading state, then the committed rows.
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store.Select(ctx, "Canada")
	loading := readState()
	assert.Equal(t, "Canada", loading.Selected)
	assert.Equal(t, phaseEmpty, loading.Phase)

	ready := readState()
	assert.Equal(t, "Canada", ready.Selected)
	assert.Equal(t, phaseReady, ready.Phase)
	require.Len(t, ready.Cities, 1)
	assert.Equal(t, "Toronto", ready.Cities[0].Name)
}
