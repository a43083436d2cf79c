package api

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

	"github.com/zerosite/zerosite/internal/config"
)

func dialNarration(t *testing.T, s *testServer, query string) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(s.router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/zero/narrate?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func readNarration(t *testing.T, conn *websocket.Conn) NarrationMessage {
	t.Helper()
	var msg NarrationMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestNarrate_StreamsParagraphsWithAck(t *testing.T) {
	s := newTestServer(t, testDocument)
	conn := dialNarration(t, s, "chapter=1&principle=1")

	start := readNarration(t, conn)
	assert.Equal(t, narrationStart, start.Type)
	assert.Equal(t, "Everything begins at zero.", start.Title)
	assert.Equal(t, 2, start.Total)

	first := readNarration(t, conn)
	assert.Equal(t, narrationSegment, first.Type)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "Everything begins at zero.\nIt is the origin.", first.Text)
	require.NoError(t, conn.WriteJSON(NarrationMessage{Type: narrationAck}))

	second := readNarration(t, conn)
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, "Return to it often.", second.Text)
	require.NoError(t, conn.WriteJSON(NarrationMessage{Type: narrationAck}))

	done := readNarration(t, conn)
	assert.Equal(t, narrationDone, done.Type)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestNarrate_StopEndsStream(t *testing.T) {
	s := newTestServer(t, testDocument)
	conn := dialNarration(t, s, "chapter=1&principle=1")

	readNarration(t, conn) // start
	readNarration(t, conn) // segment 0
	require.NoError(t, conn.WriteJSON(NarrationMessage{Type: narrationStop}))

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestNarrate_UnknownPrinciple(t *testing.T) {
	s := newTestServer(t, testDocument)
	conn := dialNarration(t, s, "chapter=2&principle=9")

	msg := readNarration(t, conn)
	assert.Equal(t, narrationError, msg.Type)
	assert.Equal(t, "章节 2 中原则 9 不存在", msg.Message)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestNarrate_InvalidQueryRejectedBeforeUpgrade(t *testing.T) {
	s := newTestServer(t, testDocument)

	w := s.do(http.MethodGet, "/ws/zero/narrate?chapter=x&principle=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrorInvalidChapter)

	w = s.do(http.MethodGet, "/ws/zero/narrate?chapter=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrorInvalidPrinciple)
}

func TestNarrate_AckTimeoutClosesStream(t *testing.T) {
	s := newTestServer(t, testDocument, withConfig(func(cfg *config.AppConfig) {
		cfg.NarrationAckTimeout = 50 * time.Millisecond
	}))
	conn := dialNarration(t, s, "chapter=1&principle=1")

	readNarration(t, conn) // start
	readNarration(t, conn) // segment 0

	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestNarrate_MissingDocumentHidesDetails(t *testing.T) {
	s := newTestServer(t, "")
	conn := dialNarration(t, s, "chapter=1&principle=1")

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "zero.txt")

	var msg NarrationMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, narrationError, msg.Type)
	assert.Equal(t, MessageInternalServerFail, msg.Message)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseInternalServerErr), "got %v", err)
	assert.Equal(t, int64(1), s.collector.GetCounterValue("errors_narration_failure"))
}
