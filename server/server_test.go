package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-agent/agent"
)

type stubAnswerer struct {
	result agent.AnswerResult
}

func (s *stubAnswerer) AnswerQuestion(ctx context.Context, question string) (agent.AnswerResult, error) {
	return s.result, nil
}

func title(s string) *string { return &s }

func testServer() (*Server, agent.AnswerResult) {
	result := agent.AnswerResult{
		Answer: strings.Repeat("word ", 25), // forces several 50-char chunks
		Citations: []agent.Citation{
			{ID: 1, Title: title("Source"), URL: "https://example.com/1"},
		},
	}
	s := New(&stubAnswerer{result: result})
	s.chunkDelay = 0
	return s, result
}

func TestStreamEmitsTokensAndDone(t *testing.T) {
	t.Parallel()

	s, result := testServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stream?question=anything")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Greater(t, strings.Count(text, "event: token"), 1)
	require.Contains(t, text, "event: done")

	// The done event carries the full result.
	donePart := text[strings.Index(text, "event: done"):]
	dataLine := strings.TrimPrefix(strings.Split(donePart, "\n")[1], "data: ")

	var done agent.AnswerResult
	require.NoError(t, json.Unmarshal([]byte(dataLine), &done))
	assert.Equal(t, result.Answer, done.Answer)
	require.Len(t, done.Citations, 1)
	assert.Equal(t, 1, done.Citations[0].ID)
}

func TestStreamRequiresQuestion(t *testing.T) {
	t.Parallel()

	s, _ := testServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebsocketStream(t *testing.T) {
	t.Parallel()

	s, result := testServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws?question=anything"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var sawToken bool
	var done agent.AnswerResult
	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			break // normal close after the done payload
		}
		if _, ok := msg["text"]; ok {
			sawToken = true
			continue
		}
		raw, err := json.Marshal(msg)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &done))
	}

	assert.True(t, sawToken)
	assert.Equal(t, result.Answer, done.Answer)
}

func TestWebsocketRequiresQuestion(t *testing.T) {
	t.Parallel()

	s, _ := testServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, closeCodeMissingQuestion, closeErr.Code)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	s, _ := testServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s, _ := testServer()
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChunks(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"abc"}, chunks("abc", 50))
	assert.Equal(t, []string{"ab", "cd", "e"}, chunks("abcde", 2))
	assert.Equal(t, []string{""}, chunks("", 2))
}
