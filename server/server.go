package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/kataras/golog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"research-agent/agent"
)

// Answerer runs the research pipeline for one question.
type Answerer interface {
	AnswerQuestion(ctx context.Context, question string) (agent.AnswerResult, error)
}

// closeCodeMissingQuestion is sent when a websocket client omits the
// question query parameter.
const closeCodeMissingQuestion = 4000

// Server exposes the agent over HTTP: an SSE stream, a websocket stream,
// health and Prometheus endpoints. The final answer is re-emitted in
// fixed-size chunks followed by a done event carrying the full result.
type Server struct {
	agent Answerer

	chunkSize  int
	chunkDelay time.Duration
	upgrader   websocket.Upgrader
}

// New creates a server around the given agent.
func New(a Answerer) *Server {
	return &Server{
		agent:      a,
		chunkSize:  50,
		chunkDelay: 20 * time.Millisecond,
		upgrader: websocket.Upgrader{
			// The agent is an open endpoint; origin checks are left to
			// whatever fronts it in a real deployment.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/api/stream", s.handleStream)
	r.Get("/api/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	golog.Infof("server: listening on %s", addr)
	return http.ListenAndServe(addr, s.Routes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleStream answers a question over server-sent events: token events with
// 50-character chunks, then a done event with the full AnswerResult. A client
// disconnect stops emission only; the pipeline run itself completes.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	question := r.URL.Query().Get("question")
	if question == "" {
		http.Error(w, "missing question parameter", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	result, err := s.agent.AnswerQuestion(context.WithoutCancel(r.Context()), question)
	if err != nil {
		http.Error(w, "pipeline failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	for _, chunk := range chunks(result.Answer, s.chunkSize) {
		if r.Context().Err() != nil {
			return
		}
		payload, _ := json.Marshal(map[string]string{"text": chunk})
		fmt.Fprintf(w, "event: token\ndata: %s\n\n", payload)
		flusher.Flush()
		time.Sleep(s.chunkDelay)
	}

	done, _ := json.Marshal(result)
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", done)
	flusher.Flush()
}

// handleWS mirrors the SSE stream over a websocket: token payloads as JSON
// messages, the full AnswerResult, then a normal close.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		golog.Warnf("server: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	question := r.URL.Query().Get("question")
	if question == "" {
		deadline := time.Now().Add(time.Second)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(closeCodeMissingQuestion, "missing question"), deadline)
		return
	}

	result, err := s.agent.AnswerQuestion(context.WithoutCancel(r.Context()), question)
	if err != nil {
		golog.Errorf("server: pipeline failed: %v", err)
		return
	}

	for _, chunk := range chunks(result.Answer, s.chunkSize) {
		if err := conn.WriteJSON(map[string]string{"text": chunk}); err != nil {
			return
		}
		time.Sleep(s.chunkDelay)
	}

	if err := conn.WriteJSON(result); err != nil {
		return
	}
	deadline := time.Now().Add(time.Second)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}

// chunks splits s into pieces of at most size bytes.
func chunks(s string, size int) []string {
	if size <= 0 || s == "" {
		return []string{s}
	}
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	return append(out, s)
}
