// Package server exposes the agent over HTTP.
//
// Information Hiding:
// - Routing, CORS and timeout policy internalized
// - Error-to-status mapping hidden from the agent

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/richinex/citychat/agent"
	"github.com/richinex/citychat/model"
	"github.com/richinex/citychat/storage"
)

const maxRequestBody = 64 << 10 // questions are short; history stays bounded

// Server serves the question-answering API.
type Server struct {
	agent          *agent.Agent
	exchangeLog    *storage.ExchangeLog
	logger         *zap.Logger
	requestTimeout time.Duration
	httpServer     *http.Server
}

// New creates a server around an agent.
func New(a *agent.Agent) *Server {
	return &Server{
		agent:          a,
		logger:         zap.NewNop(),
		requestTimeout: 2 * time.Minute,
	}
}

// WithLogger attaches a logger for request diagnostics.
func (s *Server) WithLogger(logger *zap.Logger) *Server {
	s.logger = logger
	return s
}

// WithExchangeLog records completed exchanges to the audit log.
func (s *Server) WithExchangeLog(log *storage.ExchangeLog) *Server {
	s.exchangeLog = log
	return s
}

// WithRequestTimeout bounds one request end to end, model calls included.
func (s *Server) WithRequestTimeout(timeout time.Duration) *Server {
	if timeout > 0 {
		s.requestTimeout = timeout
	}
	return s
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /exchanges", s.handleExchanges)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	return c.Handler(s.logRequests(mux))
}

// ListenAndServe starts the server on addr and blocks until ctx is
// cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// AskRequest is the /ask request body.
type AskRequest struct {
	Question string              `json:"question"`
	History  []agent.HistoryPair `json:"history,omitempty"`
}

// AskResponse is the /ask response body.
type AskResponse struct {
	Response string         `json:"response"`
	Outcome  model.Outcome  `json:"outcome"`
	Metadata agent.Metadata `json:"metadata"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	var req AskRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	start := time.Now()
	resp, err := s.agent.Ask(ctx, req.Question, req.History)
	if err != nil {
		var rejection *agent.RejectionError
		if errors.As(err, &rejection) {
			s.recordExchange(req.Question, "", model.OutcomeRejected, nil, start)
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: rejection.Reason})
			return
		}
		s.logger.Error("agent run failed", zap.Error(err))
		s.recordExchange(req.Question, "", model.OutcomeFailed, nil, start)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "language model request failed"})
		return
	}

	s.recordExchange(req.Question, resp.Content, resp.Outcome, resp, start)
	writeJSON(w, http.StatusOK, AskResponse{
		Response: resp.Content,
		Outcome:  resp.Outcome,
		Metadata: resp.Metadata,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExchanges(w http.ResponseWriter, r *http.Request) {
	if s.exchangeLog == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "exchange log disabled"})
		return
	}

	exchanges, err := s.exchangeLog.Recent(r.Context(), 20)
	if err != nil {
		s.logger.Error("list exchanges failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not list exchanges"})
		return
	}
	if exchanges == nil {
		exchanges = []storage.Exchange{}
	}
	writeJSON(w, http.StatusOK, exchanges)
}

// recordExchange persists the round trip; audit failures are logged, never
// surfaced to the client.
func (s *Server) recordExchange(question, answer string, outcome model.Outcome, resp *agent.Response, start time.Time) {
	if s.exchangeLog == nil {
		return
	}

	ex := storage.Exchange{
		Provider:   s.agent.Provider().Name(),
		Model:      s.agent.Provider().Model(),
		Question:   question,
		Answer:     answer,
		Outcome:    string(outcome),
		DurationMs: uint64(time.Since(start).Milliseconds()),
	}
	if resp != nil {
		ex.LLMCalls = resp.Metadata.LLMCalls
		ex.ToolCalls = len(resp.Metadata.ToolCalls)
		if resp.Metadata.TokenUsage != nil {
			ex.TotalTokens = resp.Metadata.TokenUsage.TotalTokens
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.exchangeLog.Record(ctx, ex); err != nil {
		s.logger.Warn("record exchange failed", zap.Error(err))
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
