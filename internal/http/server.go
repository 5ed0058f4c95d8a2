// Package http exposes the ledger over a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"sevaledger/internal/ledger"
)

type Server struct {
	http.Server
	ledger      *ledger.Ledger
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, l *ledger.Ledger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:      l,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /items", s.withMiddleware(s.handleListItems))
	mux.HandleFunc("POST /items", s.withMiddleware(s.handleCreateItem))
	mux.HandleFunc("GET /items/{id}", s.withMiddleware(s.handleGetItem))
	mux.HandleFunc("PUT /items/{id}", s.withMiddleware(s.handleUpdateItem))
	mux.HandleFunc("DELETE /items/{id}", s.withMiddleware(s.handleDeleteItem))

	mux.HandleFunc("GET /contributions", s.withMiddleware(s.handleListContributions))
	mux.HandleFunc("POST /contributions", s.withMiddleware(s.handleSubmitContribution))
	mux.HandleFunc("PUT /contributions/{id}", s.withMiddleware(s.handleUpdateContribution))
	mux.HandleFunc("DELETE /contributions/{id}", s.withMiddleware(s.handleDeleteContribution))

	mux.HandleFunc("GET /expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("POST /expenses", s.withMiddleware(s.handleRecordExpense))
	mux.HandleFunc("PUT /expenses/{id}", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("POST /expenses/{id}/void", s.withMiddleware(s.handleVoidExpense))

	mux.HandleFunc("GET /payments", s.withMiddleware(s.handleListPayments))
	mux.HandleFunc("POST /payments", s.withMiddleware(s.handleRecordPayment))
	mux.HandleFunc("PUT /payments/{id}", s.withMiddleware(s.handleUpdatePayment))
	mux.HandleFunc("DELETE /payments/{id}", s.withMiddleware(s.handleDeletePayment))

	mux.HandleFunc("GET /settlements", s.withMiddleware(s.handleListSettlements))
	mux.HandleFunc("POST /settlements", s.withMiddleware(s.handleRecordSettlement))

	mux.HandleFunc("GET /summary/wallet", s.withMiddleware(s.handleWalletSummary))
	mux.HandleFunc("GET /summary/settlements", s.withMiddleware(s.handleSettlementsSummary))

	return s
}

// withMiddleware adds request IDs, security headers, rate limiting on
// mutations and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// Shutdown stops the rate limiter cleanup goroutine and drains the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
