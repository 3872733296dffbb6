// Package api implements the HTTP API of the tuition escrow backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Mahesh00234h/installment/config"
	klog "github.com/Mahesh00234h/installment/internal/log"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// Gateway is the slice of the chain client the handlers need. It exists so
// tests can substitute a double for the real node connection.
type Gateway interface {
	// SubmitEntryFunction signs, submits, and waits for an entry-function
	// call, returning the transaction hash.
	SubmitEntryFunction(payer *aptos.Account, entry *aptos.EntryFunction) (string, error)

	// ReadResource fetches a named account resource as an untyped record.
	ReadResource(address aptos.AccountAddress, resourceType string) (map[string]any, error)
}

// Server is the escrow HTTP API server.
type Server struct {
	cfg     *config.Config
	gateway Gateway
	handler http.Handler
	server  *http.Server
	logger  zerolog.Logger
	ln      net.Listener
}

// New creates the API server. The gateway is constructed once by the caller
// and shared across requests.
func New(cfg *config.Config, gateway Gateway) *Server {
	s := &Server{
		cfg:     cfg,
		gateway: gateway,
		logger:  klog.WithComponent("api"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.FrontendDir))))
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/agreements", s.handleCreateAgreement)
	mux.HandleFunc("GET /api/agreements", s.handleListAgreements)
	// Literal segment wins over the {id} wildcard, so next_id is never
	// captured as an agreement id.
	mux.HandleFunc("GET /api/agreements/next_id", s.handleNextID)
	mux.HandleFunc("GET /api/agreements/{id}", s.handleGetAgreement)
	mux.HandleFunc("POST /api/agreements/{id}/pay", s.handlePayInstallment)

	s.handler = s.withCORS(s.withRequestLog(mux))

	s.server = &http.Server{
		Handler:     s.handler,
		ReadTimeout: 30 * time.Second,
		// Submit-and-wait holds the response open until the transaction is
		// terminal on chain.
		WriteTimeout: 2 * time.Minute,
	}

	return s
}

// Handler exposes the fully wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening and serving in a background goroutine.
// It returns immediately after the listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.ln = ln

	s.logger.Info().Str("addr", s.Addr()).Msg("API server listening")

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("API server error")
		}
	}()

	return nil
}

// Addr returns the listener address (useful when bound to :0).
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.ListenAddr
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// withCORS allows the web client to call the API from any origin, matching
// the original deployment.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog logs one line per request with a generated request id.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info().
			Str("request_id", uuid.NewString()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

// writeError writes a JSON error response with a detail message.
func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, ErrorResponse{Detail: detail})
}
