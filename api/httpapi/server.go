package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/endauction"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/placebid"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/startauction"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/withdrawrefund"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/query/auctionstatus"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
)

// AccountHeader carries the identity of the caller.
const AccountHeader = "X-Account-ID"

// Handlers are the command and query handlers the API delegates to.
type Handlers struct {
	StartAuction   shell.CommandHandler[startauction.Command]
	PlaceBid       shell.CommandHandler[placebid.Command]
	WithdrawRefund shell.CommandHandler[withdrawrefund.Command]
	EndAuction     shell.CommandHandler[endauction.Command]
	AuctionStatus  shell.QueryHandler[auctionstatus.Query, auctionstatus.AuctionStatus]
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	clock    shell.Clock
	rules    core.Rules
	logger   shell.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock which stamps every command, shell.SystemClock by default.
func WithClock(clock shell.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithRules sets the rules new auctions are started with, core.DefaultRules by default.
func WithRules(rules core.Rules) Option {
	return func(s *Server) {
		s.rules = rules
	}
}

// WithLogger enables request logging and the logging of internal errors.
func WithLogger(logger shell.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server.
func NewServer(handlers Handlers, opts ...Option) *Server {
	s := &Server{
		handlers: handlers,
		clock:    shell.SystemClock(),
		rules:    core.DefaultRules(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Routes configures all HTTP routes.
func (s *Server) Routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.HealthCheck).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auctions", s.StartAuction).Methods(http.MethodPost)
	api.HandleFunc("/auctions/{id}", s.GetAuction).Methods(http.MethodGet)
	api.HandleFunc("/auctions/{id}/bids", s.PlaceBid).Methods(http.MethodPost)
	api.HandleFunc("/auctions/{id}/withdrawals", s.WithdrawRefund).Methods(http.MethodPost)
	api.HandleFunc("/auctions/{id}/end", s.EndAuction).Methods(http.MethodPost)

	router.Use(s.loggingMiddleware)

	return router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.logger == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", shell.ToMilliseconds(time.Since(start)),
		)
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
