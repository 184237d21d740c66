package httpapi

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/endauction"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/placebid"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/startauction"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/command/withdrawrefund"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/features/query/auctionstatus"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/shell"
)

// maxBiddingDurationSeconds is the longest bidding duration a time.Duration can hold.
const maxBiddingDurationSeconds = math.MaxInt64 / int64(time.Second)

var (
	errInvalidAuctionID = errors.New("auction id must be a uuid")
	errInvalidBody      = errors.New("invalid request body")
)

// StartAuctionRequest is the body of POST /api/v1/auctions. AuctionID is generated if empty.
type StartAuctionRequest struct {
	AuctionID              string `json:"auctionId,omitempty"`
	Beneficiary            string `json:"beneficiary"`
	BiddingDurationSeconds int64  `json:"biddingDurationSeconds"`
}

// PlaceBidRequest is the body of POST /api/v1/auctions/{id}/bids.
type PlaceBidRequest struct {
	Amount core.Amount `json:"amount"`
}

// CommandResponse reports the outcome of a command.
type CommandResponse struct {
	AuctionID     string `json:"auctionId"`
	Idempotent    bool   `json:"idempotent"`
	RetryAttempts int    `json:"retryAttempts"`
}

// HealthCheck returns service health status.
func (s *Server) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "auctiond",
		"time":    s.clock.Now().UTC().Format(time.RFC3339),
	})
}

// StartAuction handles POST /api/v1/auctions.
func (s *Server) StartAuction(w http.ResponseWriter, r *http.Request) {
	var req StartAuctionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	auctionID := uuid.New()
	if req.AuctionID != "" {
		parsed, err := uuid.Parse(req.AuctionID)
		if err != nil {
			s.respondError(w, errors.Join(errInvalidAuctionID, err))
			return
		}

		auctionID = parsed
	}

	if req.BiddingDurationSeconds > maxBiddingDurationSeconds {
		s.respondError(w, core.ErrInvalidBiddingDuration)
		return
	}

	command := startauction.BuildCommandWithRules(
		auctionID,
		req.Beneficiary,
		time.Duration(req.BiddingDurationSeconds)*time.Second,
		s.rules,
		s.clock.Now(),
	)

	result, err := s.handlers.StartAuction.Handle(r.Context(), command)
	if err != nil {
		s.respondError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Idempotent {
		status = http.StatusOK
	}

	respondJSON(w, status, commandResponse(auctionID, result))
}

// GetAuction handles GET /api/v1/auctions/{id}.
func (s *Server) GetAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDFrom(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	status, err := s.handlers.AuctionStatus.Handle(r.Context(), auctionstatus.BuildQuery(auctionID))
	if err != nil {
		s.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

// PlaceBid handles POST /api/v1/auctions/{id}/bids.
func (s *Server) PlaceBid(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDFrom(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req PlaceBidRequest
	if err = decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	command := placebid.BuildCommand(auctionID, r.Header.Get(AccountHeader), req.Amount, s.clock.Now())

	result, err := s.handlers.PlaceBid.Handle(r.Context(), command)
	if err != nil {
		s.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, commandResponse(auctionID, result))
}

// WithdrawRefund handles POST /api/v1/auctions/{id}/withdrawals.
func (s *Server) WithdrawRefund(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDFrom(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	command := withdrawrefund.BuildCommand(auctionID, r.Header.Get(AccountHeader), s.clock.Now())

	result, err := s.handlers.WithdrawRefund.Handle(r.Context(), command)
	if err != nil {
		s.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, commandResponse(auctionID, result))
}

// EndAuction handles POST /api/v1/auctions/{id}/end.
func (s *Server) EndAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := auctionIDFrom(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	result, err := s.handlers.EndAuction.Handle(r.Context(), endauction.BuildCommand(auctionID, s.clock.Now()))
	if err != nil {
		s.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, commandResponse(auctionID, result))
}

func auctionIDFrom(r *http.Request) (uuid.UUID, error) {
	auctionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.UUID{}, errors.Join(errInvalidAuctionID, err)
	}

	return auctionID, nil
}

func commandResponse(auctionID uuid.UUID, result shell.HandlerResult) CommandResponse {
	return CommandResponse{
		AuctionID:     auctionID.String(),
		Idempotent:    result.Idempotent,
		RetryAttempts: result.RetryAttempts,
	}
}
