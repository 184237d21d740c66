package httpapi

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error      core.FailureKind `json:"error"`
	Message    string           `json:"message"`
	HighestBid *core.Amount     `json:"highestBid,omitempty"`
}

// StatusOf maps a FailureKind to its HTTP status.
func StatusOf(kind core.FailureKind) int {
	switch kind {
	case core.KindNone:
		return http.StatusOK
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindAuctionAlreadyEnded, core.KindBidNotHighEnough, core.KindAuctionNotYetEnded, core.KindAuctionEndAlready:
		return http.StatusConflict
	case core.KindCooldownTime:
		return http.StatusTooManyRequests
	case core.KindTransferFailed:
		return http.StatusPaymentRequired
	case core.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	kind := core.KindOf(err)
	if errors.Is(err, errInvalidAuctionID) || errors.Is(err, errInvalidBody) {
		kind = core.KindValidation
	}

	response := ErrorResponse{Error: kind, Message: err.Error()}

	var notHighEnough core.BidNotHighEnoughError
	if errors.As(err, &notHighEnough) {
		response.HighestBid = &notHighEnough.HighestBid
	}

	status := StatusOf(kind)
	if status == http.StatusInternalServerError {
		if s.logger != nil {
			s.logger.Error("request failed", "error", err.Error())
		}

		response.Message = http.StatusText(status)
	}

	respondJSON(w, status, response)
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return errors.Join(errInvalidBody, err)
	}

	return nil
}
