// Package natspublisher publishes settlement records to NATS on the subject "auction.settled.<AuctionID>".
package natspublisher

import (
	"context"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
)

const (
	// DefaultSubjectPrefix is followed by the AuctionID.
	DefaultSubjectPrefix = "auction.settled."

	clientName = "auctiond"
)

// ErrPublishingFailed is returned if the record could not be handed to NATS.
var ErrPublishingFailed = errors.New("publishing settlement record failed")

// Conn is the part of *nats.Conn the Publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// SettlementMessage is the JSON body of a published settlement record.
type SettlementMessage struct {
	AuctionID   core.AuctionIDString `json:"auctionId"`
	Beneficiary core.AccountID       `json:"beneficiary"`
	Winner      core.AccountID       `json:"winner,omitempty"`
	Amount      core.Amount          `json:"amount"`
	SettledAt   time.Time            `json:"settledAt"`
}

// Publisher publishes settlement records. It implements endauction.SettlementPublisher.
type Publisher struct {
	conn          Conn
	subjectPrefix string
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithSubjectPrefix replaces DefaultSubjectPrefix.
func WithSubjectPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.subjectPrefix = prefix
	}
}

// Connect opens a NATS connection which reconnects forever.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name(clientName), nats.MaxReconnects(-1))
}

// New creates a Publisher on an open connection.
func New(conn Conn, opts ...Option) *Publisher {
	p := &Publisher{
		conn:          conn,
		subjectPrefix: DefaultSubjectPrefix,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Subject returns the subject the record of auctionID is published on.
func (p *Publisher) Subject(auctionID core.AuctionIDString) string {
	return p.subjectPrefix + auctionID
}

// PublishSettlement publishes record as SettlementMessage.
func (p *Publisher) PublishSettlement(ctx context.Context, record core.AuctionEnded) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(ErrPublishingFailed, err)
	}

	data, err := jsoniter.ConfigFastest.Marshal(SettlementMessage{
		AuctionID:   record.AuctionID,
		Beneficiary: record.Beneficiary,
		Winner:      record.Winner,
		Amount:      record.Amount,
		SettledAt:   record.OccurredAt,
	})
	if err != nil {
		return errors.Join(ErrPublishingFailed, err)
	}

	if err = p.conn.Publish(p.Subject(record.AuctionID), data); err != nil {
		return errors.Join(ErrPublishingFailed, err)
	}

	return nil
}
