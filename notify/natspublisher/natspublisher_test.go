package natspublisher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/notify/natspublisher"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)

	return c.err
}

func Test_PublishSettlement_PublishesJSONOnAuctionSubject(t *testing.T) {
	// arrange
	conn := &fakeConn{}
	publisher := natspublisher.New(conn)
	record := givenRecord()

	// act
	err := publisher.PublishSettlement(context.Background(), record)

	// assert
	require.NoError(t, err)
	require.Len(t, conn.subjects, 1)
	assert.Equal(t, "auction.settled.a-1", conn.subjects[0])
	assert.JSONEq(t,
		`{"auctionId":"a-1","beneficiary":"B","winner":"bidder2","amount":"2","settledAt":"2025-01-02T03:04:05Z"}`,
		string(conn.payloads[0]),
	)
}

func Test_PublishSettlement_CustomPrefix(t *testing.T) {
	// arrange
	conn := &fakeConn{}
	publisher := natspublisher.New(conn, natspublisher.WithSubjectPrefix("test.settled."))

	// act
	err := publisher.PublishSettlement(context.Background(), givenRecord())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"test.settled.a-1"}, conn.subjects)
}

func Test_PublishSettlement_Failures(t *testing.T) {
	// arrange
	conn := &fakeConn{err: nats.ErrConnectionClosed}
	publisher := natspublisher.New(conn)
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	connErr := publisher.PublishSettlement(context.Background(), givenRecord())
	ctxErr := publisher.PublishSettlement(canceled, givenRecord())

	// assert
	assert.ErrorIs(t, connErr, natspublisher.ErrPublishingFailed)
	assert.True(t, errors.Is(connErr, nats.ErrConnectionClosed))
	assert.ErrorIs(t, ctxErr, context.Canceled)
	assert.Len(t, conn.subjects, 1)
}

func givenRecord() core.AuctionEnded {
	return core.BuildAuctionEnded(
		"a-1",
		"B",
		"bidder2",
		decimal.RequireFromString("2"),
		time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	)
}
