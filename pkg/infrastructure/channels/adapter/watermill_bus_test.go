package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railticket/pkg/application"
	"github.com/mateusmacedo/go-railticket/pkg/domain"
	"github.com/mateusmacedo/go-railticket/pkg/infrastructure"
	zapAdapter "github.com/mateusmacedo/go-railticket/pkg/infrastructure/zaplogger/adapter"
)

type seatRequest struct {
	Train int `json:"train"`
	Seats int `json:"seats"`
}

type seatMessage struct {
	name string
	data seatRequest
}

func (m seatMessage) CommandName() string  { return m.name }
func (m seatMessage) QueryName() string    { return m.name }
func (m seatMessage) EventName() string    { return m.name }
func (m seatMessage) Payload() seatRequest { return m.data }

type reserveHandler struct {
	err error
}

func (h reserveHandler) Handle(_ context.Context, c domain.Command[seatRequest]) (int, error) {
	return c.Payload().Seats, h.err
}

type lookupHandler struct{}

func (lookupHandler) Handle(_ context.Context, q domain.Query[seatRequest]) (string, error) {
	return "train", nil
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	return pubSub
}

func receive(t *testing.T, messages <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-messages:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
		return nil
	}
}

func TestWatermillCommandBusPublishesAndReturnsResult(t *testing.T) {
	pubSub := newPubSub(t)
	messages, err := pubSub.Subscribe(context.Background(), "Reserve")
	require.NoError(t, err)

	bus := NewWatermillCommandBus[domain.Command[seatRequest], seatRequest, int](pubSub, zapAdapter.NewNopAppLogger())
	bus.RegisterHandler("Reserve", reserveHandler{})

	seats, err := bus.Dispatch(context.Background(), seatMessage{name: "Reserve", data: seatRequest{Train: 12627, Seats: 3}})

	require.NoError(t, err)
	assert.Equal(t, 3, seats)

	var published seatRequest
	require.NoError(t, json.Unmarshal(receive(t, messages).Payload, &published))
	assert.Equal(t, seatRequest{Train: 12627, Seats: 3}, published)
}

func TestWatermillCommandBusPropagatesHandlerError(t *testing.T) {
	bus := NewWatermillCommandBus[domain.Command[seatRequest], seatRequest, int](newPubSub(t), zapAdapter.NewNopAppLogger())
	bus.RegisterHandler("Reserve", reserveHandler{err: errors.New("sold out")})

	_, err := bus.Dispatch(context.Background(), seatMessage{name: "Reserve"})
	assert.EqualError(t, err, "sold out")

	_, err = bus.Dispatch(context.Background(), seatMessage{name: "Other"})
	assert.ErrorIs(t, err, infrastructure.ErrNoHandler)
}

func TestWatermillQueryBus(t *testing.T) {
	pubSub := newPubSub(t)
	messages, err := pubSub.Subscribe(context.Background(), "Lookup")
	require.NoError(t, err)

	bus := NewWatermillQueryBus[domain.Query[seatRequest], seatRequest, string](pubSub, zapAdapter.NewNopAppLogger())
	bus.RegisterHandler("Lookup", lookupHandler{})

	got, err := bus.Dispatch(context.Background(), seatMessage{name: "Lookup", data: seatRequest{Train: 1}})
	require.NoError(t, err)
	assert.Equal(t, "train", got)
	receive(t, messages)

	_, err = bus.Dispatch(context.Background(), seatMessage{name: "Missing"})
	assert.ErrorIs(t, err, infrastructure.ErrNoHandler)
}

func TestWatermillEventBusRunsHandlersAfterPublishing(t *testing.T) {
	pubSub := newPubSub(t)
	messages, err := pubSub.Subscribe(context.Background(), "Booked")
	require.NoError(t, err)

	bus := NewWatermillEventBus[domain.Event[seatRequest], seatRequest](pubSub, zapAdapter.NewNopAppLogger())
	var seen []int
	bus.RegisterHandler("Booked", application.EventHandlerFunc[domain.Event[seatRequest], seatRequest](
		func(_ context.Context, e domain.Event[seatRequest]) error {
			seen = append(seen, e.Payload().Seats)
			return nil
		}))
	bus.RegisterHandler("Booked", application.EventHandlerFunc[domain.Event[seatRequest], seatRequest](
		func(context.Context, domain.Event[seatRequest]) error {
			return errors.New("metrics down")
		}))

	err = bus.Publish(context.Background(), seatMessage{name: "Booked", data: seatRequest{Seats: 2}})

	assert.EqualError(t, err, "metrics down")
	assert.Equal(t, []int{2}, seen)
	receive(t, messages)
}
