package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/multierr"

	"github.com/mateusmacedo/go-railticket/pkg/application"
	"github.com/mateusmacedo/go-railticket/pkg/domain"
	"github.com/mateusmacedo/go-railticket/pkg/infrastructure"
)

// StreamEventBus publica eventos num broker (Kafka, Redis Streams, GoChannel) e
// entrega aos manipuladores a partir de uma assinatura por tópico.
// Publish retorna assim que o broker aceita a mensagem.
type StreamEventBus[E domain.Event[D], D any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[string][]application.EventHandler[E, D]
	mu         sync.RWMutex
	logger     application.AppLogger

	// tópicos cuja assinatura falhou
	subscribeErrs map[string]error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewStreamEventBus[E domain.Event[D], D any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *StreamEventBus[E, D] {
	ctx, cancel := context.WithCancel(context.Background())
	return &StreamEventBus[E, D]{
		publisher:     publisher,
		subscriber:    subscriber,
		handlers:      make(map[string][]application.EventHandler[E, D]),
		logger:        logger,
		subscribeErrs: make(map[string]error),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// RegisterHandler adiciona o manipulador e, no primeiro registro do tópico, abre a assinatura.
// Uma falha ao assinar fica disponível em Err e em Close; o próximo registro tenta de novo.
func (bus *StreamEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	bus.mu.Lock()
	first := len(bus.handlers[eventName]) == 0
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	bus.mu.Unlock()

	if !first {
		return
	}

	messages, err := bus.subscriber.Subscribe(bus.ctx, eventName)
	if err != nil {
		infrastructure.LogError(bus.ctx, bus.logger, "error subscribing to event", err, map[string]interface{}{
			"event_name": eventName,
		})
		bus.mu.Lock()
		delete(bus.handlers, eventName)
		bus.subscribeErrs[eventName] = fmt.Errorf("subscribe %s: %w", eventName, err)
		bus.mu.Unlock()
		return
	}

	bus.mu.Lock()
	delete(bus.subscribeErrs, eventName)
	bus.mu.Unlock()

	bus.wg.Add(1)
	go func() {
		defer bus.wg.Done()
		for msg := range messages {
			bus.handleMessage(eventName, msg)
		}
	}()
}

func (bus *StreamEventBus[E, D]) handleMessage(eventName string, msg *message.Message) {
	ctx := bus.ctx
	application.LogTrace(ctx, bus.logger, "event received", map[string]interface{}{
		"event_name":   eventName,
		"message_uuid": msg.UUID,
	})

	var payload D
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		infrastructure.LogError(ctx, bus.logger, "error unmarshalling event payload", err, map[string]interface{}{
			"event_name":   eventName,
			"message_uuid": msg.UUID,
		})
		// payload inválido não melhora com reentrega
		msg.Ack()
		return
	}

	event := &dynamicEvent[D]{eventName: eventName, payload: payload}
	typedEvent, ok := interface{}(event).(E)
	if !ok {
		infrastructure.LogError(ctx, bus.logger, "error casting event", nil, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Nack()
		return
	}

	bus.mu.RLock()
	handlers := append([]application.EventHandler[E, D](nil), bus.handlers[eventName]...)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, typedEvent); err != nil {
			infrastructure.LogError(ctx, bus.logger, "error handling event", err, map[string]interface{}{
				"event_name":   eventName,
				"message_uuid": msg.UUID,
			})
			msg.Nack()
			return
		}
	}

	infrastructure.LogInfo(ctx, bus.logger, "event handled", map[string]interface{}{
		"event_name":   eventName,
		"message_uuid": msg.UUID,
	})
	msg.Ack()
}

func (bus *StreamEventBus[E, D]) Publish(ctx context.Context, event E) error {
	payload, err := infrastructure.MarshalPayload(event.Payload())
	if err != nil {
		infrastructure.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := bus.publisher.Publish(event.EventName(), msg); err != nil {
		infrastructure.LogError(ctx, bus.logger, "error publishing event", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	infrastructure.LogInfo(ctx, bus.logger, "event published", map[string]interface{}{
		"event_name":   event.EventName(),
		"message_uuid": msg.UUID,
	})
	return nil
}

// Err devolve as falhas de assinatura ainda pendentes, em ordem de tópico.
func (bus *StreamEventBus[E, D]) Err() error {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	topics := make([]string, 0, len(bus.subscribeErrs))
	for topic := range bus.subscribeErrs {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	var errs error
	for _, topic := range topics {
		errs = multierr.Append(errs, bus.subscribeErrs[topic])
	}
	return errs
}

// Close encerra as assinaturas e espera os consumidores terminarem.
func (bus *StreamEventBus[E, D]) Close() error {
	bus.cancel()
	err := bus.subscriber.Close()
	bus.wg.Wait()
	return multierr.Append(err, bus.Err())
}

type dynamicEvent[D any] struct {
	eventName string
	payload   D
}

func (e *dynamicEvent[D]) EventName() string {
	return e.eventName
}

func (e *dynamicEvent[D]) Payload() D {
	return e.payload
}
