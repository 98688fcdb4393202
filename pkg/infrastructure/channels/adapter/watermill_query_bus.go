package adapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/go-railticket/pkg/application"
	"github.com/mateusmacedo/go-railticket/pkg/domain"
	"github.com/mateusmacedo/go-railticket/pkg/infrastructure"
)

type WatermillQueryBus[Q domain.Query[D], D any, R any] struct {
	publisher message.Publisher
	handlers  map[string]application.QueryHandler[Q, D, R]
	mu        sync.RWMutex
	logger    application.AppLogger
}

func NewWatermillQueryBus[Q domain.Query[D], D any, R any](publisher message.Publisher, logger application.AppLogger) *WatermillQueryBus[Q, D, R] {
	return &WatermillQueryBus[Q, D, R]{
		publisher: publisher,
		handlers:  make(map[string]application.QueryHandler[Q, D, R]),
		logger:    logger,
	}
}

func (bus *WatermillQueryBus[Q, D, R]) RegisterHandler(queryName string, handler application.QueryHandler[Q, D, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[queryName] = handler
}

func (bus *WatermillQueryBus[Q, D, R]) Dispatch(ctx context.Context, query Q) (R, error) {
	var zero R
	queryName := query.QueryName()

	bus.mu.RLock()
	handler, found := bus.handlers[queryName]
	bus.mu.RUnlock()

	if !found {
		return zero, fmt.Errorf("query %s: %w", queryName, infrastructure.ErrNoHandler)
	}

	payload, err := application.MarshalPayload(query.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling query payload", err, map[string]interface{}{
			"query_name": queryName,
		})
		return zero, err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := bus.publisher.Publish(queryName, msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing query", err, map[string]interface{}{
			"query_name": queryName,
		})
		return zero, err
	}

	result, err := handler.Handle(ctx, query)
	if err != nil {
		application.LogDebug(ctx, bus.logger, "query failed", map[string]interface{}{
			"query_name": queryName,
			"error":      err.Error(),
		})
		return zero, err
	}
	return result, nil
}
