package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/go-railticket/pkg/application"
	"github.com/mateusmacedo/go-railticket/pkg/domain"
)

type queryOutcome[R any] struct {
	result R
	err    error
}

// simpleQueryBus executa cada consulta numa goroutine própria para que Dispatch
// possa desistir quando ctx termina.
type simpleQueryBus[Q domain.Query[D], D any, R any] struct {
	handlers map[string]application.QueryHandler[Q, D, R]
	mu       sync.RWMutex
	logger   application.AppLogger
}

func NewSimpleQueryBus[Q domain.Query[D], D any, R any](logger application.AppLogger) application.QueryBus[Q, D, R] {
	return &simpleQueryBus[Q, D, R]{
		handlers: make(map[string]application.QueryHandler[Q, D, R]),
		logger:   logger,
	}
}

func (bus *simpleQueryBus[Q, D, R]) RegisterHandler(queryName string, handler application.QueryHandler[Q, D, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[queryName] = handler
}

func (bus *simpleQueryBus[Q, D, R]) Dispatch(ctx context.Context, query Q) (R, error) {
	var zero R
	queryName := query.QueryName()

	bus.mu.RLock()
	handler, found := bus.handlers[queryName]
	bus.mu.RUnlock()
	if !found {
		LogError(ctx, bus.logger, "no handler registered for query", ErrNoHandler, map[string]interface{}{
			"query_name": queryName,
		})
		return zero, fmt.Errorf("query %s: %w", queryName, ErrNoHandler)
	}

	outcome := make(chan queryOutcome[R], 1)
	go func() {
		// um panic aqui derrubaria o processo, o Recoverer do router não o alcança
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("query %s panicked: %v", queryName, r)
				LogError(ctx, bus.logger, "query handler panicked", err, nil)
				outcome <- queryOutcome[R]{err: err}
			}
		}()
		result, err := handler.Handle(ctx, query)
		outcome <- queryOutcome[R]{result: result, err: err}
	}()

	select {
	case <-ctx.Done():
		application.LogDebug(ctx, bus.logger, "query abandoned", map[string]interface{}{
			"query_name": queryName,
			"error":      ctx.Err().Error(),
		})
		return zero, ctx.Err()
	case out := <-outcome:
		if out.err != nil {
			return zero, out.err
		}
		return out.result, nil
	}
}
