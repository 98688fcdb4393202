package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/go-railticket/pkg/application"
	"github.com/mateusmacedo/go-railticket/pkg/domain"
)

type simpleCommandBus[C domain.Command[D], D any, R any] struct {
	handlers map[string]application.CommandHandler[C, D, R]
	mu       sync.RWMutex
	logger   application.AppLogger
}

// NewSimpleCommandBus cria um barramento de comandos em processo. O manipulador
// executa na goroutine de quem despacha.
func NewSimpleCommandBus[C domain.Command[D], D any, R any](logger application.AppLogger) application.CommandBus[C, D, R] {
	return &simpleCommandBus[C, D, R]{
		handlers: make(map[string]application.CommandHandler[C, D, R]),
		logger:   logger,
	}
}

func (bus *simpleCommandBus[C, D, R]) RegisterHandler(commandName string, handler application.CommandHandler[C, D, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[commandName] = handler
}

func (bus *simpleCommandBus[C, D, R]) Dispatch(ctx context.Context, command C) (R, error) {
	bus.mu.RLock()
	handler, found := bus.handlers[command.CommandName()]
	bus.mu.RUnlock()

	var zero R
	if !found {
		LogError(ctx, bus.logger, "no handler registered for command", ErrNoHandler, map[string]interface{}{
			"command_name": command.CommandName(),
		})
		return zero, fmt.Errorf("command %s: %w", command.CommandName(), ErrNoHandler)
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	return handler.Handle(ctx, command)
}
