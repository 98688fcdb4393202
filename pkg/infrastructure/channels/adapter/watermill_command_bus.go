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

// WatermillCommandBus publica cada comando no tópico de mesmo nome e executa o
// manipulador registrado de forma síncrona, devolvendo o resultado a quem despachou.
type WatermillCommandBus[C domain.Command[T], T any, R any] struct {
	publisher message.Publisher
	handlers  map[string]application.CommandHandler[C, T, R]
	mu        sync.RWMutex
	logger    application.AppLogger
}

func NewWatermillCommandBus[C domain.Command[T], T any, R any](publisher message.Publisher, logger application.AppLogger) *WatermillCommandBus[C, T, R] {
	return &WatermillCommandBus[C, T, R]{
		publisher: publisher,
		handlers:  make(map[string]application.CommandHandler[C, T, R]),
		logger:    logger,
	}
}

func (bus *WatermillCommandBus[C, T, R]) RegisterHandler(commandName string, handler application.CommandHandler[C, T, R]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[commandName] = handler
}

func (bus *WatermillCommandBus[C, T, R]) Dispatch(ctx context.Context, command C) (R, error) {
	var zero R
	commandName := command.CommandName()

	bus.mu.RLock()
	handler, found := bus.handlers[commandName]
	bus.mu.RUnlock()

	if !found {
		return zero, fmt.Errorf("command %s: %w", commandName, infrastructure.ErrNoHandler)
	}

	payload, err := application.MarshalPayload(command.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling command payload", err, map[string]interface{}{
			"command_name": commandName,
		})
		return zero, err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := bus.publisher.Publish(commandName, msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing command", err, map[string]interface{}{
			"command_name": commandName,
		})
		return zero, err
	}

	result, err := handler.Handle(ctx, command)
	if err != nil {
		application.LogError(ctx, bus.logger, "error handling command", err, map[string]interface{}{
			"command_name": commandName,
			"message_uuid": msg.UUID,
		})
		return zero, err
	}

	application.LogInfo(ctx, bus.logger, "command handled", map[string]interface{}{
		"command_name": commandName,
		"message_uuid": msg.UUID,
	})
	return result, nil
}
