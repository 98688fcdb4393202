package infrastructure

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-railticket/pkg/application"
)

// ErrNoHandler indica que nenhum manipulador foi registrado para a mensagem.
var ErrNoHandler = errors.New("no handler registered")

func GenerateUUID() string {
	return uuid.New().String()
}

func LogError(ctx context.Context, logger application.AppLogger, message string, err error, fields map[string]interface{}) {
	application.LogError(ctx, logger, message, err, fields)
}

func LogInfo(ctx context.Context, logger application.AppLogger, message string, fields map[string]interface{}) {
	application.LogInfo(ctx, logger, message, fields)
}

func MarshalPayload[T any](payload T) ([]byte, error) {
	return json.Marshal(payload)
}
