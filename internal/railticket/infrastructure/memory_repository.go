package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	pkgApp "github.com/mateusmacedo/go-railticket/pkg/application"
)

// InMemoryUserRepository é o diretório de usuários do processo. Nomes não diferenciam maiúsculas.
type InMemoryUserRepository struct {
	mu     sync.RWMutex
	data   map[string]*domain.User
	logger pkgApp.AppLogger
}

func NewInMemoryUserRepository(logger pkgApp.AppLogger) *InMemoryUserRepository {
	return &InMemoryUserRepository{
		data:   make(map[string]*domain.User),
		logger: logger,
	}
}

func userKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (r *InMemoryUserRepository) Register(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := userKey(user.Username)
	if _, exists := r.data[key]; exists {
		pkgApp.LogInfo(ctx, r.logger, "user already exists", map[string]interface{}{
			"username": user.Username,
		})
		return fmt.Errorf("user %s: %w", user.Username, domain.ErrUserExists)
	}

	r.data[key] = user
	pkgApp.LogDebug(ctx, r.logger, "user saved", map[string]interface{}{
		"username": user.Username,
	})
	return nil
}

func (r *InMemoryUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.data[userKey(username)]
	if !exists {
		pkgApp.LogDebug(ctx, r.logger, "user not found", map[string]interface{}{
			"username": username,
		})
		return nil, fmt.Errorf("user %s: %w", username, domain.ErrUserNotFound)
	}
	return user, nil
}

// Len devolve quantos usuários estão registrados.
func (r *InMemoryUserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
