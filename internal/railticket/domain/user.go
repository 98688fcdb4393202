package domain

import (
	"context"
	"crypto/subtle"
	"strings"
)

// User é dono exclusivo do seu TicketLedger.
type User struct {
	Username string
	Mobile   string
	secret   string
	ledger   *TicketLedger
}

func NewUser(username, secret, mobile string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username is required")
	}
	if secret == "" {
		return nil, invalid("secret is required")
	}
	return &User{Username: username, Mobile: mobile, secret: secret, ledger: NewTicketLedger()}, nil
}

func (u *User) Ledger() *TicketLedger {
	return u.ledger
}

func (u *User) CheckSecret(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(u.secret), []byte(secret)) == 1
}

// UserRepository é o diretório de usuários consultado pelo serviço de reservas.
type UserRepository interface {
	Register(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
}
