package domain

import (
	"fmt"
	"sync"
)

// TicketLedger guarda os bilhetes de um usuário na ordem de reserva.
type TicketLedger struct {
	mu      sync.RWMutex
	tickets []Ticket
}

func NewTicketLedger() *TicketLedger {
	return &TicketLedger{}
}

func (l *TicketLedger) Add(ticket Ticket) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tickets = append(l.tickets, ticket.clone())
}

func (l *TicketLedger) FindByPNR(pnr PNR) (Ticket, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.tickets {
		if t.PNR == pnr {
			return t.clone(), nil
		}
	}
	return Ticket{}, fmt.Errorf("pnr %d: %w", pnr, ErrPNRNotFound)
}

// RemoveByPNR retira e devolve o bilhete; se ele não existir, nada muda.
func (l *TicketLedger) RemoveByPNR(pnr PNR) (Ticket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.tickets {
		if t.PNR == pnr {
			l.tickets = append(l.tickets[:i], l.tickets[i+1:]...)
			return t, nil
		}
	}
	return Ticket{}, fmt.Errorf("pnr %d: %w", pnr, ErrPNRNotFound)
}

func (l *TicketLedger) List() []Ticket {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Ticket, len(l.tickets))
	for i, t := range l.tickets {
		out[i] = t.clone()
	}
	return out
}

func (l *TicketLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tickets)
}
