package application

import (
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	pkgDomain "github.com/mateusmacedo/go-railticket/pkg/domain"
)

const (
	TicketBookedEventName    = "TicketBooked"
	TicketCancelledEventName = "TicketCancelled"
)

// TicketEventData é o payload comum dos eventos de bilhete.
type TicketEventData struct {
	PNR      domain.PNR       `json:"pnr"`
	Username string           `json:"username"`
	TrainNo  int              `json:"trainNo"`
	Class    domain.SeatClass `json:"class"`
	Date     domain.Date      `json:"date"`
	Seats    int              `json:"seats"`
	Total    float64          `json:"total"`
}

func ticketEventData(username string, ticket domain.Ticket) TicketEventData {
	return TicketEventData{
		PNR:      ticket.PNR,
		Username: username,
		TrainNo:  ticket.TrainNo,
		Class:    ticket.Class,
		Date:     ticket.Date,
		Seats:    ticket.SeatCount(),
		Total:    ticket.Total,
	}
}

type ticketEvent struct {
	name string
	data TicketEventData
}

func (e ticketEvent) EventName() string {
	return e.name
}

func (e ticketEvent) Payload() TicketEventData {
	return e.data
}

func NewTicketBookedEvent(data TicketEventData) pkgDomain.Event[TicketEventData] {
	return ticketEvent{name: TicketBookedEventName, data: data}
}

func NewTicketCancelledEvent(data TicketEventData) pkgDomain.Event[TicketEventData] {
	return ticketEvent{name: TicketCancelledEventName, data: data}
}
