package application

import (
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	pkgDomain "github.com/mateusmacedo/go-railticket/pkg/domain"
)

const (
	BookTicketCommandName   = "BookTicket"
	CancelTicketCommandName = "CancelTicket"
)

// BookTicketData contém os dados para reservar um bilhete.
// PaymentConfirmed é o sinal do pagamento externo; sem ele nada é reservado.
type BookTicketData struct {
	Username         string             `json:"username"`
	TrainNo          int                `json:"trainNo"`
	Date             domain.Date        `json:"date"`
	Class            domain.SeatClass   `json:"class"`
	Passengers       []domain.Passenger `json:"passengers"`
	Source           string             `json:"source,omitempty"`
	Destination      string             `json:"destination,omitempty"`
	PaymentConfirmed bool               `json:"paymentConfirmed"`
}

func (d BookTicketData) request() BookRequest {
	return BookRequest{
		Username:    d.Username,
		TrainNo:     d.TrainNo,
		Date:        d.Date,
		Class:       d.Class,
		Passengers:  d.Passengers,
		Source:      d.Source,
		Destination: d.Destination,
	}
}

type bookTicketCommand struct {
	data BookTicketData
}

func (c bookTicketCommand) CommandName() string {
	return BookTicketCommandName
}

func (c bookTicketCommand) Payload() BookTicketData {
	return c.data
}

func NewBookTicketCommand(data BookTicketData) pkgDomain.Command[BookTicketData] {
	return bookTicketCommand{data: data}
}

type CancelTicketData struct {
	Username string     `json:"username"`
	PNR      domain.PNR `json:"pnr"`
}

type cancelTicketCommand struct {
	data CancelTicketData
}

func (c cancelTicketCommand) CommandName() string {
	return CancelTicketCommandName
}

func (c cancelTicketCommand) Payload() CancelTicketData {
	return c.data
}

func NewCancelTicketCommand(data CancelTicketData) pkgDomain.Command[CancelTicketData] {
	return cancelTicketCommand{data: data}
}
