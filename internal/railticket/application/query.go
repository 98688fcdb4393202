package application

import (
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	pkgDomain "github.com/mateusmacedo/go-railticket/pkg/domain"
)

const (
	FindTrainsQueryName        = "FindTrains"
	FindTrainQueryName         = "FindTrain"
	TrainAvailabilityQueryName = "TrainAvailability"
	FindTicketQueryName        = "FindTicket"
	ListTicketsQueryName       = "ListTickets"
)

// query é o envelope comum das consultas do slice.
type query[T any] struct {
	name string
	data T
}

func (q query[T]) QueryName() string {
	return q.name
}

func (q query[T]) Payload() T {
	return q.data
}

// FindTrainsData filtra por rota; vazio lista o catálogo inteiro.
type FindTrainsData struct {
	Source      string
	Destination string
}

func NewFindTrainsQuery(data FindTrainsData) pkgDomain.Query[FindTrainsData] {
	return query[FindTrainsData]{name: FindTrainsQueryName, data: data}
}

type FindTrainData struct {
	TrainNo int
}

func NewFindTrainQuery(data FindTrainData) pkgDomain.Query[FindTrainData] {
	return query[FindTrainData]{name: FindTrainQueryName, data: data}
}

// TrainAvailabilityData consulta um trem (TrainNo > 0), uma rota ou a data inteira.
type TrainAvailabilityData struct {
	TrainNo     int
	Date        domain.Date
	Source      string
	Destination string
}

func NewTrainAvailabilityQuery(data TrainAvailabilityData) pkgDomain.Query[TrainAvailabilityData] {
	return query[TrainAvailabilityData]{name: TrainAvailabilityQueryName, data: data}
}

type FindTicketData struct {
	Username string
	PNR      domain.PNR
}

func NewFindTicketQuery(data FindTicketData) pkgDomain.Query[FindTicketData] {
	return query[FindTicketData]{name: FindTicketQueryName, data: data}
}

type ListTicketsData struct {
	Username string
}

func NewListTicketsQuery(data ListTicketsData) pkgDomain.Query[ListTicketsData] {
	return query[ListTicketsData]{name: ListTicketsQueryName, data: data}
}
