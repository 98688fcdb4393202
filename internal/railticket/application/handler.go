package application

import (
	"context"
	"fmt"

	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	pkgApp "github.com/mateusmacedo/go-railticket/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railticket/pkg/domain"
)

type (
	BookTicketCommand   = pkgDomain.Command[BookTicketData]
	CancelTicketCommand = pkgDomain.Command[CancelTicketData]
	TicketEvent         = pkgDomain.Event[TicketEventData]

	BookTicketBus   = pkgApp.CommandBus[BookTicketCommand, BookTicketData, domain.Ticket]
	CancelTicketBus = pkgApp.CommandBus[CancelTicketCommand, CancelTicketData, domain.Ticket]
	TicketEventBus  = pkgApp.EventBus[TicketEvent, TicketEventData]

	BookTicketHandler   = pkgApp.CommandHandler[BookTicketCommand, BookTicketData, domain.Ticket]
	CancelTicketHandler = pkgApp.CommandHandler[CancelTicketCommand, CancelTicketData, domain.Ticket]
	TicketEventHandler  = pkgApp.EventHandler[TicketEvent, TicketEventData]

	FindTrainsBus        = pkgApp.QueryBus[pkgDomain.Query[FindTrainsData], FindTrainsData, []domain.TrainInfo]
	FindTrainBus         = pkgApp.QueryBus[pkgDomain.Query[FindTrainData], FindTrainData, domain.TrainInfo]
	TrainAvailabilityBus = pkgApp.QueryBus[pkgDomain.Query[TrainAvailabilityData], TrainAvailabilityData, []domain.Availability]
	FindTicketBus        = pkgApp.QueryBus[pkgDomain.Query[FindTicketData], FindTicketData, domain.Ticket]
	ListTicketsBus       = pkgApp.QueryBus[pkgDomain.Query[ListTicketsData], ListTicketsData, []domain.Ticket]
)

type bookTicketHandler struct {
	service  *ReservationService
	eventBus TicketEventBus
	logger   pkgApp.AppLogger
}

func (h *bookTicketHandler) Handle(ctx context.Context, command BookTicketCommand) (domain.Ticket, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return domain.Ticket{}, ctx.Err()
	}

	data := command.Payload()
	if !data.PaymentConfirmed {
		err := fmt.Errorf("booking for %s on train %d: %w", data.Username, data.TrainNo, domain.ErrPaymentNotConfirmed)
		pkgApp.LogError(ctx, h.logger, "Pagamento não confirmado", err, map[string]interface{}{"username": data.Username})
		return domain.Ticket{}, err
	}

	ticket, err := h.service.Book(ctx, data.request())
	if err != nil {
		return domain.Ticket{}, err
	}

	// a reserva já foi efetivada; falha ao publicar não desfaz nada
	if err := h.eventBus.Publish(ctx, NewTicketBookedEvent(ticketEventData(data.Username, ticket))); err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao publicar evento", err, map[string]interface{}{"pnr": int64(ticket.PNR)})
	}
	return ticket, nil
}

func NewBookTicketHandler(service *ReservationService, eventBus TicketEventBus, logger pkgApp.AppLogger) BookTicketHandler {
	return &bookTicketHandler{service: service, eventBus: eventBus, logger: logger}
}

type cancelTicketHandler struct {
	service  *ReservationService
	eventBus TicketEventBus
	logger   pkgApp.AppLogger
}

func (h *cancelTicketHandler) Handle(ctx context.Context, command CancelTicketCommand) (domain.Ticket, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return domain.Ticket{}, ctx.Err()
	}

	data := command.Payload()
	ticket, err := h.service.Cancel(ctx, data.Username, data.PNR)
	if err != nil {
		return domain.Ticket{}, err
	}

	if err := h.eventBus.Publish(ctx, NewTicketCancelledEvent(ticketEventData(data.Username, ticket))); err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao publicar evento", err, map[string]interface{}{"pnr": int64(ticket.PNR)})
	}
	return ticket, nil
}

func NewCancelTicketHandler(service *ReservationService, eventBus TicketEventBus, logger pkgApp.AppLogger) CancelTicketHandler {
	return &cancelTicketHandler{service: service, eventBus: eventBus, logger: logger}
}

// payloadQuery adapta as consultas do serviço, que só dependem do payload.
func payloadQuery[T any, R any](f func(ctx context.Context, data T) (R, error)) pkgApp.QueryHandler[pkgDomain.Query[T], T, R] {
	return pkgApp.QueryHandlerFunc[pkgDomain.Query[T], T, R](func(ctx context.Context, q pkgDomain.Query[T]) (R, error) {
		if err := ctx.Err(); err != nil {
			var zero R
			return zero, err
		}
		return f(ctx, q.Payload())
	})
}

func NewFindTrainsHandler(service *ReservationService) pkgApp.QueryHandler[pkgDomain.Query[FindTrainsData], FindTrainsData, []domain.TrainInfo] {
	return payloadQuery(func(_ context.Context, data FindTrainsData) ([]domain.TrainInfo, error) {
		return service.Trains(data.Source, data.Destination), nil
	})
}

func NewFindTrainHandler(service *ReservationService) pkgApp.QueryHandler[pkgDomain.Query[FindTrainData], FindTrainData, domain.TrainInfo] {
	return payloadQuery(func(_ context.Context, data FindTrainData) (domain.TrainInfo, error) {
		return service.Train(data.TrainNo)
	})
}

func NewTrainAvailabilityHandler(service *ReservationService) pkgApp.QueryHandler[pkgDomain.Query[TrainAvailabilityData], TrainAvailabilityData, []domain.Availability] {
	return payloadQuery(func(_ context.Context, data TrainAvailabilityData) ([]domain.Availability, error) {
		if data.TrainNo > 0 {
			a, err := service.TrainAvailability(data.TrainNo, data.Date)
			if err != nil {
				return nil, err
			}
			return []domain.Availability{a}, nil
		}
		return service.Availability(data.Date, data.Source, data.Destination)
	})
}

func NewFindTicketHandler(service *ReservationService) pkgApp.QueryHandler[pkgDomain.Query[FindTicketData], FindTicketData, domain.Ticket] {
	return payloadQuery(func(ctx context.Context, data FindTicketData) (domain.Ticket, error) {
		return service.Ticket(ctx, data.Username, data.PNR)
	})
}

func NewListTicketsHandler(service *ReservationService) pkgApp.QueryHandler[pkgDomain.Query[ListTicketsData], ListTicketsData, []domain.Ticket] {
	return payloadQuery(func(ctx context.Context, data ListTicketsData) ([]domain.Ticket, error) {
		return service.Tickets(ctx, data.Username)
	})
}

type ticketEventLogHandler struct {
	logger pkgApp.AppLogger
}

func (h *ticketEventLogHandler) Handle(ctx context.Context, event TicketEvent) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	data := event.Payload()
	pkgApp.LogInfo(ctx, h.logger, "Evento recebido", map[string]interface{}{
		"event":    event.EventName(),
		"pnr":      int64(data.PNR),
		"username": data.Username,
		"train_no": data.TrainNo,
		"seats":    data.Seats,
	})
	return nil
}

func NewTicketEventLogHandler(logger pkgApp.AppLogger) TicketEventHandler {
	return &ticketEventLogHandler{logger: logger}
}

// Buses agrupa os barramentos usados pela camada de entrada.
type Buses struct {
	Book              BookTicketBus
	Cancel            CancelTicketBus
	FindTrains        FindTrainsBus
	FindTrain         FindTrainBus
	TrainAvailability TrainAvailabilityBus
	FindTicket        FindTicketBus
	ListTickets       ListTicketsBus
}
