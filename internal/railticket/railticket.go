package railticket

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railticket/internal/railticket/application"
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	"github.com/mateusmacedo/go-railticket/internal/railticket/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railticket/pkg/application"
)

// Options são as dependências de estado do slice, construídas uma vez no início do processo.
type Options struct {
	Catalog        *domain.TrainCatalog
	Users          domain.UserRepository
	Factory        *domain.TicketFactory
	HorizonMonths  int
	Now            func() time.Time
	RequestTimeout time.Duration
	// Metrics nil desliga a instrumentação.
	Metrics *infrastructure.Metrics
}

type RailTicketSlice struct {
	service     *application.ReservationService
	httpHandler *infrastructure.RailTicketHTTPHandler
}

func NewRailTicketSlice(
	buses application.Buses,
	eventBus application.TicketEventBus,
	opts Options,
	logger pkgApp.AppLogger,
) *RailTicketSlice {
	service := application.NewReservationService(opts.Catalog, opts.Users, opts.Factory, opts.HorizonMonths, opts.Now, logger)

	bookHandler := application.NewBookTicketHandler(service, eventBus, logger)
	if opts.Metrics != nil {
		bookHandler = opts.Metrics.InstrumentBook(bookHandler)
	}

	buses.Book.RegisterHandler(application.BookTicketCommandName, bookHandler)
	buses.Cancel.RegisterHandler(application.CancelTicketCommandName, application.NewCancelTicketHandler(service, eventBus, logger))
	buses.FindTrains.RegisterHandler(application.FindTrainsQueryName, application.NewFindTrainsHandler(service))
	buses.FindTrain.RegisterHandler(application.FindTrainQueryName, application.NewFindTrainHandler(service))
	buses.TrainAvailability.RegisterHandler(application.TrainAvailabilityQueryName, application.NewTrainAvailabilityHandler(service))
	buses.FindTicket.RegisterHandler(application.FindTicketQueryName, application.NewFindTicketHandler(service))
	buses.ListTickets.RegisterHandler(application.ListTicketsQueryName, application.NewListTicketsHandler(service))

	logHandler := application.NewTicketEventLogHandler(logger)
	for _, name := range []string{application.TicketBookedEventName, application.TicketCancelledEventName} {
		eventBus.RegisterHandler(name, logHandler)
		if opts.Metrics != nil {
			eventBus.RegisterHandler(name, opts.Metrics)
		}
	}

	return &RailTicketSlice{
		service:     service,
		httpHandler: infrastructure.NewRailTicketHTTPHandler(buses, service, opts.RequestTimeout, logger),
	}
}

func (s *RailTicketSlice) Service() *application.ReservationService {
	return s.service
}

func (s *RailTicketSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
