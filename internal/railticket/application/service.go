package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	pkgApp "github.com/mateusmacedo/go-railticket/pkg/application"
)

// DefaultHorizonMonths é quantos meses à frente uma viagem pode ser reservada.
const DefaultHorizonMonths = 2

// BookRequest são os parâmetros já validados de uma reserva.
// Source e Destination são opcionais; quando presentes, o trem precisa atender a rota.
type BookRequest struct {
	Username    string
	TrainNo     int
	Date        domain.Date
	Class       domain.SeatClass
	Passengers  []domain.Passenger
	Source      string
	Destination string
}

// ReservationService orquestra catálogo, fábrica de bilhetes e os ledgers dos usuários.
type ReservationService struct {
	catalog       *domain.TrainCatalog
	users         domain.UserRepository
	factory       *domain.TicketFactory
	horizonMonths int
	now           func() time.Time
	logger        pkgApp.AppLogger
}

func NewReservationService(
	catalog *domain.TrainCatalog,
	users domain.UserRepository,
	factory *domain.TicketFactory,
	horizonMonths int,
	now func() time.Time,
	logger pkgApp.AppLogger,
) *ReservationService {
	if now == nil {
		now = time.Now
	}
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	return &ReservationService{
		catalog:       catalog,
		users:         users,
		factory:       factory,
		horizonMonths: horizonMonths,
		now:           now,
		logger:        logger,
	}
}

// Book reserva os lugares, emite o bilhete e o guarda no ledger do usuário.
// Ou tudo acontece, ou nada muda.
func (s *ReservationService) Book(ctx context.Context, req BookRequest) (domain.Ticket, error) {
	fields := map[string]interface{}{
		"username": req.Username,
		"train_no": req.TrainNo,
		"class":    req.Class.String(),
		"date":     req.Date.String(),
		"seats":    len(req.Passengers),
	}
	pkgApp.LogDebug(ctx, s.logger, "booking requested", fields)

	ticket, err := s.book(ctx, req)
	if err != nil {
		pkgApp.LogError(ctx, s.logger, "booking failed", err, fields)
		return domain.Ticket{}, err
	}

	fields["pnr"] = int64(ticket.PNR)
	fields["total"] = ticket.Total
	pkgApp.LogInfo(ctx, s.logger, "ticket booked", fields)
	return ticket, nil
}

func (s *ReservationService) book(ctx context.Context, req BookRequest) (domain.Ticket, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return domain.Ticket{}, err
	}
	class := req.Class.Canonical()
	if class == "" {
		return domain.Ticket{}, fmt.Errorf("%w: unknown seat class %q", domain.ErrInvalidRequest, req.Class)
	}
	if err := domain.ValidatePassengers(req.Passengers); err != nil {
		return domain.Ticket{}, err
	}
	if err := s.CheckDate(req.Date); err != nil {
		return domain.Ticket{}, err
	}

	train, err := s.catalog.FindByNumber(req.TrainNo)
	if err != nil {
		return domain.Ticket{}, err
	}
	if (req.Source != "" || req.Destination != "") && !train.Serves(req.Source, req.Destination) {
		return domain.Ticket{}, fmt.Errorf("train %d does not run %s to %s: %w",
			req.TrainNo, req.Source, req.Destination, domain.ErrRouteNotFound)
	}

	seats := len(req.Passengers)
	inventory := train.Inventory()
	if available := inventory.AvailableSeats(class, req.Date); available < seats {
		return domain.Ticket{}, insufficient(train, class, req.Date, seats, available)
	}

	available, ok := inventory.TryReserve(class, seats, req.Date)
	if !ok {
		if available < seats {
			// outra reserva levou os lugares entre a consulta e o desconto
			return domain.Ticket{}, insufficient(train, class, req.Date, seats, available)
		}
		return domain.Ticket{}, fmt.Errorf("train %d (%s, %s): %w", req.TrainNo, class, req.Date, domain.ErrReservationRace)
	}

	ticket, err := s.factory.Mint(train, req.Date, class, req.Passengers, train.Fare(class))
	if err != nil {
		inventory.Release(class, seats, req.Date)
		return domain.Ticket{}, err
	}

	user.Ledger().Add(ticket)
	return ticket, nil
}

func insufficient(train *domain.Train, class domain.SeatClass, date domain.Date, requested, available int) error {
	return &domain.InsufficientSeatsError{
		TrainNo:   train.Number(),
		Class:     class,
		Date:      date,
		Requested: requested,
		Available: available,
	}
}

// Cancel retira o bilhete do ledger do usuário e devolve os lugares ao trem.
// Bilhetes de outros usuários não são visíveis e resultam em ErrPNRNotFound.
func (s *ReservationService) Cancel(ctx context.Context, username string, pnr domain.PNR) (domain.Ticket, error) {
	fields := map[string]interface{}{"username": username, "pnr": int64(pnr)}

	ticket, err := s.cancel(ctx, username, pnr)
	if err != nil {
		pkgApp.LogError(ctx, s.logger, "cancellation failed", err, fields)
		return domain.Ticket{}, err
	}

	fields["train_no"] = ticket.TrainNo
	fields["class"] = ticket.Class.String()
	fields["date"] = ticket.Date.String()
	fields["seats"] = ticket.SeatCount()
	pkgApp.LogInfo(ctx, s.logger, "ticket cancelled", fields)
	return ticket, nil
}

func (s *ReservationService) cancel(ctx context.Context, username string, pnr domain.PNR) (domain.Ticket, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.Ticket{}, err
	}
	ledger := user.Ledger()
	if _, err := ledger.FindByPNR(pnr); err != nil {
		return domain.Ticket{}, err
	}
	// um cancelamento concorrente do mesmo PNR perde aqui e não devolve lugares
	ticket, err := ledger.RemoveByPNR(pnr)
	if err != nil {
		return domain.Ticket{}, err
	}

	train := ticket.Train
	if train == nil {
		if train, err = s.catalog.FindByNumber(ticket.TrainNo); err != nil {
			return domain.Ticket{}, err
		}
	}
	train.Inventory().Release(ticket.Class, ticket.SeatCount(), ticket.Date)
	return ticket, nil
}

// Ticket consulta um PNR no ledger do usuário.
func (s *ReservationService) Ticket(ctx context.Context, username string, pnr domain.PNR) (domain.Ticket, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.Ticket{}, err
	}
	return user.Ledger().FindByPNR(pnr)
}

// Tickets lista os bilhetes do usuário na ordem de reserva.
func (s *ReservationService) Tickets(ctx context.Context, username string) ([]domain.Ticket, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Ledger().List(), nil
}

// Trains lista os trens da rota, ou todo o catálogo quando a rota é vazia.
func (s *ReservationService) Trains(source, destination string) []domain.TrainInfo {
	var trains []*domain.Train
	if source == "" && destination == "" {
		trains = s.catalog.ListAll()
	} else {
		trains = s.catalog.FindByRoute(source, destination)
	}
	infos := make([]domain.TrainInfo, 0, len(trains))
	for _, t := range trains {
		infos = append(infos, t.Info())
	}
	return infos
}

func (s *ReservationService) Train(trainNo int) (domain.TrainInfo, error) {
	train, err := s.catalog.FindByNumber(trainNo)
	if err != nil {
		return domain.TrainInfo{}, err
	}
	return train.Info(), nil
}

// TrainAvailability devolve os lugares livres de um trem na data.
func (s *ReservationService) TrainAvailability(trainNo int, date domain.Date) (domain.Availability, error) {
	if err := s.CheckDate(date); err != nil {
		return domain.Availability{}, err
	}
	train, err := s.catalog.FindByNumber(trainNo)
	if err != nil {
		return domain.Availability{}, err
	}
	return train.AvailabilityOn(date), nil
}

// Availability com rota devolve todos os trens da rota e seus contadores.
// Sem rota, devolve os trens com ao menos um lugar livre na data.
func (s *ReservationService) Availability(date domain.Date, source, destination string) ([]domain.Availability, error) {
	if err := s.CheckDate(date); err != nil {
		return nil, err
	}

	withRoute := source != "" || destination != ""
	var trains []*domain.Train
	if withRoute {
		trains = s.catalog.FindByRoute(source, destination)
	} else {
		trains = s.catalog.ListAll()
	}

	result := make([]domain.Availability, 0, len(trains))
	for _, t := range trains {
		a := t.AvailabilityOn(date)
		if !withRoute && !a.Seats.Any() {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

// CheckDate aplica a janela de reserva: de hoje até hoje + horizonte, inclusive.
func (s *ReservationService) CheckDate(date domain.Date) error {
	if date.IsZero() {
		return fmt.Errorf("%w: travel date is required", domain.ErrInvalidRequest)
	}
	today := domain.DateOf(s.now())
	if date.Before(today) {
		return fmt.Errorf("%s: %w", date, domain.ErrDateInPast)
	}
	if limit := today.AddMonths(s.horizonMonths); date.After(limit) {
		return fmt.Errorf("%s after %s: %w", date, limit, domain.ErrDateBeyondHorizon)
	}
	return nil
}

// RegisterUser cria uma conta. Autenticação fica fora deste serviço.
func (s *ReservationService) RegisterUser(ctx context.Context, username, secret, mobile string) (*domain.User, error) {
	user, err := domain.NewUser(username, secret, mobile)
	if err != nil {
		return nil, err
	}
	if err := s.users.Register(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			pkgApp.LogError(ctx, s.logger, "error registering user", err, map[string]interface{}{"username": username})
		}
		return nil, err
	}
	pkgApp.LogInfo(ctx, s.logger, "user registered", map[string]interface{}{"username": user.Username})
	return user, nil
}
