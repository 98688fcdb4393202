package infrastructure

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mateusmacedo/go-railticket/internal/railticket/application"
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
)

const metricsNamespace = "railticket"

// Resultados registrados em railticket_bookings_total.
const (
	ResultBooked            = "booked"
	ResultInsufficientSeats = "insufficient_seats"
	ResultPaymentRequired   = "payment_not_confirmed"
	ResultDateWindow        = "date_window"
	ResultNotFound          = "not_found"
	ResultInvalid           = "invalid"
	ResultRace              = "reservation_race"
	ResultError             = "error"
)

type Metrics struct {
	bookings      *prometheus.CounterVec
	cancellations prometheus.Counter
	seatsReserved *prometheus.CounterVec
	seatsReleased *prometheus.CounterVec
}

// NewMetrics registra os coletores em reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bookings_total",
			Help:      "Booking attempts by result.",
		}, []string{"result"}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cancellations_total",
			Help:      "Cancelled tickets.",
		}),
		seatsReserved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "seats_reserved_total",
			Help:      "Seats reserved by class.",
		}, []string{"class"}),
		seatsReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "seats_released_total",
			Help:      "Seats released by class.",
		}, []string{"class"}),
	}

	for _, c := range []prometheus.Collector{m.bookings, m.cancellations, m.seatsReserved, m.seatsReleased} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handle consome TicketBooked e TicketCancelled.
func (m *Metrics) Handle(_ context.Context, event application.TicketEvent) error {
	data := event.Payload()
	class := data.Class.String()
	switch event.EventName() {
	case application.TicketBookedEventName:
		m.bookings.WithLabelValues(ResultBooked).Inc()
		m.seatsReserved.WithLabelValues(class).Add(float64(data.Seats))
	case application.TicketCancelledEventName:
		m.cancellations.Inc()
		m.seatsReleased.WithLabelValues(class).Add(float64(data.Seats))
	}
	return nil
}

// ObserveBookingFailure conta uma reserva recusada pelo motivo do erro.
func (m *Metrics) ObserveBookingFailure(err error) {
	m.bookings.WithLabelValues(BookingResult(err)).Inc()
}

// InstrumentBook envolve o manipulador de reserva contando as recusas.
// Reservas bem-sucedidas são contadas pelo evento TicketBooked.
func (m *Metrics) InstrumentBook(next application.BookTicketHandler) application.BookTicketHandler {
	return instrumentedBook{next: next, metrics: m}
}

type instrumentedBook struct {
	next    application.BookTicketHandler
	metrics *Metrics
}

func (h instrumentedBook) Handle(ctx context.Context, command application.BookTicketCommand) (domain.Ticket, error) {
	ticket, err := h.next.Handle(ctx, command)
	if err != nil {
		h.metrics.ObserveBookingFailure(err)
	}
	return ticket, err
}

// BookingResult classifica o erro de uma reserva; nil vale ResultBooked.
func BookingResult(err error) string {
	switch {
	case err == nil:
		return ResultBooked
	case errors.Is(err, domain.ErrInsufficientSeats):
		return ResultInsufficientSeats
	case errors.Is(err, domain.ErrPaymentNotConfirmed):
		return ResultPaymentRequired
	case errors.Is(err, domain.ErrDateInPast), errors.Is(err, domain.ErrDateBeyondHorizon):
		return ResultDateWindow
	case errors.Is(err, domain.ErrTrainNotFound), errors.Is(err, domain.ErrRouteNotFound), errors.Is(err, domain.ErrUserNotFound):
		return ResultNotFound
	case errors.Is(err, domain.ErrInvalidRequest):
		return ResultInvalid
	case errors.Is(err, domain.ErrReservationRace):
		return ResultRace
	default:
		return ResultError
	}
}

// MetricsHandler expõe os coletores de g no formato texto do Prometheus.
func MetricsHandler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
