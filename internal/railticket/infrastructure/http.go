package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mateusmacedo/go-railticket/internal/railticket/application"
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	pkgApp "github.com/mateusmacedo/go-railticket/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railticket/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railticket/pkg/infrastructure"
)

const (
	// UsernameHeader identifica o usuário autenticado por um componente externo.
	UsernameHeader  = "X-Username"
	RequestIDHeader = "X-Request-ID"

	DefaultRequestTimeout = 10 * time.Second
)

var errMissingUser = errors.New("missing " + UsernameHeader + " header")

type passengerRequest struct {
	Name   string `json:"name" validate:"required"`
	Age    int    `json:"age" validate:"gte=0,lte=150"`
	Gender string `json:"gender" validate:"required"`
}

type bookingRequest struct {
	TrainNo          int                `json:"trainNo" validate:"required,gt=0"`
	Date             string             `json:"date" validate:"required"`
	Class            string             `json:"class" validate:"required"`
	Source           string             `json:"source" validate:"required_with=Destination"`
	Destination      string             `json:"destination" validate:"required_with=Source"`
	PaymentConfirmed bool               `json:"paymentConfirmed"`
	Passengers       []passengerRequest `json:"passengers" validate:"required,min=1,dive"`
}

// routeQuery são os filtros de rota das consultas; origem e destino andam juntos.
type routeQuery struct {
	Source      string `validate:"required_with=Destination"`
	Destination string `validate:"required_with=Source"`
}

type userRequest struct {
	Username string `json:"username" validate:"required,min=4"`
	Secret   string `json:"secret" validate:"required,min=8"`
	Mobile   string `json:"mobile" validate:"required,numeric,len=10"`
}

type RailTicketHTTPHandler struct {
	buses    application.Buses
	service  *application.ReservationService
	validate *validator.Validate
	timeout  time.Duration
	logger   pkgApp.AppLogger
}

func NewRailTicketHTTPHandler(
	buses application.Buses,
	service *application.ReservationService,
	timeout time.Duration,
	logger pkgApp.AppLogger,
) *RailTicketHTTPHandler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &RailTicketHTTPHandler{
		buses:    buses,
		service:  service,
		validate: validator.New(),
		timeout:  timeout,
		logger:   logger,
	}
}

func (h *RailTicketHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/trains", h.HandleFindTrains)
	router.Get("/trains/{trainNo}", h.HandleFindTrain)
	router.Get("/trains/{trainNo}/availability", h.HandleTrainAvailability)
	router.Get("/availability", h.HandleAvailability)
	router.Post("/users", h.HandleRegisterUser)
	router.Post("/bookings", h.HandleBookTicket)
	router.Get("/bookings", h.HandleListTickets)
	router.Get("/bookings/{pnr}", h.HandleFindTicket)
	router.Delete("/bookings/{pnr}", h.HandleCancelTicket)
}

func (h *RailTicketHTTPHandler) HandleFindTrains(w http.ResponseWriter, r *http.Request) {
	route, err := h.routeOf(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	trains, err := h.buses.FindTrains.Dispatch(ctx, application.NewFindTrainsQuery(application.FindTrainsData{
		Source:      route.Source,
		Destination: route.Destination,
	}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trains)
}

func (h *RailTicketHTTPHandler) HandleFindTrain(w http.ResponseWriter, r *http.Request) {
	trainNo, err := trainNoParam(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	train, err := h.buses.FindTrain.Dispatch(ctx, application.NewFindTrainQuery(application.FindTrainData{TrainNo: trainNo}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, train)
}

func (h *RailTicketHTTPHandler) HandleTrainAvailability(w http.ResponseWriter, r *http.Request) {
	trainNo, err := trainNoParam(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	date, err := domain.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.buses.TrainAvailability.Dispatch(ctx, application.NewTrainAvailabilityQuery(application.TrainAvailabilityData{
		TrainNo: trainNo,
		Date:    date,
	}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if len(result) != 1 {
		h.handleError(w, r, domain.ErrTrainNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result[0])
}

func (h *RailTicketHTTPHandler) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	route, err := h.routeOf(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.buses.TrainAvailability.Dispatch(ctx, application.NewTrainAvailabilityQuery(application.TrainAvailabilityData{
		Date:        date,
		Source:      route.Source,
		Destination: route.Destination,
	}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *RailTicketHTTPHandler) HandleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := h.decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Username, req.Secret, req.Mobile)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"username": user.Username, "mobile": user.Mobile})
}

func (h *RailTicketHTTPHandler) HandleBookTicket(w http.ResponseWriter, r *http.Request) {
	username, err := usernameOf(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req bookingRequest
	if err := h.decode(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	data, err := req.toCommandData(username)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ticket, err := h.buses.Book.Dispatch(ctx, application.NewBookTicketCommand(data))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

func (h *RailTicketHTTPHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	username, err := usernameOf(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tickets, err := h.buses.ListTickets.Dispatch(ctx, application.NewListTicketsQuery(application.ListTicketsData{Username: username}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *RailTicketHTTPHandler) HandleFindTicket(w http.ResponseWriter, r *http.Request) {
	username, pnr, err := ticketParams(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ticket, err := h.buses.FindTicket.Dispatch(ctx, application.NewFindTicketQuery(application.FindTicketData{Username: username, PNR: pnr}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (h *RailTicketHTTPHandler) HandleCancelTicket(w http.ResponseWriter, r *http.Request) {
	username, pnr, err := ticketParams(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ticket, err := h.buses.Cancel.Dispatch(ctx, application.NewCancelTicketCommand(application.CancelTicketData{Username: username, PNR: pnr}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (h *RailTicketHTTPHandler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(domain.ErrInvalidRequest, err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return errors.Join(domain.ErrInvalidRequest, err)
	}
	return nil
}

func (h *RailTicketHTTPHandler) routeOf(r *http.Request) (routeQuery, error) {
	route := routeQuery{
		Source:      strings.TrimSpace(r.URL.Query().Get("source")),
		Destination: strings.TrimSpace(r.URL.Query().Get("destination")),
	}
	if err := h.validate.Struct(route); err != nil {
		return routeQuery{}, errors.Join(domain.ErrInvalidRequest, err)
	}
	return route, nil
}

func (req bookingRequest) toCommandData(username string) (application.BookTicketData, error) {
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return application.BookTicketData{}, err
	}
	class, ok := domain.ParseSeatClass(req.Class)
	if !ok {
		return application.BookTicketData{}, fmt.Errorf("%w: unknown seat class %q", domain.ErrInvalidRequest, req.Class)
	}

	passengers := make([]domain.Passenger, 0, len(req.Passengers))
	for i, p := range req.Passengers {
		gender, ok := domain.ParseGender(p.Gender)
		if !ok {
			return application.BookTicketData{}, fmt.Errorf("%w: passenger %d: unknown gender %q", domain.ErrInvalidRequest, i+1, p.Gender)
		}
		passengers = append(passengers, domain.Passenger{Name: strings.TrimSpace(p.Name), Age: p.Age, Gender: gender})
	}

	return application.BookTicketData{
		Username:         username,
		TrainNo:          req.TrainNo,
		Date:             date,
		Class:            class,
		Passengers:       passengers,
		Source:           req.Source,
		Destination:      req.Destination,
		PaymentConfirmed: req.PaymentConfirmed,
	}, nil
}

func usernameOf(r *http.Request) (string, error) {
	username := strings.TrimSpace(r.Header.Get(UsernameHeader))
	if username == "" {
		return "", errMissingUser
	}
	return username, nil
}

func trainNoParam(r *http.Request) (int, error) {
	trainNo, err := strconv.Atoi(chi.URLParam(r, "trainNo"))
	if err != nil || trainNo <= 0 {
		return 0, errors.Join(domain.ErrInvalidRequest, errors.New("trainNo must be a positive integer"))
	}
	return trainNo, nil
}

func ticketParams(r *http.Request) (string, domain.PNR, error) {
	username, err := usernameOf(r)
	if err != nil {
		return "", 0, err
	}
	pnr, err := domain.ParsePNR(chi.URLParam(r, "pnr"))
	if err != nil {
		return "", 0, err
	}
	return username, pnr, nil
}

// StatusFor traduz erros do domínio em códigos HTTP.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errMissingUser):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPaymentNotConfirmed):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrTrainNotFound),
		errors.Is(err, domain.ErrRouteNotFound),
		errors.Is(err, domain.ErrPNRNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientSeats), errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDateInPast), errors.Is(err, domain.ErrDateBeyondHorizon):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	Available *int   `json:"available,omitempty"`
}

func (h *RailTicketHTTPHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		pkgApp.LogError(r.Context(), h.logger, "request failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}

	resp := errorResponse{Error: err.Error()}
	var seats *domain.InsufficientSeatsError
	if errors.As(err, &seats) {
		resp.Available = &seats.Available
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RequestID propaga o X-Request-ID recebido ou gera um novo com idGenerator.
func RequestID(idGenerator pkgDomain.IDGenerator[string]) func(http.Handler) http.Handler {
	if idGenerator == nil {
		idGenerator = pkgInfra.GenerateUUID
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = idGenerator()
			}
			w.Header().Set(RequestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(pkgApp.ContextWithRequestID(r.Context(), requestID)))
		})
	}
}
