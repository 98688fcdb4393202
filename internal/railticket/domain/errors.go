package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTrainNotFound       = errors.New("train not found")
	ErrRouteNotFound       = errors.New("no train serves the requested route")
	ErrPNRNotFound         = errors.New("pnr not found")
	ErrInsufficientSeats   = errors.New("insufficient seats")
	ErrReservationRace     = errors.New("seat reservation failed after a successful availability check")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrDateInPast          = errors.New("travel date is in the past")
	ErrDateBeyondHorizon   = errors.New("travel date is beyond the booking horizon")
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")

	// ErrInvalidRequest marca violações de contrato do chamador, distintas das
	// falhas de regra de negócio acima.
	ErrInvalidRequest = errors.New("invalid request")
)

// InsufficientSeatsError informa quantos lugares estavam livres quando o pedido falhou.
type InsufficientSeatsError struct {
	TrainNo   int
	Class     SeatClass
	Date      Date
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("insufficient seats on train %d (%s, %s): requested %d, available %d",
		e.TrainNo, e.Class, e.Date, e.Requested, e.Available)
}

func (e *InsufficientSeatsError) Is(target error) bool {
	return target == ErrInsufficientSeats
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
