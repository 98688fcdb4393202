package domain

import (
	"strconv"
	"sync/atomic"
	"time"
)

// DefaultPNRBase é o primeiro PNR emitido por um processo novo.
const DefaultPNRBase PNR = 100000

// BookedAtLayout é o formato de exibição do horário da reserva.
const BookedAtLayout = "02-01-2006 15:04:05"

type PNR int64

func ParsePNR(s string) (PNR, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, invalid("pnr %q must be a positive integer", s)
	}
	return PNR(n), nil
}

func (p PNR) String() string {
	return strconv.FormatInt(int64(p), 10)
}

// Ticket é imutável depois de emitido. Train é apenas uma referência de consulta
// para devolver os lugares no cancelamento.
type Ticket struct {
	PNR         PNR         `json:"pnr"`
	Train       *Train      `json:"-"`
	TrainNo     int         `json:"trainNo"`
	TrainName   string      `json:"trainName"`
	Source      string      `json:"source"`
	Destination string      `json:"destination"`
	Date        Date        `json:"date"`
	Class       SeatClass   `json:"class"`
	Passengers  []Passenger `json:"passengers"`
	FareBreakdown
	BookedAt time.Time `json:"bookedAt"`
}

// SeatCount é a quantidade de lugares que o bilhete ocupa.
func (t Ticket) SeatCount() int {
	return len(t.Passengers)
}

func (t Ticket) clone() Ticket {
	t.Passengers = append([]Passenger(nil), t.Passengers...)
	return t
}

// TicketFactory emite bilhetes com PNR sequencial compartilhado pelo processo.
type TicketFactory struct {
	next atomic.Int64
	now  func() time.Time
}

// NewTicketFactory cria uma fábrica cujo primeiro PNR é base. now nil usa time.Now.
func NewTicketFactory(base PNR, now func() time.Time) *TicketFactory {
	if now == nil {
		now = time.Now
	}
	f := &TicketFactory{now: now}
	f.next.Store(int64(base) - 1)
	return f
}

// Mint monta o bilhete. A reserva dos lugares já deve ter acontecido.
// Pré-condições inválidas retornam ErrInvalidRequest sem consumir PNR.
func (f *TicketFactory) Mint(train *Train, date Date, class SeatClass, passengers []Passenger, farePerSeat float64) (Ticket, error) {
	if train == nil {
		return Ticket{}, invalid("ticket needs a train")
	}
	canonical := class.Canonical()
	if canonical == "" {
		return Ticket{}, invalid("unknown seat class %q", class)
	}
	if farePerSeat < 0 {
		return Ticket{}, invalid("fare per seat must be >= 0, got %.2f", farePerSeat)
	}
	if err := ValidatePassengers(passengers); err != nil {
		return Ticket{}, err
	}

	travellers := make([]Passenger, len(passengers))
	for i, p := range passengers {
		p.Gender, _ = ParseGender(string(p.Gender))
		travellers[i] = p
	}

	info := train.Info()
	return Ticket{
		PNR:           PNR(f.next.Add(1)),
		Train:         train,
		TrainNo:       info.Number,
		TrainName:     info.Name,
		Source:        info.Source,
		Destination:   info.Destination,
		Date:          date,
		Class:         canonical,
		Passengers:    travellers,
		FareBreakdown: ComputeFare(farePerSeat, len(passengers)),
		BookedAt:      f.now(),
	}, nil
}
