package domain

import "sync"

// Capacidade inicial de cada data, por classe.
const (
	DefaultSleeperSeats = 50
	DefaultACSeats      = 20
	DefaultTatkalSeats  = 10
)

// SeatCounts guarda os lugares livres de uma data em cada classe.
type SeatCounts struct {
	Sleeper int `json:"sleeper"`
	AC      int `json:"ac"`
	Tatkal  int `json:"tatkal"`
}

// DefaultSeatCounts é a capacidade de uma data ainda sem reservas.
func DefaultSeatCounts() SeatCounts {
	return SeatCounts{Sleeper: DefaultSleeperSeats, AC: DefaultACSeats, Tatkal: DefaultTatkalSeats}
}

// Get devolve o contador da classe; classes desconhecidas valem 0.
func (c SeatCounts) Get(class SeatClass) int {
	if p := c.counter(class); p != nil {
		return *p
	}
	return 0
}

// Any informa se resta algum lugar em qualquer classe.
func (c SeatCounts) Any() bool {
	return c.Sleeper > 0 || c.AC > 0 || c.Tatkal > 0
}

func (c *SeatCounts) counter(class SeatClass) *int {
	switch class.Canonical() {
	case Sleeper:
		return &c.Sleeper
	case AC:
		return &c.AC
	case Tatkal:
		return &c.Tatkal
	default:
		return nil
	}
}

// SeatInventory mantém os contadores de um trem por data de viagem.
//
// Uma data passa a existir no primeiro acesso, já com DefaultSeatCounts: "sem
// reservas para D" e "todos os lugares livres em D" são o mesmo estado.
// Reserve e Release são serializados pelo mutex do inventário, então duas
// reservas concorrentes nunca enxergam a mesma disponibilidade.
//
// Release não limita o contador à capacidade. Quem chama deve liberar apenas
// a quantidade de uma reserva anterior bem-sucedida para a mesma classe e data
// (ReservationService faz isso a partir do próprio bilhete cancelado).
type SeatInventory struct {
	mu    sync.Mutex
	dates map[Date]*SeatCounts
}

func NewSeatInventory() *SeatInventory {
	return &SeatInventory{dates: make(map[Date]*SeatCounts)}
}

// ensure deve ser chamado com mu travado.
func (inv *SeatInventory) ensure(date Date) *SeatCounts {
	counts, ok := inv.dates[date]
	if !ok {
		fresh := DefaultSeatCounts()
		counts = &fresh
		inv.dates[date] = counts
	}
	return counts
}

// AvailableSeats devolve os lugares livres da classe na data.
func (inv *SeatInventory) AvailableSeats(class SeatClass, date Date) int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.ensure(date).Get(class)
}

// Snapshot devolve uma cópia dos três contadores da data.
func (inv *SeatInventory) Snapshot(date Date) SeatCounts {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return *inv.ensure(date)
}

// Reserve desconta count lugares se houver disponibilidade; caso contrário nada muda.
func (inv *SeatInventory) Reserve(class SeatClass, count int, date Date) bool {
	_, ok := inv.TryReserve(class, count, date)
	return ok
}

// TryReserve é Reserve devolvendo também a disponibilidade observada antes do desconto.
func (inv *SeatInventory) TryReserve(class SeatClass, count int, date Date) (int, bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	counter := inv.ensure(date).counter(class)
	if counter == nil {
		return 0, false
	}
	available := *counter
	if count <= 0 || count > available {
		return available, false
	}
	*counter -= count
	return available, true
}

// Release devolve count lugares à classe na data. Classes desconhecidas são ignoradas.
func (inv *SeatInventory) Release(class SeatClass, count int, date Date) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if counter := inv.ensure(date).counter(class); counter != nil {
		*counter += count
	}
}
