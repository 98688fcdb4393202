package domain

import (
	"strings"
	"time"
)

// TrainSpec descreve um trem do catálogo.
type TrainSpec struct {
	Number      int
	Name        string
	Source      string
	Destination string
	Departure   string // HH:mm
	Arrival     string // HH:mm
	Fares       FareTable
}

// Train é imutável depois de criado, exceto pelo inventário de assentos que possui.
type Train struct {
	info      TrainInfo
	srcKey    string
	dstKey    string
	inventory *SeatInventory
}

// TrainInfo é a visão somente leitura de um trem.
type TrainInfo struct {
	Number      int       `json:"trainNo"`
	Name        string    `json:"name"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Departure   string    `json:"departure"`
	Arrival     string    `json:"arrival"`
	Fares       FareTable `json:"fares"`
}

// Availability combina um trem com seus lugares livres numa data.
type Availability struct {
	Train TrainInfo  `json:"train"`
	Date  Date       `json:"date"`
	Seats SeatCounts `json:"seats"`
}

func NewTrain(spec TrainSpec) (*Train, error) {
	if spec.Number <= 0 {
		return nil, invalid("train number must be positive, got %d", spec.Number)
	}
	if strings.TrimSpace(spec.Source) == "" || strings.TrimSpace(spec.Destination) == "" {
		return nil, invalid("train %d needs source and destination", spec.Number)
	}
	for _, hhmm := range []string{spec.Departure, spec.Arrival} {
		if _, err := time.Parse("15:04", hhmm); err != nil {
			return nil, invalid("train %d: time %q must be HH:mm", spec.Number, hhmm)
		}
	}
	for _, class := range SeatClasses {
		if spec.Fares.Fare(class) < 0 {
			return nil, invalid("train %d: negative %s fare", spec.Number, class)
		}
	}

	return &Train{
		info: TrainInfo{
			Number:      spec.Number,
			Name:        spec.Name,
			Source:      spec.Source,
			Destination: spec.Destination,
			Departure:   spec.Departure,
			Arrival:     spec.Arrival,
			Fares:       spec.Fares,
		},
		srcKey:    StationKey(spec.Source),
		dstKey:    StationKey(spec.Destination),
		inventory: NewSeatInventory(),
	}, nil
}

// StationKey normaliza o nome de uma estação para comparação.
func StationKey(station string) string {
	return strings.ToLower(strings.TrimSpace(station))
}

func (t *Train) Number() int {
	return t.info.Number
}

func (t *Train) Info() TrainInfo {
	return t.info
}

func (t *Train) Fare(class SeatClass) float64 {
	return t.info.Fares.Fare(class)
}

func (t *Train) Inventory() *SeatInventory {
	return t.inventory
}

// Serves informa se o trem liga source a destination.
func (t *Train) Serves(source, destination string) bool {
	return t.srcKey == StationKey(source) && t.dstKey == StationKey(destination)
}

// AvailabilityOn devolve o retrato de lugares livres do trem em date.
func (t *Train) AvailabilityOn(date Date) Availability {
	return Availability{Train: t.info, Date: date, Seats: t.inventory.Snapshot(date)}
}
