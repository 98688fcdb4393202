package domain

import "strings"

// SeatClass é uma das classes de assento vendidas em cada trem.
type SeatClass string

const (
	Sleeper SeatClass = "Sleeper"
	AC      SeatClass = "AC"
	Tatkal  SeatClass = "Tatkal"
)

// SeatClasses lista as classes na ordem em que aparecem nos contadores.
var SeatClasses = []SeatClass{Sleeper, AC, Tatkal}

// ParseSeatClass normaliza s (sem diferenciar maiúsculas) para a classe canônica.
func ParseSeatClass(s string) (SeatClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sleeper":
		return Sleeper, true
	case "ac":
		return AC, true
	case "tatkal":
		return Tatkal, true
	default:
		return "", false
	}
}

// Canonical devolve a forma canônica da classe, ou "" se ela não existir.
func (c SeatClass) Canonical() SeatClass {
	canonical, _ := ParseSeatClass(string(c))
	return canonical
}

func (c SeatClass) Valid() bool {
	return c.Canonical() != ""
}

func (c SeatClass) String() string {
	return string(c)
}
