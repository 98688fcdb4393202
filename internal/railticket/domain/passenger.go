package domain

import (
	"strings"
)

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// ParseGender aceita "male"/"female" em qualquer caixa.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, true
	case "female", "f":
		return Female, true
	default:
		return "", false
	}
}

// Passenger é um valor embutido em um único bilhete.
type Passenger struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender Gender `json:"gender"`
}

// ValidatePassengers verifica as pré-condições estruturais de uma lista de passageiros.
func ValidatePassengers(passengers []Passenger) error {
	if len(passengers) == 0 {
		return invalid("at least one passenger is required")
	}
	for i, p := range passengers {
		if strings.TrimSpace(p.Name) == "" {
			return invalid("passenger %d: name is required", i+1)
		}
		if p.Age < 0 {
			return invalid("passenger %d: age must be >= 0, got %d", i+1, p.Age)
		}
		if _, ok := ParseGender(string(p.Gender)); !ok {
			return invalid("passenger %d: unknown gender %q", i+1, p.Gender)
		}
	}
	return nil
}
