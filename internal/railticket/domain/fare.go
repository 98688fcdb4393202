package domain

import "math"

// GSTPercent é o imposto, em pontos percentuais, aplicado sobre o subtotal da tarifa.
const GSTPercent = 5

// FareTable é a tarifa por assento de cada classe de um trem.
type FareTable struct {
	Sleeper float64 `json:"sleeper"`
	AC      float64 `json:"ac"`
	Tatkal  float64 `json:"tatkal"`
}

// Fare devolve a tarifa por assento; classes desconhecidas valem 0.
func (f FareTable) Fare(class SeatClass) float64 {
	switch class.Canonical() {
	case Sleeper:
		return f.Sleeper
	case AC:
		return f.AC
	case Tatkal:
		return f.Tatkal
	default:
		return 0
	}
}

// FareBreakdown é o cálculo de um bilhete. Cada etapa é arredondada antes da seguinte.
type FareBreakdown struct {
	FarePerPassenger float64 `json:"farePerPassenger"`
	Subtotal         float64 `json:"subtotal"`
	GST              float64 `json:"gst"`
	Total            float64 `json:"total"`
}

// ComputeFare calcula subtotal, GST (5%) e total para seats passageiros.
// As contas são feitas em paise inteiros, com meio para cima em cada etapa.
func ComputeFare(farePerSeat float64, seats int) FareBreakdown {
	subtotal := toPaise(farePerSeat * float64(seats))
	gst := (subtotal*GSTPercent + 50) / 100
	return FareBreakdown{
		FarePerPassenger: farePerSeat,
		Subtotal:         fromPaise(subtotal),
		GST:              fromPaise(gst),
		Total:            fromPaise(subtotal + gst),
	}
}

// toPaise arredonda v (não negativo) para centavos, com meio para cima.
// A passagem por micro-unidades absorve o erro binário de valores como 10.005.
func toPaise(v float64) int64 {
	micros := int64(math.Round(v * 1e6))
	return (micros + 5000) / 10000
}

func fromPaise(p int64) float64 {
	return float64(p) / 100
}
