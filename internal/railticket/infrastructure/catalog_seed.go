package infrastructure

import (
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
)

func fares(sleeper, ac, tatkal float64) domain.FareTable {
	return domain.FareTable{Sleeper: sleeper, AC: ac, Tatkal: tatkal}
}

// DefaultTrainSpecs é o catálogo de trens da operadora.
var DefaultTrainSpecs = []domain.TrainSpec{
	{Number: 12627, Name: "Karnataka Express", Source: "Bengaluru", Destination: "Delhi", Departure: "06:00", Arrival: "06:00", Fares: fares(600, 1500, 1800)},
	{Number: 12628, Name: "Karnataka Express (Return)", Source: "Delhi", Destination: "Bengaluru", Departure: "18:00", Arrival: "18:00", Fares: fares(600, 1500, 1800)},
	{Number: 10101, Name: "Hyderabad Express", Source: "Hyderabad", Destination: "Chennai", Departure: "07:00", Arrival: "12:30", Fares: fares(500, 1200, 1500)},
	{Number: 10102, Name: "Mumbai Express", Source: "Mumbai", Destination: "Delhi", Departure: "08:00", Arrival: "20:00", Fares: fares(600, 1300, 1600)},
	{Number: 10103, Name: "Bangalore Express", Source: "Bangalore", Destination: "Kolkata", Departure: "09:00", Arrival: "23:30", Fares: fares(550, 1250, 1550)},
	{Number: 10104, Name: "Chennai Express", Source: "Chennai", Destination: "Mumbai", Departure: "06:30", Arrival: "16:30", Fares: fares(500, 1200, 1500)},
	{Number: 10105, Name: "Delhi Mail", Source: "Delhi", Destination: "Kolkata", Departure: "05:00", Arrival: "22:00", Fares: fares(650, 1350, 1650)},
	{Number: 10106, Name: "Kolkata Mail", Source: "Kolkata", Destination: "Bangalore", Departure: "10:00", Arrival: "02:00", Fares: fares(600, 1300, 1600)},
	{Number: 10107, Name: "Lucknow Express", Source: "Lucknow", Destination: "Delhi", Departure: "07:30", Arrival: "13:00", Fares: fares(500, 1200, 1500)},
	{Number: 10108, Name: "Patna Express", Source: "Patna", Destination: "Mumbai", Departure: "11:00", Arrival: "03:00", Fares: fares(550, 1250, 1550)},
	{Number: 10109, Name: "Ahmedabad Express", Source: "Ahmedabad", Destination: "Chennai", Departure: "05:30", Arrival: "20:00", Fares: fares(500, 1200, 1500)},
	{Number: 10110, Name: "Jaipur Express", Source: "Jaipur", Destination: "Delhi", Departure: "06:00", Arrival: "12:00", Fares: fares(600, 1300, 1600)},
	{Number: 10111, Name: "Bhopal Express", Source: "Bhopal", Destination: "Mumbai", Departure: "09:00", Arrival: "19:00", Fares: fares(550, 1250, 1550)},
	{Number: 10112, Name: "Nagpur Express", Source: "Nagpur", Destination: "Chennai", Departure: "08:00", Arrival: "22:00", Fares: fares(500, 1200, 1500)},
	{Number: 10113, Name: "Indore Express", Source: "Indore", Destination: "Delhi", Departure: "07:00", Arrival: "17:00", Fares: fares(650, 1350, 1650)},
	{Number: 10114, Name: "Pune Express", Source: "Pune", Destination: "Bangalore", Departure: "06:00", Arrival: "14:00", Fares: fares(600, 1300, 1600)},
	{Number: 10115, Name: "Goa Express", Source: "Goa", Destination: "Mumbai", Departure: "10:00", Arrival: "15:00", Fares: fares(500, 1200, 1500)},
	{Number: 10116, Name: "Surat Express", Source: "Surat", Destination: "Delhi", Departure: "05:00", Arrival: "18:00", Fares: fares(550, 1250, 1550)},
	{Number: 10117, Name: "Mysore Express", Source: "Mysore", Destination: "Bangalore", Departure: "11:00", Arrival: "13:00", Fares: fares(500, 1200, 1500)},
	{Number: 10118, Name: "Coimbatore Express", Source: "Coimbatore", Destination: "Chennai", Departure: "07:30", Arrival: "11:30", Fares: fares(600, 1300, 1600)},
}

// SeedTrains monta o catálogo a partir das especificações, ou DefaultTrainSpecs se nenhuma for dada.
func SeedTrains(specs ...domain.TrainSpec) (*domain.TrainCatalog, error) {
	if len(specs) == 0 {
		specs = DefaultTrainSpecs
	}
	trains := make([]*domain.Train, 0, len(specs))
	for _, spec := range specs {
		train, err := domain.NewTrain(spec)
		if err != nil {
			return nil, err
		}
		trains = append(trains, train)
	}
	return domain.NewTrainCatalog(trains...)
}
