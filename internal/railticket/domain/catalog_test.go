package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func train(t *testing.T, number int, source, destination string) *Train {
	t.Helper()
	tr, err := NewTrain(TrainSpec{
		Number: number, Name: "T", Source: source, Destination: destination,
		Departure: "06:00", Arrival: "18:00",
		Fares: FareTable{Sleeper: 600, AC: 1500, Tatkal: 1800},
	})
	require.NoError(t, err)
	return tr
}

func TestTrainCatalogFindByRoute(t *testing.T) {
	catalog, err := NewTrainCatalog(
		train(t, 1, "Delhi", "Mumbai"),
		train(t, 2, "Mumbai", "Delhi"),
		train(t, 3, "Delhi", "Mumbai"),
	)
	require.NoError(t, err)

	matches := catalog.FindByRoute(" delhi", "MUMBAI")

	require.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].Number())
	assert.Equal(t, 3, matches[1].Number())
	assert.Empty(t, catalog.FindByRoute("Goa", "Pune"))
}

func TestTrainCatalogFindByNumber(t *testing.T) {
	catalog, err := NewTrainCatalog(train(t, 12627, "Bengaluru", "Delhi"))
	require.NoError(t, err)

	found, err := catalog.FindByNumber(12627)
	require.NoError(t, err)
	assert.Equal(t, "Bengaluru", found.Info().Source)

	_, err = catalog.FindByNumber(99999)
	assert.ErrorIs(t, err, ErrTrainNotFound)
}

func TestTrainCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewTrainCatalog(train(t, 1, "A", "B"), train(t, 1, "C", "D"))

	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestTrainCatalogListAllIsACopy(t *testing.T) {
	catalog, err := NewTrainCatalog(train(t, 1, "A", "B"), train(t, 2, "B", "A"))
	require.NoError(t, err)

	all := catalog.ListAll()
	all[0] = nil

	assert.Equal(t, 1, catalog.ListAll()[0].Number())
}

func TestNewTrainValidation(t *testing.T) {
	_, err := NewTrain(TrainSpec{Number: 1, Source: "A", Destination: "B", Departure: "25:00", Arrival: "06:00"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewTrain(TrainSpec{Number: 0, Source: "A", Destination: "B", Departure: "06:00", Arrival: "06:00"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewTrain(TrainSpec{Number: 1, Source: "A", Destination: "B", Departure: "06:00", Arrival: "06:00", Fares: FareTable{AC: -5}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
