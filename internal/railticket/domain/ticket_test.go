package domain

import (
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrain(t *testing.T) *Train {
	t.Helper()
	train, err := NewTrain(TrainSpec{
		Number: 10101, Name: "Hyderabad Express", Source: "Hyderabad", Destination: "Chennai",
		Departure: "07:00", Arrival: "12:30",
		Fares: FareTable{Sleeper: 500, AC: 1200, Tatkal: 1500},
	})
	require.NoError(t, err)
	return train
}

func passengers(n int) []Passenger {
	out := make([]Passenger, n)
	for i := range out {
		out[i] = Passenger{Name: "P", Age: 30 + i, Gender: Male}
	}
	return out
}

func TestMintBuildsTicket(t *testing.T) {
	bookedAt := time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)
	factory := NewTicketFactory(DefaultPNRBase, func() time.Time { return bookedAt })
	train := newTestTrain(t)

	ticket, err := factory.Mint(train, travelDay, "sleeper", passengers(3), train.Fare(Sleeper))

	require.NoError(t, err)
	assert.Equal(t, PNR(100000), ticket.PNR)
	assert.Equal(t, 10101, ticket.TrainNo)
	assert.Equal(t, Sleeper, ticket.Class)
	assert.Equal(t, 3, ticket.SeatCount())
	assert.Equal(t, 1500.0, ticket.Subtotal)
	assert.Equal(t, 75.0, ticket.GST)
	assert.Equal(t, 1575.0, ticket.Total)
	assert.Equal(t, bookedAt, ticket.BookedAt)
	assert.Same(t, train, ticket.Train)
}

func TestMintCopiesPassengers(t *testing.T) {
	factory := NewTicketFactory(DefaultPNRBase, nil)
	list := passengers(2)

	ticket, err := factory.Mint(newTestTrain(t), travelDay, AC, list, 1200)
	require.NoError(t, err)

	list[0].Name = "changed"
	assert.Equal(t, "P", ticket.Passengers[0].Name)
}

func TestMintNormalizesGender(t *testing.T) {
	factory := NewTicketFactory(DefaultPNRBase, nil)

	ticket, err := factory.Mint(newTestTrain(t), travelDay, AC, []Passenger{{Name: "A", Age: 0, Gender: "female"}}, 1200)

	require.NoError(t, err)
	assert.Equal(t, Female, ticket.Passengers[0].Gender)
}

func TestMintPreconditions(t *testing.T) {
	train := newTestTrain(t)
	tests := []struct {
		name       string
		class      SeatClass
		passengers []Passenger
		fare       float64
	}{
		{"no passengers", AC, nil, 100},
		{"negative age", AC, []Passenger{{Name: "A", Age: -1, Gender: Male}}, 100},
		{"unknown gender", AC, []Passenger{{Name: "A", Age: 3, Gender: "x"}}, 100},
		{"negative fare", AC, passengers(1), -1},
		{"unknown class", "cargo", passengers(1), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := NewTicketFactory(DefaultPNRBase, nil)

			_, err := factory.Mint(train, travelDay, tt.class, tt.passengers, tt.fare)
			require.ErrorIs(t, err, ErrInvalidRequest)

			// a falha não consome PNR
			ticket, err := factory.Mint(train, travelDay, AC, passengers(1), 100)
			require.NoError(t, err)
			assert.Equal(t, DefaultPNRBase, ticket.PNR)
		})
	}
}

func TestMintPNRsStrictlyIncreasing(t *testing.T) {
	factory := NewTicketFactory(500, nil)
	train := newTestTrain(t)

	var last PNR
	for i := 0; i < 100; i++ {
		ticket, err := factory.Mint(train, travelDay, Sleeper, passengers(1), 500)
		require.NoError(t, err)
		if i > 0 {
			assert.Greater(t, int64(ticket.PNR), int64(last))
		}
		last = ticket.PNR
	}
	assert.Equal(t, PNR(599), last)
}

func TestMintPNRsUniqueUnderConcurrency(t *testing.T) {
	factory := NewTicketFactory(DefaultPNRBase, nil)
	train := newTestTrain(t)

	const workers, perWorker = 8, 250
	var mu sync.Mutex
	var pnrs []PNR
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ticket, err := factory.Mint(train, travelDay, Sleeper, passengers(1), 500)
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				pnrs = append(pnrs, ticket.PNR)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, pnrs, workers*perWorker)
	sort.Slice(pnrs, func(i, j int) bool { return pnrs[i] < pnrs[j] })
	for i := range pnrs {
		assert.Equal(t, DefaultPNRBase+PNR(i), pnrs[i])
	}
}

func TestParsePNR(t *testing.T) {
	pnr, err := ParsePNR("100042")
	require.NoError(t, err)
	assert.Equal(t, PNR(100042), pnr)
	assert.Equal(t, "100042", pnr.String())

	for _, bad := range []string{"", "abc", "-1", "0"} {
		_, err := ParsePNR(bad)
		assert.True(t, errors.Is(err, ErrInvalidRequest), bad)
	}
}
