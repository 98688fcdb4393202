package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	zapAdapter "github.com/mateusmacedo/go-railticket/pkg/infrastructure/zaplogger/adapter"
)

var (
	clock      = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)
	travelDate = domain.NewDate(2026, time.October, 20)
)

type userDirectory struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (d *userDirectory) Register(_ context.Context, user *domain.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[user.Username]; ok {
		return domain.ErrUserExists
	}
	d.users[user.Username] = user
	return nil
}

func (d *userDirectory) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.users[username]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", username, domain.ErrUserNotFound)
	}
	return user, nil
}

type fixture struct {
	service *ReservationService
	catalog *domain.TrainCatalog
	users   *userDirectory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	var trains []*domain.Train
	for _, spec := range []domain.TrainSpec{
		{Number: 12627, Name: "Karnataka Express", Source: "Bengaluru", Destination: "Delhi", Departure: "06:00", Arrival: "06:00", Fares: domain.FareTable{Sleeper: 600, AC: 1500, Tatkal: 1800}},
		{Number: 10101, Name: "Hyderabad Express", Source: "Hyderabad", Destination: "Chennai", Departure: "07:00", Arrival: "12:30", Fares: domain.FareTable{Sleeper: 500, AC: 1200, Tatkal: 1500}},
		{Number: 10112, Name: "Nagpur Express", Source: "Nagpur", Destination: "Chennai", Departure: "08:00", Arrival: "22:00", Fares: domain.FareTable{Sleeper: 500, AC: 1200, Tatkal: 1500}},
	} {
		train, err := domain.NewTrain(spec)
		require.NoError(t, err)
		trains = append(trains, train)
	}
	catalog, err := domain.NewTrainCatalog(trains...)
	require.NoError(t, err)

	users := &userDirectory{users: map[string]*domain.User{}}
	for _, name := range []string{"alice", "bob"} {
		user, err := domain.NewUser(name, "secret-123", "9876500002")
		require.NoError(t, err)
		require.NoError(t, users.Register(context.Background(), user))
	}

	service := NewReservationService(catalog, users, domain.NewTicketFactory(domain.DefaultPNRBase, nil),
		DefaultHorizonMonths, func() time.Time { return clock }, zapAdapter.NewNopAppLogger())
	return &fixture{service: service, catalog: catalog, users: users}
}

func (f *fixture) available(t *testing.T, trainNo int, class domain.SeatClass, date domain.Date) int {
	t.Helper()
	train, err := f.catalog.FindByNumber(trainNo)
	require.NoError(t, err)
	return train.Inventory().AvailableSeats(class, date)
}

func riders(n int) []domain.Passenger {
	out := make([]domain.Passenger, n)
	for i := range out {
		out[i] = domain.Passenger{Name: fmt.Sprintf("rider-%d", i), Age: 20 + i, Gender: domain.Female}
	}
	return out
}

func booking(username string, trainNo int, class domain.SeatClass, seats int) BookRequest {
	return BookRequest{Username: username, TrainNo: trainNo, Date: travelDate, Class: class, Passengers: riders(seats)}
}

func TestBookDecrementsAndRecordsTicket(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ticket, err := f.service.Book(ctx, booking("alice", 10101, domain.Sleeper, 3))

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPNRBase, ticket.PNR)
	assert.Equal(t, 1575.0, ticket.Total)
	assert.Equal(t, 47, f.available(t, 10101, domain.Sleeper, travelDate))

	tickets, err := f.service.Tickets(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, ticket.PNR, tickets[0].PNR)
}

func TestBookThenCancelRestoresInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before := f.available(t, 12627, domain.AC, travelDate)

	ticket, err := f.service.Book(ctx, booking("alice", 12627, domain.AC, 4))
	require.NoError(t, err)
	assert.Equal(t, before-4, f.available(t, 12627, domain.AC, travelDate))

	cancelled, err := f.service.Cancel(ctx, "alice", ticket.PNR)
	require.NoError(t, err)
	assert.Equal(t, ticket.PNR, cancelled.PNR)
	assert.Equal(t, before, f.available(t, 12627, domain.AC, travelDate))

	_, err = f.service.Ticket(ctx, "alice", ticket.PNR)
	assert.ErrorIs(t, err, domain.ErrPNRNotFound)
}

func TestSecondBookingOverCapacityFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Book(ctx, booking("alice", 10101, domain.Tatkal, 7))
	require.NoError(t, err)

	_, err = f.service.Book(ctx, booking("bob", 10101, domain.Tatkal, 4))

	require.ErrorIs(t, err, domain.ErrInsufficientSeats)
	var seats *domain.InsufficientSeatsError
	require.True(t, errors.As(err, &seats))
	assert.Equal(t, 3, seats.Available)
	assert.Equal(t, 4, seats.Requested)
	assert.Equal(t, 3, f.available(t, 10101, domain.Tatkal, travelDate))

	tickets, err := f.service.Tickets(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestCancelForeignTicketIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket, err := f.service.Book(ctx, booking("alice", 10101, domain.AC, 2))
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, "bob", ticket.PNR)

	assert.ErrorIs(t, err, domain.ErrPNRNotFound)
	assert.Equal(t, 18, f.available(t, 10101, domain.AC, travelDate))
	_, err = f.service.Ticket(ctx, "alice", ticket.PNR)
	assert.NoError(t, err)
}

func TestDoubleCancelReleasesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket, err := f.service.Book(ctx, booking("alice", 10101, domain.AC, 2))
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, "alice", ticket.PNR)
	require.NoError(t, err)
	_, err = f.service.Cancel(ctx, "alice", ticket.PNR)

	assert.ErrorIs(t, err, domain.ErrPNRNotFound)
	assert.Equal(t, domain.DefaultACSeats, f.available(t, 10101, domain.AC, travelDate))
}

func TestPNRsAreNotRecycled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Book(ctx, booking("alice", 10101, domain.Sleeper, 1))
	require.NoError(t, err)
	_, err = f.service.Cancel(ctx, "alice", first.PNR)
	require.NoError(t, err)
	second, err := f.service.Book(ctx, booking("alice", 10101, domain.Sleeper, 1))
	require.NoError(t, err)

	assert.Greater(t, int64(second.PNR), int64(first.PNR))
}

func TestBookRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookRequest)
		want   error
	}{
		{"unknown user", func(r *BookRequest) { r.Username = "carol" }, domain.ErrUserNotFound},
		{"unknown train", func(r *BookRequest) { r.TrainNo = 99999 }, domain.ErrTrainNotFound},
		{"no passengers", func(r *BookRequest) { r.Passengers = nil }, domain.ErrInvalidRequest},
		{"negative age", func(r *BookRequest) { r.Passengers[0].Age = -2 }, domain.ErrInvalidRequest},
		{"unknown class", func(r *BookRequest) { r.Class = "first" }, domain.ErrInvalidRequest},
		{"date in the past", func(r *BookRequest) { r.Date = domain.NewDate(2026, time.October, 13) }, domain.ErrDateInPast},
		{"date past horizon", func(r *BookRequest) { r.Date = domain.NewDate(2026, time.December, 15) }, domain.ErrDateBeyondHorizon},
		{"missing date", func(r *BookRequest) { r.Date = domain.Date{} }, domain.ErrInvalidRequest},
		{"wrong route", func(r *BookRequest) { r.Source, r.Destination = "Nagpur", "Chennai" }, domain.ErrRouteNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := booking("alice", 10101, domain.Sleeper, 2)
			tt.mutate(&req)

			_, err := f.service.Book(context.Background(), req)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.DefaultSleeperSeats, f.available(t, 10101, domain.Sleeper, travelDate))
		})
	}
}

func TestBookWindowIsInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	today := booking("alice", 10101, domain.Sleeper, 1)
	today.Date = domain.DateOf(clock)
	_, err := f.service.Book(ctx, today)
	require.NoError(t, err)

	horizon := booking("alice", 10101, domain.Sleeper, 1)
	horizon.Date = domain.NewDate(2026, time.December, 14)
	_, err = f.service.Book(ctx, horizon)
	require.NoError(t, err)
}

func TestBookWithMatchingRoute(t *testing.T) {
	f := newFixture(t)
	req := booking("alice", 10101, domain.AC, 1)
	req.Source, req.Destination = "hyderabad", "CHENNAI"

	_, err := f.service.Book(context.Background(), req)

	assert.NoError(t, err)
}

func TestConcurrentBookingsForLastSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.service.Book(ctx, booking("alice", 12627, domain.Tatkal, 9))
	require.NoError(t, err)

	const callers = 32
	var wins, insufficient atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.service.Book(ctx, booking("bob", 12627, domain.Tatkal, 1))
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, domain.ErrInsufficientSeats):
				insufficient.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(callers-1), insufficient.Load())
	assert.Equal(t, 0, f.available(t, 12627, domain.Tatkal, travelDate))

	tickets, err := f.service.Tickets(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestConservationAcrossBookingsAndCancellations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := []string{"alice", "bob"}[i%2]
			ticket, err := f.service.Book(ctx, booking(user, 10112, domain.Sleeper, 1+i%3))
			if err != nil {
				return
			}
			if i%3 == 0 {
				_, _ = f.service.Cancel(ctx, user, ticket.PNR)
			}
		}(i)
	}
	wg.Wait()

	held := 0
	for _, user := range []string{"alice", "bob"} {
		tickets, err := f.service.Tickets(ctx, user)
		require.NoError(t, err)
		for _, ticket := range tickets {
			held += ticket.SeatCount()
		}
	}
	assert.Equal(t, domain.DefaultSleeperSeats, f.available(t, 10112, domain.Sleeper, travelDate)+held)
}

func TestAvailabilityListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// esgota o trem 10101 na data
	for _, class := range domain.SeatClasses {
		seats := f.available(t, 10101, class, travelDate)
		for seats > 0 {
			n := seats
			if n > 6 {
				n = 6
			}
			_, err := f.service.Book(ctx, booking("alice", 10101, class, n))
			require.NoError(t, err)
			seats -= n
		}
	}

	all, err := f.service.Availability(travelDate, "", "")
	require.NoError(t, err)
	numbers := make([]int, 0, len(all))
	for _, a := range all {
		numbers = append(numbers, a.Train.Number)
	}
	assert.Equal(t, []int{12627, 10112}, numbers)

	route, err := f.service.Availability(travelDate, "Hyderabad", "Chennai")
	require.NoError(t, err)
	require.Len(t, route, 1)
	assert.Equal(t, domain.SeatCounts{}, route[0].Seats)

	none, err := f.service.Availability(travelDate, "Goa", "Pune")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.service.Availability(domain.NewDate(2027, time.March, 1), "", "")
	assert.ErrorIs(t, err, domain.ErrDateBeyondHorizon)
}

func TestTrainQueries(t *testing.T) {
	f := newFixture(t)

	assert.Len(t, f.service.Trains("", ""), 3)
	chennai := f.service.Trains("nagpur", "chennai")
	require.Len(t, chennai, 1)
	assert.Equal(t, 10112, chennai[0].Number)

	info, err := f.service.Train(12627)
	require.NoError(t, err)
	assert.Equal(t, 1800.0, info.Fares.Tatkal)

	_, err = f.service.Train(1)
	assert.ErrorIs(t, err, domain.ErrTrainNotFound)

	a, err := f.service.TrainAvailability(12627, travelDate)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSeatCounts(), a.Seats)
}

func TestRegisterUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.service.RegisterUser(ctx, "carol", "Carol@123", "9000000001")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Username)

	_, err = f.service.RegisterUser(ctx, "carol", "Carol@123", "9000000001")
	assert.ErrorIs(t, err, domain.ErrUserExists)
}
