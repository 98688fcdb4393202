package main

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/mateusmacedo/go-railticket/internal/railticket"
	"github.com/mateusmacedo/go-railticket/internal/railticket/application"
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	"github.com/mateusmacedo/go-railticket/internal/railticket/infrastructure"
	"github.com/mateusmacedo/go-railticket/pkg/infrastructure/channels/adapter"
	watermillLogAdapter "github.com/mateusmacedo/go-railticket/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-railticket/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	// Criação de um novo logger
	appLogger, err := zapAdapter.NewZapAppLogger("railticket-demo", "debug")
	if err != nil {
		panic(err)
	}

	// Publisher e subscriber em memória
	logger := watermillLogAdapter.NewWatermillLoggerAdapter(appLogger)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)
	defer pubSub.Close()

	catalog, err := infrastructure.SeedTrains()
	if err != nil {
		panic(err)
	}
	users := infrastructure.NewInMemoryUserRepository(appLogger)
	user, err := domain.NewUser("admin", "Admin@123", "9876500002")
	if err != nil {
		panic(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := users.Register(ctx, user); err != nil {
		panic(err)
	}

	// Barramentos usando Watermill
	buses := railticket.NewWatermillBuses(pubSub, appLogger)
	eventBus := adapter.NewWatermillEventBus[application.TicketEvent, application.TicketEventData](pubSub, appLogger)

	railticket.NewRailTicketSlice(buses, eventBus, railticket.Options{
		Catalog: catalog,
		Users:   users,
		Factory: domain.NewTicketFactory(domain.DefaultPNRBase, nil),
	}, appLogger)

	// Escuta o tópico de reservas para mostrar o fluxo de auditoria
	audit, err := pubSub.Subscribe(ctx, application.BookTicketCommandName)
	if err != nil {
		panic(err)
	}
	go func() {
		for msg := range audit {
			appLogger.Info(ctx, "Comando auditado", map[string]interface{}{"payload": string(msg.Payload)})
			msg.Ack()
		}
	}()

	travelDate := domain.DateOf(time.Now().AddDate(0, 0, 7))
	command := application.NewBookTicketCommand(application.BookTicketData{
		Username: "admin",
		TrainNo:  12627,
		Date:     travelDate,
		Class:    domain.AC,
		Passengers: []domain.Passenger{
			{Name: "Asha", Age: 34, Gender: domain.Female},
			{Name: "Ravi", Age: 36, Gender: domain.Male},
		},
		PaymentConfirmed: true,
	})

	ticket, err := buses.Book.Dispatch(ctx, command)
	if err != nil {
		appLogger.Error(ctx, "Erro ao despachar comando de reserva", map[string]interface{}{"error": err.Error()})
		return
	}
	appLogger.Info(ctx, "Bilhete reservado", map[string]interface{}{
		"pnr":   int64(ticket.PNR),
		"total": ticket.Total,
	})

	availability, err := buses.TrainAvailability.Dispatch(ctx, application.NewTrainAvailabilityQuery(application.TrainAvailabilityData{
		TrainNo: 12627,
		Date:    travelDate,
	}))
	if err != nil {
		appLogger.Error(ctx, "Erro ao consultar disponibilidade", map[string]interface{}{"error": err.Error()})
		return
	}
	appLogger.Info(ctx, "Disponibilidade após a reserva", map[string]interface{}{"seats": availability[0].Seats})

	if _, err := buses.Cancel.Dispatch(ctx, application.NewCancelTicketCommand(application.CancelTicketData{
		Username: "admin",
		PNR:      ticket.PNR,
	})); err != nil {
		appLogger.Error(ctx, "Erro ao cancelar bilhete", map[string]interface{}{"error": err.Error()})
		return
	}

	tickets, err := buses.ListTickets.Dispatch(ctx, application.NewListTicketsQuery(application.ListTicketsData{Username: "admin"}))
	if err != nil {
		appLogger.Error(ctx, "Erro ao listar bilhetes", map[string]interface{}{"error": err.Error()})
		return
	}
	appLogger.Info(ctx, "Bilhetes restantes", map[string]interface{}{"count": len(tickets)})

	// Espera breve para o consumidor de auditoria
	time.Sleep(200 * time.Millisecond)
}
