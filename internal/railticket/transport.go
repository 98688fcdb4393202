package railticket

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/multierr"

	"github.com/mateusmacedo/go-railticket/internal/config"
	"github.com/mateusmacedo/go-railticket/internal/railticket/application"
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	pkgApp "github.com/mateusmacedo/go-railticket/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railticket/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railticket/pkg/infrastructure"
	channelAdapter "github.com/mateusmacedo/go-railticket/pkg/infrastructure/channels/adapter"
	kafkaAdapter "github.com/mateusmacedo/go-railticket/pkg/infrastructure/kafka/adapter"
	redisAdapter "github.com/mateusmacedo/go-railticket/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/go-railticket/pkg/infrastructure/watermill/adapter"
)

// Transport reúne os barramentos escolhidos pela configuração e o que precisa ser fechado.
type Transport struct {
	Buses    application.Buses
	EventBus application.TicketEventBus

	closers []func() error
}

// NewTransport monta comandos e consultas sobre config.BusDriver e eventos sobre config.EventDriver.
func NewTransport(cfg *config.Config, logger pkgApp.AppLogger) (*Transport, error) {
	t := &Transport{}
	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(logger)

	var channel *gochannel.GoChannel
	goChannel := func() *gochannel.GoChannel {
		if channel == nil {
			channel = gochannel.NewGoChannel(gochannel.Config{}, wmLogger)
			t.closers = append(t.closers, channel.Close)
		}
		return channel
	}

	switch cfg.BusDriver {
	case config.DriverSimple:
		t.Buses = NewSimpleBuses(logger)
	case config.DriverGoChannel:
		t.Buses = NewWatermillBuses(goChannel(), logger)
	default:
		return nil, fmt.Errorf("unknown bus driver %q", cfg.BusDriver)
	}

	switch cfg.EventDriver {
	case config.DriverSimple:
		t.EventBus = pkgInfra.NewSimpleEventBus[application.TicketEvent, application.TicketEventData](logger)
	case config.DriverGoChannel:
		t.EventBus = channelAdapter.NewWatermillEventBus[application.TicketEvent, application.TicketEventData](goChannel(), logger)
	case config.DriverKafka:
		publisher, subscriber, err := kafkaAdapter.NewPubSub(kafkaAdapter.Config{
			Brokers:       cfg.Kafka.Brokers,
			ConsumerGroup: cfg.Kafka.ConsumerGroup,
			ClientID:      cfg.AppName,
		}, wmLogger)
		if err != nil {
			return nil, multierr.Append(err, t.Close())
		}
		t.useStream(publisher, subscriber, logger)
	case config.DriverRedis:
		client := redisAdapter.NewRedisClient(redisAdapter.ClientConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		t.closers = append(t.closers, client.Close)
		publisher, subscriber, err := redisAdapter.NewPubSub(client, cfg.Redis.ConsumerGroup, cfg.Redis.Consumer, wmLogger)
		if err != nil {
			return nil, multierr.Append(err, t.Close())
		}
		t.useStream(publisher, subscriber, logger)
	default:
		return nil, multierr.Append(fmt.Errorf("unknown event driver %q", cfg.EventDriver), t.Close())
	}

	return t, nil
}

func (t *Transport) useStream(publisher message.Publisher, subscriber message.Subscriber, logger pkgApp.AppLogger) {
	bus := watermillAdapter.NewStreamEventBus[application.TicketEvent, application.TicketEventData](publisher, subscriber, logger)
	// o subscriber é fechado por bus.Close
	t.closers = append(t.closers, publisher.Close, bus.Close)
	t.EventBus = bus
}

// Err informa falhas de assinatura do barramento de eventos.
// Deve ser consultado depois que os manipuladores foram registrados.
func (t *Transport) Err() error {
	if bus, ok := t.EventBus.(interface{ Err() error }); ok {
		return bus.Err()
	}
	return nil
}

// Close fecha na ordem inversa de criação.
func (t *Transport) Close() error {
	var err error
	for i := len(t.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, t.closers[i]())
	}
	t.closers = nil
	return err
}

func NewSimpleBuses(logger pkgApp.AppLogger) application.Buses {
	return application.Buses{
		Book:              pkgInfra.NewSimpleCommandBus[application.BookTicketCommand, application.BookTicketData, domain.Ticket](logger),
		Cancel:            pkgInfra.NewSimpleCommandBus[application.CancelTicketCommand, application.CancelTicketData, domain.Ticket](logger),
		FindTrains:        pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindTrainsData], application.FindTrainsData, []domain.TrainInfo](logger),
		FindTrain:         pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindTrainData], application.FindTrainData, domain.TrainInfo](logger),
		TrainAvailability: pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.TrainAvailabilityData], application.TrainAvailabilityData, []domain.Availability](logger),
		FindTicket:        pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindTicketData], application.FindTicketData, domain.Ticket](logger),
		ListTickets:       pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListTicketsData], application.ListTicketsData, []domain.Ticket](logger),
	}
}

// NewWatermillBuses publica cada comando e consulta no tópico de mesmo nome antes de executá-lo.
func NewWatermillBuses(publisher message.Publisher, logger pkgApp.AppLogger) application.Buses {
	return application.Buses{
		Book:              channelAdapter.NewWatermillCommandBus[application.BookTicketCommand, application.BookTicketData, domain.Ticket](publisher, logger),
		Cancel:            channelAdapter.NewWatermillCommandBus[application.CancelTicketCommand, application.CancelTicketData, domain.Ticket](publisher, logger),
		FindTrains:        channelAdapter.NewWatermillQueryBus[pkgDomain.Query[application.FindTrainsData], application.FindTrainsData, []domain.TrainInfo](publisher, logger),
		FindTrain:         channelAdapter.NewWatermillQueryBus[pkgDomain.Query[application.FindTrainData], application.FindTrainData, domain.TrainInfo](publisher, logger),
		TrainAvailability: channelAdapter.NewWatermillQueryBus[pkgDomain.Query[application.TrainAvailabilityData], application.TrainAvailabilityData, []domain.Availability](publisher, logger),
		FindTicket:        channelAdapter.NewWatermillQueryBus[pkgDomain.Query[application.FindTicketData], application.FindTicketData, domain.Ticket](publisher, logger),
		ListTickets:       channelAdapter.NewWatermillQueryBus[pkgDomain.Query[application.ListTicketsData], application.ListTicketsData, []domain.Ticket](publisher, logger),
	}
}
