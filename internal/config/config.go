package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Drivers dos barramentos.
const (
	DriverSimple    = "simple"
	DriverGoChannel = "gochannel"
	DriverKafka     = "kafka"
	DriverRedis     = "redis"
)

// Config contém a configuração da aplicação.
type Config struct {
	AppName         string
	HTTPAddr        string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	PNRBase              int64
	BookingHorizonMonths int

	// BusDriver vale para comandos e consultas; EventDriver só para eventos.
	BusDriver   string
	EventDriver string

	Kafka    KafkaConfig
	Redis    RedisConfig
	SeedUser SeedUserConfig

	// variáveis numéricas que não puderam ser lidas
	parseErrs []error
}

type KafkaConfig struct {
	Brokers       []string
	ConsumerGroup string
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	ConsumerGroup string
	Consumer      string
}

// SeedUserConfig é a conta criada na inicialização; Username vazio desativa.
type SeedUserConfig struct {
	Username string
	Secret   string
	Mobile   string
}

// Load lê o ambiente, completado por um .env opcional no diretório atual.
func Load() *Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv lê apenas as variáveis de ambiente já definidas.
func FromEnv() *Config {
	env := &envReader{}
	cfg := &Config{
		AppName:         getEnv("APP_NAME", "railticket"),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RequestTimeout:  time.Duration(env.getInt("REQUEST_TIMEOUT_SEC", 10)) * time.Second,
		ShutdownTimeout: time.Duration(env.getInt("SHUTDOWN_TIMEOUT_SEC", 5)) * time.Second,

		PNRBase:              int64(env.getInt("PNR_BASE", 100000)),
		BookingHorizonMonths: env.getInt("BOOKING_HORIZON_MONTHS", 2),

		BusDriver:   strings.ToLower(getEnv("BUS_DRIVER", DriverSimple)),
		EventDriver: strings.ToLower(getEnv("EVENT_DRIVER", DriverSimple)),

		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "railticket"),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "localhost:6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            env.getInt("REDIS_DB", 0),
			ConsumerGroup: getEnv("REDIS_CONSUMER_GROUP", "railticket"),
			Consumer:      getEnv("REDIS_CONSUMER", "railticket-1"),
		},
		SeedUser: SeedUserConfig{
			Username: getEnv("SEED_USER", "admin"),
			Secret:   getEnv("SEED_USER_SECRET", "Admin@123"),
			Mobile:   getEnv("SEED_USER_MOBILE", "9876500002"),
		},
	}
	cfg.parseErrs = env.errs
	return cfg
}

// Validate acumula todos os problemas encontrados.
func (c *Config) Validate() error {
	errs := append([]error(nil), c.parseErrs...)
	switch c.BusDriver {
	case DriverSimple, DriverGoChannel:
	default:
		errs = append(errs, fmt.Errorf("BUS_DRIVER %q: want %s or %s", c.BusDriver, DriverSimple, DriverGoChannel))
	}
	switch c.EventDriver {
	case DriverSimple, DriverGoChannel, DriverRedis:
	case DriverKafka:
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("EVENT_DRIVER kafka requires KAFKA_BROKERS"))
		}
	default:
		errs = append(errs, fmt.Errorf("EVENT_DRIVER %q: want simple, gochannel, kafka or redis", c.EventDriver))
	}
	if c.PNRBase <= 0 {
		errs = append(errs, fmt.Errorf("PNR_BASE must be positive, got %d", c.PNRBase))
	}
	if c.BookingHorizonMonths <= 0 {
		errs = append(errs, fmt.Errorf("BOOKING_HORIZON_MONTHS must be positive, got %d", c.BookingHorizonMonths))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT_SEC must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// envReader lê variáveis numéricas e guarda as que não são inteiros.
type envReader struct {
	errs []error
}

func (r *envReader) getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s %q: not an integer", key, value))
		return defaultValue
	}
	return intValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
