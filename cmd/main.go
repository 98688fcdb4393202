package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mateusmacedo/go-railticket/internal/config"
	"github.com/mateusmacedo/go-railticket/internal/railticket"
	"github.com/mateusmacedo/go-railticket/internal/railticket/domain"
	"github.com/mateusmacedo/go-railticket/internal/railticket/infrastructure"
	pkgInfra "github.com/mateusmacedo/go-railticket/pkg/infrastructure"
	zapAdapter "github.com/mateusmacedo/go-railticket/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	appLogger, err := zapAdapter.NewZapAppLogger(cfg.AppName, cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	if err := cfg.Validate(); err != nil {
		appLogger.Error(ctx, "Configuração inválida", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	catalog, err := infrastructure.SeedTrains()
	if err != nil {
		appLogger.Error(ctx, "Erro ao montar o catálogo de trens", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	users := infrastructure.NewInMemoryUserRepository(appLogger)
	if cfg.SeedUser.Username != "" {
		seed, err := domain.NewUser(cfg.SeedUser.Username, cfg.SeedUser.Secret, cfg.SeedUser.Mobile)
		if err == nil {
			err = users.Register(ctx, seed)
		}
		if err != nil {
			appLogger.Error(ctx, "Erro ao registrar usuário inicial", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}

	transport, err := railticket.NewTransport(cfg, appLogger)
	if err != nil {
		appLogger.Error(ctx, "Erro ao inicializar os barramentos", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := infrastructure.NewMetrics(registry)
	if err != nil {
		appLogger.Error(ctx, "Erro ao registrar métricas", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	slice := railticket.NewRailTicketSlice(transport.Buses, transport.EventBus, railticket.Options{
		Catalog:        catalog,
		Users:          users,
		Factory:        domain.NewTicketFactory(domain.PNR(cfg.PNRBase), nil),
		HorizonMonths:  cfg.BookingHorizonMonths,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        metrics,
	}, appLogger)
	if err := transport.Err(); err != nil {
		appLogger.Error(ctx, "Erro ao assinar eventos", map[string]interface{}{"error": err.Error()})
		_ = transport.Close()
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(infrastructure.RequestID(pkgInfra.GenerateUUID))
	router.Method(http.MethodGet, "/metrics", infrastructure.MetricsHandler(registry))
	slice.RegisterRoutes(router)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLogger.Info(ctx, "Sinal capturado", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		appLogger.Info(ctx, "Server starting on:"+cfg.HTTPAddr, map[string]interface{}{
			"bus_driver":   cfg.BusDriver,
			"event_driver": cfg.EventDriver,
			"trains":       len(catalog.ListAll()),
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(ctx, "Erro ao iniciar o servidor", map[string]interface{}{
				"error": err.Error(),
			})
			cancel()
		}
	}()

	<-ctx.Done()
	appLogger.Info(context.Background(), "Encerrando servidor...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(context.Background(), "Erro ao encerrar servidor", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := transport.Close(); err != nil {
		appLogger.Error(context.Background(), "Erro ao fechar os barramentos", map[string]interface{}{
			"error": err.Error(),
		})
	}

	appLogger.Info(context.Background(), "Servidor encerrado", nil)
}
