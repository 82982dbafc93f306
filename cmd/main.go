package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coldchain-monitor/internal/config"
	"coldchain-monitor/internal/ingestion"
	"coldchain-monitor/internal/logger"
	"coldchain-monitor/internal/notify"
	"coldchain-monitor/internal/routes"
	"coldchain-monitor/internal/seed"
	"coldchain-monitor/internal/simulator"
	"coldchain-monitor/internal/store"
	"coldchain-monitor/internal/usecase/alert"
	"coldchain-monitor/internal/usecase/dashboard"
	"coldchain-monitor/internal/usecase/device"
	"coldchain-monitor/internal/usecase/shipment"
	"coldchain-monitor/internal/websocket"
	pkgmqtt "coldchain-monitor/pkg/mqtt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("Failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	env := cfg.Server.Environment
	if env == "" {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("environment", env),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg)
	stop()
	if err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("Server exited properly")
}

func run(ctx context.Context, cfg *config.Config) error {
	seedValue := cfg.Simulator.Seed
	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	rng := simulator.NewRand(seedValue)

	st := store.New()
	if cfg.Simulator.SeedFleet {
		if err := seed.Fleet(st, rng, time.Now()); err != nil {
			return err
		}
	}

	broker := notify.NewBroker(cfg.Notify.BufferSize)
	defer broker.Close()

	processor := ingestion.NewProcessor(st, broker)

	background := simulator.New(st, processor, simulator.BackgroundPolicy(), simulator.WithRand(rng))
	continuous := simulator.New(st, processor, simulator.ContinuousPolicy(), simulator.WithRand(rng))
	singleShot := simulator.New(st, processor, simulator.SingleShotPolicy(), simulator.WithRand(rng))
	demo := simulator.NewDemo(continuous, singleShot, broker, cfg.Simulator.DemoInterval)
	defer demo.Stop()

	hub := websocket.NewHub(broker.Subscribe("websocket"), cfg.CORS.AllowedOrigins)

	// External connections are opened before any goroutine starts so a
	// failure here leaves nothing running.
	sinks, err := buildSinks(ctx, cfg)
	if err != nil {
		return err
	}
	mqttClient, err := startMQTT(cfg, processor)
	if err != nil {
		closeSinks(sinks)
		return err
	}

	router := routes.SetupRoutes(ctx, cfg, &routes.Dependencies{
		Broker:    broker,
		Processor: processor,
		Demo:      demo,
		Hub:       hub,
		MQTT:      mqttClient,
		Shipments: shipment.NewService(st, broker),
		Alerts:    alert.NewService(st, broker),
		Devices:   device.NewService(st),
		Dashboard: dashboard.NewService(st),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	for _, sink := range sinks {
		sub := broker.Subscribe(sink.Name())
		g.Go(func() error {
			defer closeSinks([]notify.Sink{sink})
			notify.Forward(gctx, sub, sink)
			return nil
		})
	}

	if cfg.Simulator.Enabled {
		handle := background.Start(gctx, cfg.Simulator.Interval)
		g.Go(func() error {
			<-handle.Done()
			return nil
		})
		logger.Info("Background simulator started", zap.Duration("interval", cfg.Simulator.Interval))
	}

	if mqttClient != nil {
		g.Go(func() error {
			<-gctx.Done()
			mqttClient.Stop()
			return nil
		})
	}

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Server starting",
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown Server ...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		demo.Stop()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// startMQTT connects the telemetry subscriber. It returns nil when MQTT is disabled.
func startMQTT(cfg *config.Config, processor *ingestion.Processor) (*ingestion.MQTTIngestionClient, error) {
	if !cfg.MQTT.Enabled {
		return nil, nil
	}

	client, err := ingestion.NewMQTTIngestionClient(&ingestion.MQTTIngestionConfig{
		ClientConfig: &pkgmqtt.Config{
			Broker:               cfg.MQTT.Broker,
			ClientID:             cfg.MQTT.ClientID,
			Username:             cfg.MQTT.Username,
			Password:             cfg.MQTT.Password,
			CleanSession:         true,
			KeepAlive:            cfg.MQTT.KeepAlive,
			ConnectTimeout:       cfg.MQTT.ConnectTimeout,
			AutoReconnect:        true,
			MaxReconnectInterval: time.Minute,
		},
		TelemetryTopic: cfg.MQTT.TelemetryTopic,
		QoS:            byte(cfg.MQTT.QoS),
	}, processor)
	if err != nil {
		return nil, err
	}
	if err := client.Start(); err != nil {
		return nil, err
	}
	logger.Info("MQTT telemetry subscriber started", zap.String("topic", cfg.MQTT.TelemetryTopic))
	return client, nil
}

func closeSinks(sinks []notify.Sink) {
	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			logger.Warn("Failed to close sink", zap.String("sink", sink.Name()), zap.Error(err))
		}
	}
}

func buildSinks(ctx context.Context, cfg *config.Config) ([]notify.Sink, error) {
	var sinks []notify.Sink
	if cfg.Notify.RedisEnabled {
		redisSink, err := notify.NewRedisSink(ctx, cfg.Notify.RedisAddr, cfg.Notify.RedisPassword, cfg.Notify.RedisDB, cfg.Notify.RedisChannel)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, redisSink)
		logger.Info("Redis event sink enabled", zap.String("channel", cfg.Notify.RedisChannel))
	}
	if cfg.Notify.KafkaEnabled {
		sinks = append(sinks, notify.NewKafkaSink(cfg.Notify.KafkaBrokers, cfg.Notify.KafkaTopic))
		logger.Info("Kafka event sink enabled", zap.String("topic", cfg.Notify.KafkaTopic))
	}
	return sinks, nil
}
