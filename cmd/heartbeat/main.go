package main

import (
	"context"
	"errors"
	"net"
	nethttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"go-heartbeat/configs"
	"go-heartbeat/internal/application/controller"
	"go-heartbeat/internal/application/middleware"
	"go-heartbeat/internal/application/processor"
	"go-heartbeat/internal/application/schedule"
	"go-heartbeat/internal/domain/gateway/broker"
	"go-heartbeat/internal/domain/gateway/queue"
	"go-heartbeat/internal/domain/usecase/consumeraudit"
	"go-heartbeat/internal/domain/usecase/health"
	"go-heartbeat/internal/domain/usecase/heartbeat"
	"go-heartbeat/internal/domain/usecase/hostprobe"
	"go-heartbeat/internal/domain/usecase/projection"
	"go-heartbeat/internal/domain/usecase/status"
	"go-heartbeat/internal/infra/bus"
	"go-heartbeat/internal/infra/metrics"
	"go-heartbeat/internal/infra/rabbitmq"
	"go-heartbeat/internal/infra/storage"
	"go-heartbeat/internal/infra/targets"
	"go-heartbeat/pkg/http"
	"go-heartbeat/pkg/log"
	"go-heartbeat/pkg/msg"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := configs.Load()
	if err != nil {
		log.Error(msg.GetMessage("app.config-invalid", err), zap.Error(err))
		os.Exit(2)
	}
	log.Init(config.ApplicationName, config.LogLevel)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info(msg.GetMessage("app.start", config.Mode))

	switch config.Mode {
	case configs.ModePublisher:
		err = runPublisher(ctx, config)
	case configs.ModeSubscriber:
		err = runSubscriber(ctx, config)
	}

	if err != nil {
		log.Error(err.Error(), zap.String("mode", config.Mode), zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
	log.Info(msg.GetMessage("app.stopped", config.Mode))
}

func runPublisher(ctx context.Context, config *configs.EnvConfig) error {
	hbTargets, err := targets.Load(config.Publisher.TargetsPath)
	if err != nil {
		return err
	}
	log.Info(msg.GetMessage("publisher.targets-loaded", len(hbTargets.Hosts), len(hbTargets.Queues)))

	messageBus, err := bus.NewPublisherBus(ctx, config)
	if err != nil {
		return err
	}
	defer closeQuietly("bus", messageBus.Close)

	clientOptions := http.ClientOptions{
		BasicAuth:         &http.BasicAuth{Username: config.RabbitMQ.User, Password: config.RabbitMQ.Password},
		ConnectionTimeout: config.Publisher.ManagementTimeout,
		ReadTimeout:       config.Publisher.ManagementTimeout,
		Logger:            log.NewHTTPLogger(),
	}
	if config.RabbitMQ.TLS {
		if clientOptions.TLSConfig, err = rabbitmq.TLSConfig(config.RabbitMQ.CACertPath); err != nil {
			return err
		}
	}
	consumerGateway := broker.NewManagementGateway(config.RabbitMQ.ManagementURL(), config.RabbitMQ.VHost, clientOptions)

	hostProbeUseCase := hostprobe.NewHostProbeUseCase(&net.Dialer{}, config.Publisher.ProbeTimeout, time.Now)
	consumerAuditUseCase := consumeraudit.NewConsumerAuditUseCase(consumerGateway, nil, time.Now)
	heartbeatUseCase := heartbeat.NewHeartbeatUseCase(config.RabbitMQ.EffectiveRoutingKey(), hostProbeUseCase, consumerAuditUseCase, messageBus.Sender)

	appMetrics := metrics.New()
	e := newServer()
	controller.NewMetricsController(e, appMetrics.Handler()).InitMetricsRoutes()
	serverErr := startServer(e, config.Server.Port)
	defer stopServer(e)

	heartbeatScheduler := schedule.NewHeartbeatScheduler(heartbeatUseCase, hbTargets, appMetrics, schedule.HeartbeatSchedulerConfig{
		Interval:    config.Publisher.Interval,
		FailFast:    config.Publisher.FailFast,
		StopTimeout: time.Minute,
		Destination: config.BusDriver,
	})

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() {
		select {
		case err := <-serverErr:
			log.Errorf("Metrics server stopped: %v", err)
			cancelRun()
		case <-runCtx.Done():
		}
	}()
	return heartbeatScheduler.Run(runCtx)
}

func runSubscriber(ctx context.Context, config *configs.EnvConfig) error {
	store, err := storage.Open(ctx, config)
	if err != nil {
		return err
	}
	defer closeQuietly("store", store.Close)

	messageBus, err := bus.NewSubscriberBus(ctx, config)
	if err != nil {
		return err
	}
	defer closeQuietly("bus", messageBus.Close)

	appMetrics := metrics.New()
	queueGateway := queue.NewQueueHealthGateway()
	queueGateway.RegisterListener(config.BusDriver, messageBus.Listener)

	heartbeatProcessor := processor.NewHeartbeatProcessor(projection.NewProjectionUseCase(store.Store), appMetrics)

	listenCtx, cancelListen := context.WithCancel(ctx)
	defer cancelListen()
	listenErr := make(chan error, 1)
	source := config.RabbitMQ.EffectiveRoutingKey()
	if config.BusDriver == configs.BusAMQP {
		source = config.RabbitMQ.Queue
	}
	go func() {
		log.Info(msg.GetMessage("subscriber.waiting", source))
		listenErr <- messageBus.Listener.Listen(listenCtx, heartbeatProcessor.HandleMessage)
	}()

	e := newServer()
	api := e.Group(strings.TrimSuffix(config.Server.ContextPath, "/"))

	thresholds := config.Heartbeat
	statusUseCase := status.NewStatusUseCase(store.Store,
		time.Duration(thresholds.OkAfterFailedMinutes)*time.Minute,
		time.Duration(thresholds.NotOkAfterOkMinutes)*time.Minute)

	controller.NewHeartbeatController(api, statusUseCase).InitHeartbeatRoutes()
	controller.NewHealthController(api, health.NewHealthUseCase(store.Store, queueGateway)).InitHealthRoutes()
	controller.NewMetricsController(e, appMetrics.Handler()).InitMetricsRoutes()

	serverErr := startServer(e, config.Server.Port)
	defer stopServer(e)

	var runErr error
	listening := true
	select {
	case <-ctx.Done():
	case runErr = <-listenErr:
		listening = false
	case runErr = <-serverErr:
	}

	cancelListen()
	if listening {
		select {
		case <-listenErr:
		case <-time.After(shutdownTimeout):
			log.Warn("Listener did not stop in time")
		}
	}
	return runErr
}

func newServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.SetupRequestLogger(e)
	return e
}

func startServer(e *echo.Echo, port string) <-chan error {
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on :%s", port)
		if err := e.Start(":" + port); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			serverErr <- err
		}
	}()
	return serverErr
}

func stopServer(e *echo.Echo) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Errorf("Failed to stop HTTP server: %v", err)
	}
}

func closeQuietly(name string, closer func() error) {
	if err := closer(); err != nil {
		log.Warnf("Failed to close %s: %v", name, err)
	}
}
