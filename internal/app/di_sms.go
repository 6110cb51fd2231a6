package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/allisson/sms-relay/internal/http"
	"github.com/allisson/sms-relay/internal/metrics"
	smsHTTP "github.com/allisson/sms-relay/internal/sms/http"
	smsRepository "github.com/allisson/sms-relay/internal/sms/repository"
	smsService "github.com/allisson/sms-relay/internal/sms/service"
	smsUseCase "github.com/allisson/sms-relay/internal/sms/usecase"
)

// GatewayService returns the PSWin-backed gateway service.
func (c *Container) GatewayService() *smsService.GatewayService {
	c.gatewayServiceInit.Do(func() {
		c.gatewayService = c.initGatewayService()
	})
	return c.gatewayService
}

// ReferenceRepository returns the gateway reference store selected by
// REFERENCE_STORE_DRIVER.
func (c *Container) ReferenceRepository() (smsUseCase.ReferenceRepository, error) {
	var err error
	c.referenceRepositoryInit.Do(func() {
		c.referenceRepository, err = c.initReferenceRepository()
		if err != nil {
			c.initErrors["referenceRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["referenceRepository"]; exists {
		return nil, storedErr
	}
	return c.referenceRepository, nil
}

// ReferencePurger returns the reference store as a purger. Only the SQL stores
// keep rows forever, so other drivers are rejected.
func (c *Container) ReferencePurger() (smsUseCase.ReferencePurger, error) {
	repo, err := c.ReferenceRepository()
	if err != nil {
		return nil, err
	}
	purger, ok := repo.(smsUseCase.ReferencePurger)
	if !ok {
		return nil, fmt.Errorf(
			"reference store driver %q expires entries with REFERENCE_TTL and cannot be purged",
			c.config.ReferenceStoreDriver,
		)
	}
	return purger, nil
}

// SendingUseCase returns the sending use case.
func (c *Container) SendingUseCase() (smsUseCase.SendingUseCase, error) {
	var err error
	c.sendingUseCaseInit.Do(func() {
		c.sendingUseCase, err = c.initSendingUseCase()
		if err != nil {
			c.initErrors["sendingUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sendingUseCase"]; exists {
		return nil, storedErr
	}
	return c.sendingUseCase, nil
}

// StatusUseCase returns the delivery status use case.
func (c *Container) StatusUseCase() (smsUseCase.StatusUseCase, error) {
	var err error
	c.statusUseCaseInit.Do(func() {
		c.statusUseCase, err = c.initStatusUseCase()
		if err != nil {
			c.initErrors["statusUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["statusUseCase"]; exists {
		return nil, storedErr
	}
	return c.statusUseCase, nil
}

// DeliveryReportHandler returns the HTTP handler for gateway delivery reports.
func (c *Container) DeliveryReportHandler() (*smsHTTP.DeliveryReportHandler, error) {
	var err error
	c.deliveryReportHandlerInit.Do(func() {
		var statusUseCase smsUseCase.StatusUseCase
		statusUseCase, err = c.StatusUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get status use case: %w", err)
			c.initErrors["deliveryReportHandler"] = err
			return
		}
		c.deliveryReportHandler = smsHTTP.NewDeliveryReportHandler(statusUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deliveryReportHandler"]; exists {
		return nil, storedErr
	}
	return c.deliveryReportHandler, nil
}

// SendingHandler returns the HTTP handler for instant messages and one-time passwords.
func (c *Container) SendingHandler() (*smsHTTP.SendingHandler, error) {
	var err error
	c.sendingHandlerInit.Do(func() {
		var sendingUseCase smsUseCase.SendingUseCase
		sendingUseCase, err = c.SendingUseCase()
		if err != nil {
			err = fmt.Errorf("failed to get sending use case: %w", err)
			c.initErrors["sendingHandler"] = err
			return
		}
		c.sendingHandler = smsHTTP.NewSendingHandler(sendingUseCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sendingHandler"]; exists {
		return nil, storedErr
	}
	return c.sendingHandler, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the server exposing /metrics.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		var provider *metrics.Provider
		provider, err = c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

func (c *Container) initGatewayService() *smsService.GatewayService {
	client := smsService.NewPSWinClient(smsService.PSWinConfig{
		Endpoint: c.config.SmsGatewayEndpoint,
		Username: c.config.SmsGatewayUsername,
		Password: c.config.SmsGatewayPassword,
		Timeout:  c.config.SmsGatewayTimeout,
	})

	var limiter *rate.Limiter
	if c.config.SmsGatewayRateLimitPerSec > 0 {
		burst := max(c.config.SmsGatewayRateLimitBurst, 1)
		limiter = rate.NewLimiter(rate.Limit(c.config.SmsGatewayRateLimitPerSec), burst)
	}

	return smsService.NewGatewayService(client, limiter, c.Logger())
}

func (c *Container) initReferenceRepository() (smsUseCase.ReferenceRepository, error) {
	switch c.config.ReferenceStoreDriver {
	case "memory":
		return smsRepository.NewMemoryReferenceRepository(c.config.ReferenceTTL), nil
	case "redis":
		return smsRepository.NewRedisReferenceRepository(c.RedisClient(), c.config.ReferenceTTL), nil
	case "postgres", "mysql":
		if c.config.DBDriver != c.config.ReferenceStoreDriver {
			return nil, fmt.Errorf(
				"reference store driver %q does not match database driver %q",
				c.config.ReferenceStoreDriver,
				c.config.DBDriver,
			)
		}
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for reference repository: %w", err)
		}
		if c.config.ReferenceStoreDriver == "mysql" {
			return smsRepository.NewMySQLReferenceRepository(db), nil
		}
		return smsRepository.NewPostgreSQLReferenceRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported reference store driver: %s", c.config.ReferenceStoreDriver)
	}
}

func (c *Container) initSendingUseCase() (smsUseCase.SendingUseCase, error) {
	producer, err := c.Producer()
	if err != nil {
		return nil, fmt.Errorf("failed to get producer for sending use case: %w", err)
	}

	references, err := c.ReferenceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get reference repository for sending use case: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := smsUseCase.NewSendingUseCase(
		c.GatewayService(),
		producer,
		c.config.KafkaSmsStatusUpdatedTopic,
		references,
		c.Logger(),
		bm,
	)
	if c.config.MetricsEnabled {
		useCase = smsUseCase.NewSendingUseCaseWithMetrics(useCase, bm)
	}
	return useCase, nil
}

func (c *Container) initStatusUseCase() (smsUseCase.StatusUseCase, error) {
	producer, err := c.Producer()
	if err != nil {
		return nil, fmt.Errorf("failed to get producer for status use case: %w", err)
	}

	references, err := c.ReferenceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get reference repository for status use case: %w", err)
	}

	bm, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := smsUseCase.NewStatusUseCase(
		producer,
		c.config.KafkaSmsStatusUpdatedTopic,
		references,
		c.Logger(),
		bm,
	)
	if c.config.MetricsEnabled {
		useCase = smsUseCase.NewStatusUseCaseWithMetrics(useCase, bm)
	}
	return useCase, nil
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	deliveryReportHandler, err := c.DeliveryReportHandler()
	if err != nil {
		return nil, err
	}

	sendingHandler, err := c.SendingHandler()
	if err != nil {
		return nil, err
	}

	checks, err := c.readinessChecks()
	if err != nil {
		return nil, err
	}

	routerCfg := http.RouterConfig{
		DeliveryReportHandler:  deliveryReportHandler,
		SendingHandler:         sendingHandler,
		DeliveryReportUsername: c.config.DeliveryReportUsername,
		DeliveryReportPassword: c.config.DeliveryReportPassword,
		CORSEnabled:            c.config.CORSEnabled,
		CORSAllowOrigins:       c.config.CORSAllowOrigins,
		MetricsNamespace:       c.config.MetricsNamespace,
	}
	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		routerCfg.MeterProvider = provider.MeterProvider()
	}

	gin.SetMode(c.config.GetGinMode())

	server := http.NewServer(checks, c.config.ServerHost, c.config.ServerPort, c.Logger())
	server.SetupRouter(routerCfg)
	return server, nil
}

// readinessChecks covers the broker and whichever reference store is configured.
func (c *Container) readinessChecks() ([]http.ReadinessCheck, error) {
	if _, err := c.Producer(); err != nil {
		return nil, err
	}
	producerClient := c.producerClient

	checks := []http.ReadinessCheck{
		{Name: "kafka", Check: func(ctx context.Context) error { return producerClient.Ping(ctx) }},
	}

	switch c.config.ReferenceStoreDriver {
	case "redis":
		redisClient := c.RedisClient()
		checks = append(checks, http.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	case "postgres", "mysql":
		db, err := c.DB()
		if err != nil {
			return nil, err
		}
		checks = append(checks, http.ReadinessCheck{Name: "database", Check: db.PingContext})
	}
	return checks, nil
}
