package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cargo/internal/adapters/in/auth"
	httpin "cargo/internal/adapters/in/http"
	"cargo/internal/adapters/in/ws"
	"cargo/internal/adapters/out/fcm"
	"cargo/internal/adapters/out/live"
	"cargo/internal/adapters/out/postgres"
	"cargo/internal/core/application/usecases/commands"
	"cargo/internal/core/application/usecases/queries"
	"cargo/internal/core/ports"
	"cargo/internal/jobs"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	registry *live.Registry
	redis    *redis.Client
	relay    *live.RedisRelay
	notifier ports.LiveNotifier
	fanOut   *commands.FanOut
	tokens   *auth.Tokens
}

func NewCompositionRoot(ctx context.Context, config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		registry:   live.NewRegistry(logger, config.LiveSendBuffer),
		tokens:     auth.NewTokens(config.JWTSecret),
	}

	c.notifier = c.registry
	if config.RedisAddr != "" {
		c.redis = live.NewRedisClient(config.RedisAddr)
		c.relay = live.NewRedisRelay(c.redis, c.registry, logger, live.RelayOptions{
			Channel:        config.RedisChannel,
			QueueSize:      config.RelayQueueSize,
			PublishTimeout: config.RelayPublishTimeout,
		})
		c.notifier = c.relay
	}

	var push ports.PushNotifier
	if config.PushEnabled {
		notifier, err := fcm.New(ctx, config.FirebaseProjectID, config.FirebaseCredentialsFile, logger)
		if err != nil {
			return nil, fmt.Errorf("push notifications: %w", err)
		}
		push = notifier
	}

	c.fanOut = commands.NewFanOut(c.notifier, push, logger, config.PushTimeout)
	return c, nil
}

// Start connects the live relay, if one is configured.
func (c *CompositionRoot) Start(ctx context.Context) error {
	if c.relay == nil {
		return nil
	}
	if err := c.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", c.config.RedisAddr, err)
	}
	return c.relay.Start(ctx)
}

// Close stops the relay and waits for in-flight push notifications.
func (c *CompositionRoot) Close() error {
	c.fanOut.Wait()
	if c.relay == nil {
		return nil
	}
	err := c.relay.Stop()
	if closeErr := c.redis.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateUpdatePushTokenCommandHandler() commands.UpdatePushTokenCommandHandler {
	return commands.NewUpdatePushTokenCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateTakeOrderCommandHandler() commands.TakeOrderCommandHandler {
	return commands.NewTakeOrderCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateRejectDriverCommandHandler() commands.RejectDriverCommandHandler {
	return commands.NewRejectDriverCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateDepartOrderCommandHandler() commands.DepartOrderCommandHandler {
	return commands.NewDepartOrderCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateWithdrawOrderCommandHandler() commands.WithdrawOrderCommandHandler {
	return commands.NewWithdrawOrderCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateUpdateOrderGeoCommandHandler() commands.UpdateOrderGeoCommandHandler {
	return commands.NewUpdateOrderGeoCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateApproveDriverCommandHandler() commands.ApprovePersonCommandHandler {
	return commands.NewApproveDriverCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateApproveCompanyManagerCommandHandler() commands.ApprovePersonCommandHandler {
	return commands.NewApproveCompanyManagerCommandHandler(c.uow(), c.fanOut)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListManagerOrdersQueryHandler() queries.ListManagerOrdersQueryHandler {
	return queries.NewListManagerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAvailableOrdersQueryHandler() queries.ListAvailableOrdersQueryHandler {
	return queries.NewListAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverCurrentOrderQueryHandler() queries.GetDriverCurrentOrderQueryHandler {
	return queries.NewGetDriverCurrentOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActorQueryHandler() queries.GetActorQueryHandler {
	return queries.NewGetActorQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateAuthenticator() *auth.Authenticator {
	return auth.NewAuthenticator(c.tokens, c.CreateGetActorQueryHandler())
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	handlers := httpin.Handlers{
		RegisterUser:          c.CreateRegisterUserCommandHandler(),
		UpdatePushToken:       c.CreateUpdatePushTokenCommandHandler(),
		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		TakeOrder:             c.CreateTakeOrderCommandHandler(),
		ConfirmOrder:          c.CreateConfirmOrderCommandHandler(),
		RejectDriver:          c.CreateRejectDriverCommandHandler(),
		CancelOrder:           c.CreateCancelOrderCommandHandler(),
		DepartOrder:           c.CreateDepartOrderCommandHandler(),
		CompleteOrder:         c.CreateCompleteOrderCommandHandler(),
		WithdrawOrder:         c.CreateWithdrawOrderCommandHandler(),
		UpdateOrderGeo:        c.CreateUpdateOrderGeoCommandHandler(),
		ApproveDriver:         c.CreateApproveDriverCommandHandler(),
		ApproveCompanyManager: c.CreateApproveCompanyManagerCommandHandler(),
		GetOrder:              c.CreateGetOrderQueryHandler(),
		ListManagerOrders:     c.CreateListManagerOrdersQueryHandler(),
		ListAvailable:         c.CreateListAvailableOrdersQueryHandler(),
		GetDriverCurrent:      c.CreateGetDriverCurrentOrderQueryHandler(),
	}
	return httpin.NewServer(handlers, c.CreateAuthenticator(), c.logger)
}

func (c *CompositionRoot) CreateWSHandler() *ws.Handler {
	return ws.NewHandler(c.registry, c.CreateAuthenticator(), c.CreateGetOrderQueryHandler(), c.logger, ws.Options{
		AuthTimeout: c.config.LiveAuthTimeout,
		PongWait:    c.config.LivePongWait,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.registry, jobs.KeepaliveConfig{
		Schedule:    c.config.KeepaliveSchedule,
		PingTimeout: c.config.KeepalivePingLimit,
	}, c.logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
