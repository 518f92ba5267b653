package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/config"
	"github.com/oksasatya/student-manager/internal/application"
	"github.com/oksasatya/student-manager/internal/domain/repository"
	"github.com/oksasatya/student-manager/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/student-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/student-manager/pkg/helpers"
)

// Infra holds the connections main opened. Nil members are features that
// stay off: no Redis means no rate limit and no revocation list, no
// publisher means no notification emails.
type Infra struct {
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	Publisher *helpers.RabbitPublisher
}

// Container is the application graph, built once in main and handed to the
// router. Nothing here is global.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Infra  Infra

	UOW     repository.UnitOfWork
	JWT     *helpers.JWTManager
	Cookies *helpers.CookieManager

	Credentials *application.CredentialStore
	Profiles    *application.ProfileStore
	Coordinator *application.Coordinator

	Notifications *application.Notifications
	Auth          *application.AuthService
	Accounts      *application.AccountService
	Admin         *application.AdminService
}

// New wires the stores and services. With DB_DRIVER=memory, or without a
// pool, everything runs on the in-memory store.
func New(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	c := &Container{Cfg: cfg, Logger: logger, Infra: infra}

	if cfg.DBDriver == "postgres" && infra.Pool != nil {
		c.UOW = pginfra.NewUnitOfWork(infra.Pool)
	} else {
		c.UOW = memory.New()
	}

	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	c.Cookies = helpers.NewCookie(cfg.CookieName, cfg.CookieDomain, cfg.CookieSecure, cfg.SameSite())

	c.Credentials = application.NewCredentialStore(c.UOW.Identities())
	c.Profiles = application.NewProfileStore(c.UOW.Profiles())
	c.Coordinator = application.NewCoordinator(c.UOW, c.Credentials, c.Profiles, logger)

	c.Notifications = &application.Notifications{Cfg: cfg, Logger: logger}
	if infra.Publisher != nil {
		c.Notifications.Notifier = infra.Publisher
	}

	c.Auth = application.NewAuthService(c.Credentials, c.Coordinator, c.JWT, nil, cfg.AdminSignupCode, c.Notifications, logger)
	if cfg.SessionRevocation && infra.Redis != nil {
		c.Auth.Revocations = helpers.NewRevocationList(infra.Redis, cfg.AppName)
	}
	c.Accounts = application.NewAccountService(c.Credentials, c.Profiles, c.Coordinator, c.Notifications, logger)
	c.Admin = application.NewAdminService(c.Credentials, c.Profiles, c.Coordinator, c.Notifications, logger)
	return c
}

// RateLimitStore is the Redis used by route limiters, or nil when rate
// limiting is off.
func (c *Container) RateLimitStore() redis.Cmdable {
	if !c.Cfg.RateLimitEnabled || c.Infra.Redis == nil {
		return nil
	}
	return c.Infra.Redis
}
