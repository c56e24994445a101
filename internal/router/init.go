package router

import (
	"github.com/ngocweb/membership-api/internal/application"
	"github.com/ngocweb/membership-api/internal/container"
	pginfra "github.com/ngocweb/membership-api/internal/infrastructure/postgres"
	handlers "github.com/ngocweb/membership-api/internal/interface/http"
	"github.com/ngocweb/membership-api/internal/router/modules"
	"github.com/ngocweb/membership-api/pkg/helpers"
)

// InitModules builds the services from container singletons and registers
// every feature module. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	sessions := pginfra.NewSessionRepository(pool)
	attachments := pginfra.NewAttachmentRepository(pool)
	admin := pginfra.NewAdminRepository(pool)

	index := application.NewUserIndex(container.GetES(), cfg.ESUsersIndex, logger)
	cookies := helpers.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure)

	// A typed-nil publisher must not become a non-nil EmailQueue.
	var queue application.EmailQueue
	if pub := container.GetRabbitPub(); pub != nil {
		queue = pub
	}

	authSvc := &application.AuthService{
		Users:          users,
		Sessions:       sessions,
		Queue:          queue,
		Index:          index,
		Logger:         logger,
		VerifyTokenTTL: cfg.VerifyTokenTTL,
		VerifyEmailURL: cfg.VerifyEmailURL,
		SessionTTL:     cfg.SessionTTL,
		MailEnabled:    cfg.MailSendEnabled,
	}
	adminSvc := &application.AdminService{
		Admin:      admin,
		Sessions:   sessions,
		Index:      index,
		Logger:     logger,
		SessionTTL: cfg.SessionTTL,
	}
	contentSvc := &application.ContentService{
		Attachments:  attachments,
		Sessions:     sessions,
		Signer:       &helpers.GCSSigner{Client: container.GetGCS()},
		Logger:       logger,
		Bucket:       cfg.GCSBucket,
		SignedURLTTL: cfg.SignedURLTTL,
	}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger, cfg)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(authSvc, logger, cookies, cfg.DebugErrors)))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(adminSvc, logger, cookies, cfg.DebugErrors)))
	r.Add(modules.NewContentModule(handlers.NewAttachmentHandler(contentSvc, logger, cfg.DebugErrors)))
}
