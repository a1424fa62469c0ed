package router

import (
	"context"

	"github.com/oksasatya/go-appointment-scheduler/config"
	app "github.com/oksasatya/go-appointment-scheduler/internal/application"
	"github.com/oksasatya/go-appointment-scheduler/internal/container"
	repo "github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
	mongoinfra "github.com/oksasatya/go-appointment-scheduler/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/go-appointment-scheduler/internal/infrastructure/postgres"
	"github.com/oksasatya/go-appointment-scheduler/internal/infrastructure/redislock"
	handlers "github.com/oksasatya/go-appointment-scheduler/internal/interface/http"
	"github.com/oksasatya/go-appointment-scheduler/internal/router/modules"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
)

type repositories struct {
	Users         repo.UserRepository
	Appointments  repo.AppointmentRepository
	Notifications repo.NotificationRepository
	Files         repo.FileRepository
}

type services struct {
	Appointments *app.AppointmentService
	Providers    *app.ProviderService
	Users        *app.UserService
	Files        *app.FileService
}

func buildRepositories(cfg *config.Config) repositories {
	pool := container.GetPGPool()
	r := repositories{
		Users:         pginfra.NewUserRepository(pool),
		Appointments:  pginfra.NewAppointmentRepository(pool),
		Notifications: pginfra.NewNotificationRepository(pool),
		Files:         pginfra.NewFileRepository(pool),
	}
	if cfg.NotificationStore == "mongo" {
		if db := container.GetMongo(); db != nil {
			n, err := mongoinfra.NewNotificationRepository(context.Background(), db)
			if err != nil {
				container.GetLogger().WithError(err).Warn("mongo notification store unavailable, using postgres")
			} else {
				r.Notifications = n
			}
		}
	}
	return r
}

func buildServices(cfg *config.Config, r repositories) services {
	logger := container.GetLogger()
	fileURL := func(path string) string { return helpers.PublicURL(cfg.GCSBucket, path) }

	// optional collaborators stay untyped nil when their backend is absent
	var locker app.SlotLocker
	if rdb := container.GetRedis(); rdb != nil {
		locker = redislock.New(rdb)
	}
	var pub app.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	var uploader app.ObjectUploader
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		uploader = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}

	notifier := app.NewNotificationEmitter(
		r.Users,
		r.Notifications,
		pub,
		helpers.NewDateFormatter(cfg.NotificationLocale, cfg.NotificationLocation()),
		cfg.NotificationLocale,
		cfg.AppName,
		cfg.MailSendEnabled,
		logger,
	)
	notifier.CompanyName = cfg.MailCompanyName

	providers := app.NewProviderService(r.Users, container.GetRedis(), cfg.ProvidersCacheTTL, container.GetES(), cfg.ESProvidersIndex, fileURL, logger)
	return services{
		Appointments: app.NewAppointmentService(r.Appointments, r.Users, notifier, locker, cfg.SlotLockTTL, fileURL, logger),
		Providers:    providers,
		Users:        app.NewUserService(r.Users, container.GetJWT(), container.GetRedis(), logger),
		Files:        app.NewFileService(r.Files, r.Users, uploader, providers, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	svc := buildServices(cfg, buildRepositories(cfg))

	r.Add(modules.NewSessionModule(handlers.NewUserHandler(svc.Users, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewAppointmentModule(handlers.NewAppointmentHandler(svc.Appointments, logger), jwt))
	r.Add(modules.NewProviderModule(handlers.NewProviderHandler(svc.Providers, logger), jwt))
	r.Add(modules.NewFileModule(handlers.NewFileHandler(svc.Files, logger), jwt))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
