package router

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Maniblazestarboy/api-linkado/internal/application"
	"github.com/Maniblazestarboy/api-linkado/internal/container"
	"github.com/Maniblazestarboy/api-linkado/internal/infrastructure/postgres"
	"github.com/Maniblazestarboy/api-linkado/internal/infrastructure/search"
	"github.com/Maniblazestarboy/api-linkado/internal/infrastructure/storage"
	handlers "github.com/Maniblazestarboy/api-linkado/internal/interface/http"
	"github.com/Maniblazestarboy/api-linkado/internal/router/modules"
	"github.com/Maniblazestarboy/api-linkado/pkg/helpers"
)

type Deps struct {
	Auth        *application.AuthService
	Submissions *application.SubmissionService
	Publisher   application.Publisher
}

// BuildDeps wires services from the container singletons. Optional backends
// are only assigned when configured so the services see nil interfaces.
func BuildDeps() (Deps, error) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	auth := application.NewAuthService(
		postgres.NewUserRepository(container.GetPGPool()),
		helpers.NewBcryptHasher(cfg.PasswordCost),
		container.GetJWT(),
		logger,
	)

	files, err := buildFileStore()
	if err != nil {
		return Deps{}, err
	}

	var (
		index application.SubmissionIndex
		rdb   redis.Cmdable
		pub   application.Publisher
	)
	if es := container.GetES(); es != nil {
		index = search.NewSubmissionIndex(es, cfg.ESSubmissionsIndex)
	}
	if c := container.GetRedis(); c != nil {
		rdb = c
	}
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	subs := application.NewSubmissionService(
		postgres.NewSubmissionRepository(container.GetPGPool()),
		files, index, rdb, pub, logger,
		application.SubmissionConfig{
			NotifyEmail: cfg.NotifyEmail,
			AdminURL:    cfg.AdminURL,
			CacheTTL:    cfg.SubmissionsCacheTTL,
		},
	)

	return Deps{Auth: auth, Submissions: subs, Publisher: pub}, nil
}

func buildFileStore() (application.FileStore, error) {
	cfg := container.GetConfig()
	switch cfg.FileStore {
	case "gcs":
		if container.GetGCS() == nil || cfg.GCSBucket == "" {
			return nil, fmt.Errorf("FILE_STORE=gcs requires GCS_BUCKET and a GCS client")
		}
		return storage.NewGCS(container.GetGCS(), cfg.GCSBucket), nil
	case "local", "":
		return storage.NewLocal(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown FILE_STORE %q", cfg.FileStore)
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) error {
	deps, err := BuildDeps()
	if err != nil {
		return err
	}
	cfg := container.GetConfig()
	logger := container.GetLogger()
	cookies := container.GetCookies()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(deps.Auth, cookies, logger), deps.Auth, logger))
	r.Add(modules.NewSubmissionModule(handlers.NewSubmissionHandler(deps.Submissions, logger), deps.Auth, logger))
	r.Add(modules.NewEmailModule(handlers.NewEmailHandler(deps.Publisher, logger, cfg.NotifyEmail, cfg.MailSendEnabled), deps.Auth, logger))
	r.Add(modules.NewDebugModule(deps.Auth, logger))

	uploads := ""
	if cfg.FileStore == "local" || cfg.FileStore == "" {
		uploads = cfg.UploadDir
	}
	r.AddRoot(modules.NewSiteModule(handlers.NewAdminHandler(cfg.AdminDir, cfg.PublicDir, cookies), deps.Auth, cfg.UploadURLPrefix, uploads))
	return nil
}
