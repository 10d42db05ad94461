package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/accounts"
	googleauth "resume-matcher/internal/auth"
	"resume-matcher/internal/colleges"
	"resume-matcher/internal/extract"
	"resume-matcher/internal/profiles"
	"resume-matcher/internal/resumes"
	"resume-matcher/internal/shared/auth"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/server"
	"resume-matcher/internal/shared/storage/db"
	"resume-matcher/internal/shared/storage/object"
	localstore "resume-matcher/internal/shared/storage/object/local"
	s3store "resume-matcher/internal/shared/storage/object/s3"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config  config.Config
	Router  *gin.Engine
	DB      *sql.DB
	Store   object.ObjectStore
	Signer  *auth.Signer
	Revoker auth.Revoker

	AccountsRepo accounts.Repo
	CollegesRepo colleges.Repo
	ProfilesRepo profiles.Repo
	ResumesRepo  resumes.Repo

	AccountsService *accounts.Service
	CollegesService *colleges.Service
	ProfilesService *profiles.Service
	ResumesService  *resumes.Service

	AccountHandler *accounts.Handler
	CollegeHandler *colleges.Handler
	ProfileHandler *profiles.Handler
	ResumeHandler  *resumes.Handler
	GoogleAuth     *googleauth.GoogleService
}

// Build prepares dependencies, registers lifecycle hooks and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.ResumeNamespace) == "" {
		cfg.ResumeNamespace = "secure_resumes"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.SessionTTL, cfg.Env)
	if err != nil {
		return nil, err
	}

	revoker, err := buildRevoker(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      sqlDB,
		Store:   store,
		Signer:  signer,
		Revoker: revoker,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		Signer:         app.Signer,
		Revoker:        app.Revoker,
		AccountHandler: app.AccountHandler,
		CollegeHandler: app.CollegeHandler,
		ProfileHandler: app.ProfileHandler,
		ResumeHandler:  app.ResumeHandler,
		GoogleAuth:     app.GoogleAuth,
	})

	return app, nil
}

// Close releases the database pool and the revocation store.
func (a *App) Close() error {
	var errs []error
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if c, ok := a.Revoker.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.ResumeNamespace, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.ResumeNamespace), nil
	}
}

func buildRevoker(ctx context.Context, cfg config.Config) (auth.Revoker, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return auth.NewMemoryRevoker(), nil
	}
	revoker, err := auth.NewRedisRevoker(ctx, cfg.RedisURL)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: redis unavailable; revocations kept in memory: %v", err)
			return auth.NewMemoryRevoker(), nil
		}
		return nil, err
	}
	return revoker, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.AccountsRepo = &accounts.PGRepo{DB: app.DB}
		app.CollegesRepo = &colleges.PGRepo{DB: app.DB}
		app.ProfilesRepo = &profiles.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		app.AccountsRepo = accounts.NewMemoryRepo()
		app.CollegesRepo = colleges.NewMemoryRepo()
		app.ProfilesRepo = profiles.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
	}

	cfg := app.Config
	app.AccountsService = accounts.NewService(app.AccountsRepo, app.Signer, app.Revoker, cfg.AdminUsernames)
	app.CollegesService = colleges.NewService(app.CollegesRepo)
	app.ProfilesService = profiles.NewService(app.ProfilesRepo, app.CollegesService)
	app.ProfilesService.Accounts = app.AccountsService
	app.ResumesService = resumes.NewService(
		app.ResumesRepo,
		app.Store,
		app.ProfilesService,
		cfg.ResumeNamespace,
		extract.ParseMode(cfg.TextExtraction),
		cfg.MaxUploadBytes,
	)

	registerHooks(app)

	app.AccountHandler = accounts.NewHandler(app.AccountsService, cfg.SessionTTL, cfg.Env == "production")
	app.CollegeHandler = colleges.NewHandler(app.CollegesService)
	app.ProfileHandler = profiles.NewHandler(app.ProfilesService)
	app.ResumeHandler = resumes.NewHandler(app.ResumesService, cfg.Debug)
	app.GoogleAuth = googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		app.AccountsService,
	)
}

// registerHooks connects account and college lifecycle events to profiles.
func registerHooks(app *App) {
	profileSvc := app.ProfilesService
	resumeSvc := app.ResumesService

	app.AccountsService.OnCreated(func(ctx context.Context, acct accounts.Account) error {
		return profileSvc.Provision(ctx, profiles.Owner{
			AccountID: acct.ID,
			Username:  acct.Username,
			FullName:  acct.FullName(),
			Email:     acct.Email,
		})
	})

	app.AccountsService.OnDeleted(func(ctx context.Context, accountID string) error {
		profile, err := profileSvc.Get(ctx, accountID)
		if errors.Is(err, profiles.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := resumeSvc.DeleteByProfile(ctx, profile.ID); err != nil {
			return err
		}
		return profileSvc.DeleteByAccount(ctx, accountID)
	})

	app.CollegesService.OnDeleted(profileSvc.ClearCollege)
}
