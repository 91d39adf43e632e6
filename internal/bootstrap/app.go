package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/account"
	"talentflow-backend/internal/applications"
	googleauth "talentflow-backend/internal/auth"
	"talentflow-backend/internal/candidates"
	"talentflow-backend/internal/onboarding"
	"talentflow-backend/internal/queue"
	"talentflow-backend/internal/resumes"
	"talentflow-backend/internal/scoring"
	scoringopenai "talentflow-backend/internal/scoring/openai"
	"talentflow-backend/internal/shared/config"
	"talentflow-backend/internal/shared/server"
	"talentflow-backend/internal/shared/storage/db"
	"talentflow-backend/internal/shared/storage/object"
	localstore "talentflow-backend/internal/shared/storage/object/local"
	s3store "talentflow-backend/internal/shared/storage/object/s3"
	"talentflow-backend/internal/signin"
	"talentflow-backend/internal/video"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	SnapshotStore    onboarding.SnapshotStore
	CandidatesRepo   candidates.Repo
	ApplicationsRepo applications.Repo

	CandidatesService   *candidates.Service
	Onboarding          *onboarding.Controller
	ResumesService      *resumes.Service
	VideoService        *video.Service
	ApplicationsService *applications.Service
	ScoringService      *scoring.Service
	ScoringProcessor    scoring.Processor
	SigninService       *signin.Service
	AccountService      *account.Service

	OnboardingHandler   *onboarding.Handler
	ResumesHandler      *resumes.Handler
	VideoHandler        *video.Handler
	ApplicationsHandler *applications.Handler
	SigninHandler       *signin.Handler
	AccountHandler      *account.Handler
	GoogleAuth          *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
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

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Router: nil,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		OnboardingHandler:   app.OnboardingHandler,
		ResumesHandler:      app.ResumesHandler,
		VideoHandler:        app.VideoHandler,
		ApplicationsHandler: app.ApplicationsHandler,
		SigninHandler:       app.SigninHandler,
		AccountHandler:      app.AccountHandler,
		GoogleAuth:          app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
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
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.ScoringQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	cfg := app.Config

	var candRepo candidates.Repo
	var appRepo applications.Repo
	if app.DB != nil {
		candRepo = &candidates.PGRepo{DB: app.DB}
		appRepo = &applications.PGRepo{DB: app.DB}
	} else {
		candRepo = candidates.NewMemoryRepo()
		appRepo = applications.NewMemoryRepo()
	}

	snapshots := onboarding.SnapshotStore(onboarding.NewMemoryStore())
	if strings.TrimSpace(cfg.SnapshotDir) != "" {
		snapshots = onboarding.NewLocalStore(cfg.SnapshotDir)
	}
	controller := onboarding.NewController(snapshots)

	candSvc := &candidates.Service{Repo: candRepo}

	signinSvc := &signin.Service{
		Candidates:    candSvc,
		Mailer:        signin.LogMailer{},
		PublicBaseURL: cfg.PublicBaseURL,
	}

	scoringClient, err := buildScoringClient(cfg)
	if err != nil {
		return err
	}
	scoringSvc := &scoring.Service{
		Repo:       appRepo,
		Store:      app.Store,
		Client:     scoringClient,
		KeyFromURL: keyFromURL(cfg),
	}

	var scorer applications.Scorer
	switch {
	case app.Queue != nil:
		scorer = &queue.ScoringPublisher{Client: app.Queue}
	default:
		if _, placeholder := scoringClient.(scoring.PlaceholderClient); !placeholder {
			scorer = &scoring.InlineScorer{Svc: scoringSvc}
		}
	}

	appSvc := &applications.Service{
		Repo:           appRepo,
		Identities:     candSvc,
		Store:          app.Store,
		Scorer:         scorer,
		Links:          signinSvc,
		MaxResumeBytes: cfg.MaxResumeBytes,
		MaxVideoBytes:  cfg.MaxVideoBytes,
	}

	resumeSvc := &resumes.Service{
		Store:    app.Store,
		Sink:     controller,
		MaxBytes: cfg.MaxResumeBytes,
	}
	videoSvc := &video.Service{
		Store:    app.Store,
		Sink:     controller,
		MaxBytes: cfg.MaxVideoBytes,
	}

	googleAuthSvc := googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		cfg.StaffEmails,
	)

	app.SnapshotStore = snapshots
	app.CandidatesRepo = candRepo
	app.ApplicationsRepo = appRepo
	app.CandidatesService = candSvc
	app.Onboarding = controller
	app.ResumesService = resumeSvc
	app.VideoService = videoSvc
	app.ApplicationsService = appSvc
	app.ScoringService = scoringSvc
	app.ScoringProcessor = scoringSvc
	app.SigninService = signinSvc
	app.AccountService = account.NewService(snapshots)
	app.OnboardingHandler = onboarding.NewHandler(controller)
	app.ResumesHandler = resumes.NewHandler(resumeSvc)
	app.VideoHandler = video.NewHandler(videoSvc)
	app.ApplicationsHandler = applications.NewHandler(appSvc)
	app.SigninHandler = signin.NewHandler(signinSvc)
	app.AccountHandler = account.NewHandler(app.AccountService)
	app.GoogleAuth = googleAuthSvc

	return nil
}

func buildScoringClient(cfg config.Config) (scoring.Client, error) {
	if cfg.ScoringProvider != "openai" {
		return scoring.PlaceholderClient{}, nil
	}
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" || strings.TrimSpace(cfg.ScoringModel) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: scoring not configured; applications stay unscored")
			return scoring.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("OPENAI_API_KEY and SCORING_MODEL are required when SCORING_PROVIDER=openai")
	}
	return scoringopenai.NewClient(apiKey, cfg.ScoringModel)
}

// keyFromURL inverts the active store's URL scheme so the scoring service can
// fetch parsed resume text by storage key.
func keyFromURL(cfg config.Config) func(string) string {
	return func(rawURL string) string {
		if idx := strings.Index(rawURL, "/files/"); idx >= 0 {
			return rawURL[idx+len("/files/"):]
		}
		if idx := strings.Index(rawURL, ".amazonaws.com/"); idx >= 0 {
			key := rawURL[idx+len(".amazonaws.com/"):]
			prefix := strings.Trim(cfg.S3Prefix, "/")
			if prefix != "" {
				key = strings.TrimPrefix(key, prefix+"/")
			}
			return key
		}
		return ""
	}
}
