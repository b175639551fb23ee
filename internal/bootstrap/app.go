package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"

	"sandra-backend/internal/activity"
	"sandra-backend/internal/archive"
	"sandra-backend/internal/associations"
	googleauth "sandra-backend/internal/auth"
	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
	"sandra-backend/internal/meetings"
	"sandra-backend/internal/notes"
	"sandra-backend/internal/queue"
	"sandra-backend/internal/shared/config"
	"sandra-backend/internal/shared/server"
	"sandra-backend/internal/shared/storage/db"
	"sandra-backend/internal/shared/storage/object"
	localstore "sandra-backend/internal/shared/storage/object/local"
	s3store "sandra-backend/internal/shared/storage/object/s3"
	"sandra-backend/internal/uploads"
	"sandra-backend/internal/users"
	"sandra-backend/internal/webhook"
	"sandra-backend/internal/ws"
)

const uploadsDefaultPrefix = "cv/"

// App holds the wired application graph.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	UsersRepo        users.Repo
	JobsRepo         jobs.Repo
	CandidatesRepo   candidates.Repo
	AssociationsRepo associations.Repo
	ActivityRepo     activity.Repo
	MeetingsRepo     meetings.Repo
	NotesRepo        notes.Repo

	ArchiveStore  archive.Store
	ArchiveEngine *archive.Engine
	Notifier      *webhook.Notifier

	UsersService        *users.Service
	JobsService         *jobs.Service
	CandidatesService   *candidates.Service
	AssociationsService *associations.Service
	ActivityService     *activity.Service
	ActivityReporter    *activity.Reporter
	MeetingsService     *meetings.Service
	NotesService        *notes.Service
	UploadsService      *uploads.Service

	Hub *ws.Hub
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
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
		Hub:    ws.NewHub(),
	}
	buildServices(app)
	ws.SetDefaultHub(app.Hub)

	presign, bucket, prefix, err := buildUploadsPresign(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:     cfg,
		GoogleAuth: googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, app.UsersService),
		Users:      users.NewHandler(app.UsersService),
		Jobs:       jobs.NewHandler(app.JobsService),
		Candidates: candidates.NewHandler(app.CandidatesService),
		Associations: associations.NewHandler(app.AssociationsService),
		Archive:    archive.NewHandler(app.ArchiveEngine),
		Activity:   activity.NewHandler(app.ActivityService),
		Meetings:   meetings.NewHandler(app.MeetingsService),
		Notes:      notes.NewHandler(app.NotesService),
		Uploads:    uploads.NewHandler(app.UploadsService, presign, bucket, prefix),
		WS:         ws.NewHandler(app.Hub),
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

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
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
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.WorkflowQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.WorkflowQueueURL, cfg.AWSRegion)
}

func buildUploadsPresign(ctx context.Context, cfg config.Config) (*s3.PresignClient, string, string, error) {
	if cfg.ObjectStoreType != "s3" || strings.TrimSpace(cfg.S3Bucket) == "" {
		return nil, "", "", nil
	}

	prefix := strings.TrimSpace(cfg.S3Prefix)
	if prefix == "" {
		prefix = uploadsDefaultPrefix
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, "", "", fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return s3.NewPresignClient(client), cfg.S3Bucket, prefix, nil
}

func buildServices(app *App) {
	var (
		userRepo     users.Repo
		jobRepo      jobs.Repo
		candRepo     candidates.Repo
		assocRepo    associations.Repo
		activityRepo activity.Repo
		meetingRepo  meetings.Repo
		noteRepo     notes.Repo
		archiveStore archive.Store
	)

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		candRepo = &candidates.PGRepo{DB: app.DB}
		assocRepo = &associations.PGRepo{DB: app.DB}
		activityRepo = &activity.PGRepo{DB: app.DB}
		meetingRepo = &meetings.PGRepo{DB: app.DB}
		noteRepo = &notes.PGRepo{DB: app.DB}
		archiveStore = &archive.PGStore{DB: app.DB}
	} else {
		jobMem := jobs.NewMemoryRepo()
		candMem := candidates.NewMemoryRepo()
		assocMem := associations.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		jobRepo = jobMem
		candRepo = candMem
		assocRepo = assocMem
		activityRepo = activity.NewMemoryRepo()
		meetingRepo = meetings.NewMemoryRepo()
		noteRepo = notes.NewMemoryRepo()
		archiveStore = archive.NewMemoryStore(jobMem, candMem, assocMem)
	}

	activitySvc := &activity.Service{
		Repo:     activityRepo,
		Users:    userLookup{repo: userRepo},
		Entities: entityLookup{jobs: jobRepo, candidates: candRepo},
	}
	reporter := activity.NewReporter(activitySvc)

	notifier := webhook.NewNotifier(app.Config.WebhookURL, app.Config.WebhookSecret, app.Queue)

	app.UsersRepo = userRepo
	app.JobsRepo = jobRepo
	app.CandidatesRepo = candRepo
	app.AssociationsRepo = assocRepo
	app.ActivityRepo = activityRepo
	app.MeetingsRepo = meetingRepo
	app.NotesRepo = noteRepo
	app.ArchiveStore = archiveStore
	app.Notifier = notifier

	app.UsersService = users.NewService(userRepo)
	app.JobsService = &jobs.Service{Repo: jobRepo}
	app.CandidatesService = &candidates.Service{Repo: candRepo, Activity: reporter}
	app.AssociationsService = &associations.Service{Repo: assocRepo, Candidates: candRepo, Jobs: jobRepo}
	app.ActivityService = activitySvc
	app.ActivityReporter = reporter
	app.MeetingsService = &meetings.Service{Repo: meetingRepo, Activity: reporter}
	app.NotesService = &notes.Service{Repo: noteRepo, Candidates: candRepo, Jobs: jobRepo, Users: userRepo}
	app.UploadsService = &uploads.Service{Store: app.Store, Candidates: candRepo}
	app.ArchiveEngine = archive.NewEngine(archiveStore, userRepo, reporter, notifier)
}

// userLookup adapts the users repo to the activity log's narrow interface.
type userLookup struct {
	repo users.Repo
}

func (l userLookup) UserDisplayInfo(ctx context.Context, companyID, userID string) (activity.UserDisplayInfo, error) {
	u, err := l.repo.GetByID(ctx, userID)
	if err != nil {
		return activity.UserDisplayInfo{}, err
	}
	if u.CompanyID != "" && u.CompanyID != companyID {
		return activity.UserDisplayInfo{}, users.ErrNotFound
	}
	return activity.UserDisplayInfo{
		Name:       u.DisplayName(),
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}, nil
}

// entityLookup resolves display snapshots for activity entries from the
// live entity records.
type entityLookup struct {
	jobs       jobs.Repo
	candidates candidates.Repo
}

func (l entityLookup) Snapshot(ctx context.Context, companyID, entityType, entityID string) (activity.EntityInfo, error) {
	switch entityType {
	case activity.EntityJob:
		j, err := l.jobs.GetByID(ctx, companyID, entityID)
		if err != nil {
			return activity.EntityInfo{}, err
		}
		return activity.EntityInfo{Name: j.Title, Department: j.Department}, nil
	case activity.EntityCandidate:
		c, err := l.candidates.GetByID(ctx, companyID, entityID)
		if err != nil {
			return activity.EntityInfo{}, err
		}
		return activity.EntityInfo{Name: c.FullName(), Position: c.Position}, nil
	}
	return activity.EntityInfo{}, fmt.Errorf("unknown entity type %q", entityType)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
