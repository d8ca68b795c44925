// Package orgmessages provides embeddable organization message routes.
//
// Setup:
//
//  1. Run migrations from the migrations/ folder using your preferred tool
//  2. Create an instance and mount its router
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/myapp?sslmode=disable")
//
//	msgs, err := orgmessages.New(ctx, orgmessages.Config{DB: db})
//	if err != nil {
//	    log.Fatal(err) // Will fail if migrations haven't been run
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/api/v1/organizations", msgs.Router())
//	http.ListenAndServe(":8080", r)
//
// Without Postgres:
//
//	msgs, _ := orgmessages.New(ctx, orgmessages.Config{
//	    Repository: repository.NewMemoryMessagesRepository(),
//	})
package orgmessages

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/org-messages/internal/config"
	"github.com/tendant/org-messages/internal/http/features/messages"
	"github.com/tendant/org-messages/internal/http/middleware"
	"github.com/tendant/org-messages/internal/httputil"
	"github.com/tendant/org-messages/pkg/message"
	"github.com/tendant/org-messages/pkg/repository"
)

// Config holds the configuration for the library.
type Config struct {
	// DB is a Postgres connection. Used when Repository is nil.
	DB *sql.DB

	// Repository overrides the storage backend (optional).
	Repository message.Repository

	// Logger is the structured logger (default: JSON to stdout).
	Logger *slog.Logger

	// RateLimit applies per-IP limits to the message routes (default: disabled).
	RateLimit config.RateLimitConfig

	// BasePath is where Router is mounted, used for Location headers
	// (default: /api/v1/organizations).
	BasePath string

	// MaxRequestBodySize caps request bodies in bytes (default: 64KB).
	MaxRequestBodySize int64
}

// OrgMessages is the message management instance.
type OrgMessages struct {
	config Config
	logic  *message.Logic
}

// New creates a new instance with the given configuration.
// With a DB and no Repository, it returns an error if the messages table
// does not exist.
func New(ctx context.Context, cfg Config) (*OrgMessages, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	repo := cfg.Repository
	if repo == nil {
		if err := repository.ValidateSchema(ctx, cfg.DB); err != nil {
			return nil, err
		}
		repo = repository.NewMessagesRepository(cfg.DB)
	}

	return &OrgMessages{
		config: cfg,
		logic:  message.NewLogic(repo),
	}, nil
}

// Router returns a chi router with the message routes.
// Mount this on your main router at Config.BasePath:
//
//	r.Mount("/api/v1/organizations", msgs.Router())
//
// Routes:
//
//	GET    /{organizationId}/messages       - List messages
//	GET    /{organizationId}/messages/{id}  - Get a message
//	POST   /{organizationId}/messages       - Create a message
//	PUT    /{organizationId}/messages/{id}  - Update a message
//	DELETE /{organizationId}/messages/{id}  - Delete a message
func (o *OrgMessages) Router() chi.Router {
	return o.router(o.config.BasePath)
}

func (o *OrgMessages) router(basePath string) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recover(o.config.Logger))
	r.Use(middleware.Logging(o.config.Logger))
	r.Use(middleware.RequestSizeLimit(o.config.MaxRequestBodySize))

	limiters := middleware.CreateRateLimiters(o.config.RateLimit, o.config.Logger)
	handler := messages.NewHandler(o.config.Logger, o.logic, basePath)
	r.Route("/{organizationId}/messages", func(r chi.Router) {
		handler.RegisterRoutes(r, limiters["read"], limiters["write"])
	})

	return r
}

// Logic returns the message logic for direct use without HTTP.
func (o *OrgMessages) Logic() *message.Logic {
	return o.logic
}

// HealthHandler returns a simple health check handler.
func (o *OrgMessages) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Routes registers the message routes on an http.ServeMux under prefix.
// Location headers point below prefix:
//
//	mux := http.NewServeMux()
//	msgs.Routes(mux, "/api/v1/organizations")
func (o *OrgMessages) Routes(mux *http.ServeMux, prefix string) {
	prefix = strings.TrimSuffix(prefix, "/")
	mux.Handle(prefix+"/", http.StripPrefix(prefix, o.router(prefix)))
}

func validateConfig(cfg *Config) error {
	if cfg.DB == nil && cfg.Repository == nil {
		return errors.New("orgmessages: DB or Repository is required")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	if cfg.BasePath == "" {
		cfg.BasePath = messages.DefaultBasePath
	}
	if cfg.MaxRequestBodySize <= 0 {
		cfg.MaxRequestBodySize = 64 * 1024
	}
}
