package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Store is the subset of storage.DB the API needs.
type Store interface {
	CreateLabel(ctx context.Context, name, color string) (*domain.Label, error)
	ListLabels(ctx context.Context) ([]domain.Label, error)
	UpdateLabel(ctx context.Context, id int64, name, color string) error
	DeleteLabel(ctx context.Context, id int64) error

	CreateContent(ctx context.Context, title string, labelID int64) (*domain.Content, error)
	ListContents(ctx context.Context) ([]domain.ContentView, error)
	GetContent(ctx context.Context, id int64) (*domain.ContentView, error)
	UpdateContent(ctx context.Context, id int64, title string, labelID int64) error
	DeleteContent(ctx context.Context, id int64) error

	ListDueReviews(ctx context.Context, on domain.Date) ([]domain.DueReview, error)
	DueToday(ctx context.Context) ([]domain.DueReview, error)
	CompleteReview(ctx context.Context, contentID int64, kind domain.ReviewKind) (time.Time, error)
	Statistics(ctx context.Context) (*domain.Statistics, error)
}

const requestIDKey = "request_id"

// Server holds the dependencies for the HTTP server.
type Server struct {
	store  Store
	router *gin.Engine
	log    *slog.Logger
}

// NewServer creates and configures a new server.
func NewServer(store Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		store:  store,
		router: gin.New(),
		log:    log,
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	labels := s.router.Group("/labels")
	labels.POST("", s.createLabel)
	labels.GET("", s.listLabels)
	labels.PUT("/:id", s.updateLabel)
	labels.DELETE("/:id", s.deleteLabel)

	contents := s.router.Group("/contents")
	contents.POST("", s.createContent)
	contents.GET("", s.listContents)
	contents.GET("/:id", s.getContent)
	contents.PUT("/:id", s.updateContent)
	contents.DELETE("/:id", s.deleteContent)

	reviews := s.router.Group("/reviews")
	reviews.GET("", s.listReviews)
	reviews.GET("/today", s.reviewsToday)
	reviews.POST("/:content_id/:kind/complete", s.completeReview)

	s.router.GET("/statistics", s.statistics)
}

// requestLogger tags each request with an id and logs it once it is served.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)

		start := time.Now()
		c.Next()

		attrs := []any{
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			s.log.Error("request failed", append(attrs, "error", c.Errors.String())...)
			return
		}
		s.log.Info("request served", attrs...)
	}
}
