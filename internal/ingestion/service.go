package ingestion

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hooksink-lab/hooksink/internal/core/storage"
	"github.com/hooksink-lab/hooksink/internal/webhook"
)

type Service struct {
	auth             webhook.Authenticator
	store            storage.DocumentStore
	maxBodySizeBytes int
	now              func() time.Time
}

func NewService(auth webhook.Authenticator, store storage.DocumentStore, maxBodySizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		auth:             auth,
		store:            store,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		now:              time.Now,
	}
}

// RegisterRoutes registers the webhook ingestion routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/webhooks/hotmart", s.IngestHandler)

	// Operator read path, guarded by the same shared secret.
	r.GET("/webhooks/hotmart/events", s.ListEventsHandler)
	r.GET("/webhooks/hotmart/events/:id", s.GetEventHandler)
}
