package activities

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mergington/activities/internal/store"
	"github.com/mergington/activities/pkg/response"
)

// Handler handles catalogue HTTP endpoints.
type Handler struct {
	store  store.Store
	logger *zap.Logger
}

// NewHandler creates an activities handler.
func NewHandler(st store.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: st, logger: logger}
}

// List handles GET /activities.
func (h *Handler) List(c *gin.Context) {
	catalog, err := Catalog(c.Request.Context(), h.store)
	if err != nil {
		h.logger.Error("list activities failed", zap.Error(err))
		response.Internal(c, "failed to list activities")
		return
	}
	response.OK(c, catalog)
}
