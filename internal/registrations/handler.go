package registrations

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mergington/activities/pkg/response"
)

// emailQuery binds the ?email= parameter shared by signup and unregister.
// The address is used exactly as sent.
type emailQuery struct {
	Email string `form:"email" binding:"required"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Signup handles POST /activities/:activity_name/signup?email=...
func (h *Handler) Signup(c *gin.Context) {
	name := c.Param("activity_name")
	email, ok := bindEmail(c)
	if !ok {
		return
	}

	if err := h.svc.Signup(c.Request.Context(), name, email); err != nil {
		h.writeError(c, "signup", name, err)
		return
	}
	response.Created(c, response.Message{Message: fmt.Sprintf("Signed up %s for %s", email, name)})
}

// Unregister handles DELETE /activities/:activity_name/unregister?email=...
func (h *Handler) Unregister(c *gin.Context) {
	name := c.Param("activity_name")
	email, ok := bindEmail(c)
	if !ok {
		return
	}

	if err := h.svc.Unregister(c.Request.Context(), name, email); err != nil {
		h.writeError(c, "unregister", name, err)
		return
	}
	response.OK(c, response.Message{Message: fmt.Sprintf("Unregistered %s from %s", email, name)})
}

func bindEmail(c *gin.Context) (string, bool) {
	var q emailQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Unprocessable(c, "email query parameter is required")
		return "", false
	}
	return q.Email, true
}

func (h *Handler) writeError(c *gin.Context, op, activityName string, err error) {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		response.NotFound(c, "Activity not found")
	case errors.Is(err, ErrAlreadySignedUp):
		response.BadRequest(c, "Student is already signed up")
	case errors.Is(err, ErrActivityFull):
		response.BadRequest(c, "Activity is full")
	case errors.Is(err, ErrNotSignedUp):
		response.BadRequest(c, "Student is not signed up for this activity")
	default:
		h.logger.Error(op+" failed", zap.Error(err), zap.String("activity", activityName))
		response.Internal(c, "failed to "+op)
	}
}
