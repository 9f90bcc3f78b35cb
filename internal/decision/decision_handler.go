package decision

import (
	"net/http"

	"go-leaveflow/internal/shared/apperror"
	"go-leaveflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("decision.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("decision.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("decision request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// DecideByPath serves the action links embedded in approval mails, where
// the action is a fixed path segment.
func (h *Handler) DecideByPath(c *gin.Context) {
	identity := c.Param("identity")
	action := c.Param("action")

	status, err := h.service.Resolve(c.Request.Context(), identity, action)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, DecisionResponse{Identity: identity, Status: status}, nil)
}

// Decide serves API clients posting the action in the request body.
func (h *Handler) Decide(c *gin.Context) {
	identity := c.Param("identity")

	var req ResolveDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("decision payload validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	status, err := h.service.Resolve(c.Request.Context(), identity, req.Action)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, DecisionResponse{Identity: identity, Status: status}, nil)
}
