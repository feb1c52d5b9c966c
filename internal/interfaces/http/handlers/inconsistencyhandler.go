package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nmqueue/internal/application/consistency/usecases"
	"nmqueue/internal/domain/consistency"
	"nmqueue/internal/interfaces/http/middleware"
	"nmqueue/internal/shared/logger"
	"nmqueue/internal/shared/utils"
)

type InconsistencyHandler struct {
	listUC     *usecases.ListInconsistenciesUseCase
	applyFixUC *usecases.ApplyFixUseCase
	logger     logger.Interface
}

func NewInconsistencyHandler(
	listUC *usecases.ListInconsistenciesUseCase,
	applyFixUC *usecases.ApplyFixUseCase,
	logger logger.Interface,
) *InconsistencyHandler {
	return &InconsistencyHandler{
		listUC:     listUC,
		applyFixUC: applyFixUC,
		logger:     logger,
	}
}

func (h *InconsistencyHandler) List(c *gin.Context) {
	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListInconsistenciesCommand{
		Kind: c.Query("kind"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result.Records)
}

type ApplyFixRequest struct {
	Kind      string `json:"kind" binding:"required,oneof=person process fingerprint"`
	EntityKey string `json:"entity_key" binding:"required"`
	Message   string `json:"message"`
}

func (h *InconsistencyHandler) ApplyFix(c *gin.Context) {
	var req ApplyFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for apply fix", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.applyFixUC.Execute(c.Request.Context(), usecases.ApplyFixCommand{
		Kind:      consistency.Kind(req.Kind),
		EntityKey: req.EntityKey,
		ActorID:   middleware.ViewerID(c),
		Message:   req.Message,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fix applied", result)
}
