package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nmqueue/internal/application/process/usecases"
	"nmqueue/internal/domain/membership"
	"nmqueue/internal/interfaces/http/middleware"
	"nmqueue/internal/shared/logger"
	"nmqueue/internal/shared/utils"
)

type ProcessHandler struct {
	createProcessUC *usecases.CreateProcessUseCase
	timelineUC      *usecases.GetTimelineUseCase
	transitionUC    *usecases.ApplyTransitionUseCase
	assignManagerUC *usecases.AssignManagerUseCase
	addAdvocateUC   *usecases.AddAdvocateUseCase
	uncancelUC      *usecases.UncancelUseCase
	changeStatusUC  *usecases.ChangeStatusUseCase
	logger          logger.Interface
}

func NewProcessHandler(
	createProcessUC *usecases.CreateProcessUseCase,
	timelineUC *usecases.GetTimelineUseCase,
	transitionUC *usecases.ApplyTransitionUseCase,
	assignManagerUC *usecases.AssignManagerUseCase,
	addAdvocateUC *usecases.AddAdvocateUseCase,
	uncancelUC *usecases.UncancelUseCase,
	changeStatusUC *usecases.ChangeStatusUseCase,
	logger logger.Interface,
) *ProcessHandler {
	return &ProcessHandler{
		createProcessUC: createProcessUC,
		timelineUC:      timelineUC,
		transitionUC:    transitionUC,
		assignManagerUC: assignManagerUC,
		addAdvocateUC:   addAdvocateUC,
		uncancelUC:      uncancelUC,
		changeStatusUC:  changeStatusUC,
		logger:          logger,
	}
}

type CreateProcessRequest struct {
	PersonID    uint   `json:"person_id" binding:"required"`
	ApplyingFor string `json:"applying_for" binding:"required"`
}

func (h *ProcessHandler) CreateProcess(c *gin.Context) {
	var req CreateProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create process", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createProcessUC.Execute(c.Request.Context(), usecases.CreateProcessCommand{
		PersonID:    req.PersonID,
		ApplyingFor: membership.Status(req.ApplyingFor),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Process created")
}

type TimelineEntryResponse struct {
	Progress    string    `json:"progress"`
	Label       string    `json:"label"`
	Ordinal     int       `json:"ordinal"`
	Unusual     bool      `json:"unusual"`
	LoggedAt    time.Time `json:"logged_at"`
	ChangedByID *uint     `json:"changed_by_id,omitempty"`
	MessageHTML string    `json:"message_html"`
	IsPublic    bool      `json:"is_public"`
}

type TimelineResponse struct {
	ProcessID   uint                    `json:"process_id"`
	PersonID    uint                    `json:"person_id"`
	ApplyingFor string                  `json:"applying_for"`
	Progress    string                  `json:"progress"`
	IsActive    bool                    `json:"is_active"`
	ArchiveKey  string                  `json:"archive_key"`
	Entries     []TimelineEntryResponse `json:"entries"`
}

func (h *ProcessHandler) GetTimeline(c *gin.Context) {
	processID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.timelineUC.Execute(c.Request.Context(), usecases.GetTimelineCommand{
		ProcessID: processID,
		ViewerID:  middleware.ViewerID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	resp := TimelineResponse{
		ProcessID:   result.ProcessID,
		PersonID:    result.PersonID,
		ApplyingFor: result.ApplyingFor,
		Progress:    result.Progress,
		IsActive:    result.IsActive,
		ArchiveKey:  result.ArchiveKey,
		Entries:     make([]TimelineEntryResponse, 0, len(result.Entries)),
	}
	for _, e := range result.Entries {
		resp.Entries = append(resp.Entries, TimelineEntryResponse{
			Progress:    e.Progress,
			Label:       e.Label,
			Ordinal:     e.Ordinal,
			Unusual:     e.Unusual,
			LoggedAt:    e.LoggedAt,
			ChangedByID: e.ChangedByID,
			MessageHTML: e.MessageHTML,
			IsPublic:    e.IsPublic,
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

type TransitionRequest struct {
	Progress string `json:"progress" binding:"required"`
	Message  string `json:"message"`
	IsPublic bool   `json:"is_public"`
}

func (h *ProcessHandler) ApplyTransition(c *gin.Context) {
	processID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	actorID := middleware.ViewerID(c)
	if actorID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for transition", "process_id", processID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.transitionUC.Execute(c.Request.Context(), usecases.ApplyTransitionCommand{
		ProcessID:   processID,
		NewProgress: membership.Progress(req.Progress),
		ActorID:     actorID,
		Message:     req.Message,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Transition applied", result)
}

type AssignManagerRequest struct {
	AMID uint `json:"am_id" binding:"required"`
}

func (h *ProcessHandler) AssignManager(c *gin.Context) {
	processID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for assign manager", "process_id", processID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.assignManagerUC.Execute(c.Request.Context(), usecases.AssignManagerCommand{
		ProcessID: processID,
		AMID:      req.AMID,
		ActorID:   middleware.ViewerID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Manager assigned", result)
}

type AddAdvocateRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ProcessHandler) AddAdvocate(c *gin.Context) {
	processID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	advocateID := middleware.ViewerID(c)
	if advocateID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req AddAdvocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for advocate", "process_id", processID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.addAdvocateUC.Execute(c.Request.Context(), usecases.AddAdvocateCommand{
		ProcessID:  processID,
		AdvocateID: advocateID,
		Message:    req.Message,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Advocacy recorded", result)
}

type UncancelRequest struct {
	Target  string `json:"target" binding:"required"`
	Message string `json:"message"`
}

func (h *ProcessHandler) Uncancel(c *gin.Context) {
	processID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UncancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for uncancel", "process_id", processID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uncancelUC.Execute(c.Request.Context(), usecases.UncancelCommand{
		ProcessID: processID,
		Target:    membership.Progress(req.Target),
		ActorID:   middleware.ViewerID(c),
		Message:   req.Message,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Process reactivated", result)
}

type ChangeStatusRequest struct {
	PersonKey string `json:"person_key" binding:"required"`
	NewStatus string `json:"new_status" binding:"required"`
	Message   string `json:"message"`
}

// ChangeStatus is the administrative short path that records a status change
// through a synthetic single-step process.
func (h *ProcessHandler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for change status", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.changeStatusUC.Execute(c.Request.Context(), usecases.ChangeStatusCommand{
		PersonKey: req.PersonKey,
		NewStatus: membership.Status(req.NewStatus),
		ActorID:   middleware.ViewerID(c),
		Message:   req.Message,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status changed", result)
}
