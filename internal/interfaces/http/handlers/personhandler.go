package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"nmqueue/internal/application/person/usecases"
	"nmqueue/internal/interfaces/http/middleware"
	"nmqueue/internal/shared/errors"
	"nmqueue/internal/shared/logger"
	"nmqueue/internal/shared/utils"
)

type PersonHandler struct {
	createPersonUC *usecases.CreatePersonUseCase
	confirmUC      *usecases.ConfirmRegistrationUseCase
	getPersonUC    *usecases.GetPersonUseCase
	listPersonsUC  *usecases.ListPersonsUseCase
	logger         logger.Interface
}

func NewPersonHandler(
	createPersonUC *usecases.CreatePersonUseCase,
	confirmUC *usecases.ConfirmRegistrationUseCase,
	getPersonUC *usecases.GetPersonUseCase,
	listPersonsUC *usecases.ListPersonsUseCase,
	logger logger.Interface,
) *PersonHandler {
	return &PersonHandler{
		createPersonUC: createPersonUC,
		confirmUC:      confirmUC,
		getPersonUC:    getPersonUC,
		listPersonsUC:  listPersonsUC,
		logger:         logger,
	}
}

type RegisterPersonRequest struct {
	GivenName   string `json:"given_name" binding:"required"`
	MiddleName  string `json:"middle_name"`
	FamilyName  string `json:"family_name"`
	Email       string `json:"email" binding:"required,email"`
	Fingerprint string `json:"fingerprint" binding:"omitempty,fingerprint"`
}

type RegisterPersonResponse struct {
	PersonID uint `json:"person_id"`
}

// Register is the public self-registration form. The created record is
// provisional until the emailed nonce is confirmed; the nonce itself never
// appears in the response.
func (h *PersonHandler) Register(c *gin.Context) {
	var req RegisterPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for registration", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createPersonUC.Execute(c.Request.Context(), usecases.CreatePersonCommand{
		GivenName:   req.GivenName,
		MiddleName:  req.MiddleName,
		FamilyName:  req.FamilyName,
		Email:       req.Email,
		Fingerprint: req.Fingerprint,
		Provisional: true,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, RegisterPersonResponse{PersonID: result.PersonID},
		"Registration received, check your email to confirm")
}

type ConfirmRequest struct {
	Nonce string `json:"nonce" binding:"required,uuid"`
}

func (h *PersonHandler) Confirm(c *gin.Context) {
	personID, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for confirmation", "person_id", personID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.confirmUC.Execute(c.Request.Context(), usecases.ConfirmRegistrationCommand{
		PersonID: personID,
		Nonce:    req.Nonce,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Registration confirmed", nil)
}

type PersonResponse struct {
	PersonID      uint      `json:"person_id"`
	FullName      string    `json:"full_name"`
	UID           *string   `json:"uid,omitempty"`
	Status        string    `json:"status"`
	StatusLabel   string    `json:"status_label"`
	StatusChanged time.Time `json:"status_changed"`
	Email         string    `json:"email,omitempty"`
	Fingerprint   string    `json:"fingerprint,omitempty"`
	FDComment     string    `json:"fd_comment,omitempty"`
	Capabilities  []string  `json:"capabilities"`
}

// GetPerson resolves a person by uid, fingerprint or email and returns the
// projection the viewer's capabilities allow.
func (h *PersonHandler) GetPerson(c *gin.Context) {
	view, err := h.getPersonUC.Execute(c.Request.Context(), usecases.GetPersonCommand{
		Key:      c.Param("key"),
		ViewerID: middleware.ViewerID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", PersonResponse{
		PersonID:      view.PersonID,
		FullName:      view.FullName,
		UID:           view.UID,
		Status:        view.Status,
		StatusLabel:   view.StatusLabel,
		StatusChanged: view.StatusChanged,
		Email:         view.Email,
		Fingerprint:   view.Fingerprint,
		FDComment:     view.FDComment,
		Capabilities:  view.Capabilities,
	})
}

type PersonSummaryResponse struct {
	PersonID      uint      `json:"person_id"`
	FullName      string    `json:"full_name"`
	UID           *string   `json:"uid,omitempty"`
	Status        string    `json:"status"`
	StatusLabel   string    `json:"status_label"`
	StatusChanged time.Time `json:"status_changed"`
}

func (h *PersonHandler) ListPersons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	result, err := h.listPersonsUC.Execute(c.Request.Context(), usecases.ListPersonsCommand{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		OrderBy:  c.Query("order_by"),
		Order:    c.Query("order"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]PersonSummaryResponse, 0, len(result.Persons))
	for _, p := range result.Persons {
		items = append(items, PersonSummaryResponse{
			PersonID:      p.PersonID,
			FullName:      p.FullName,
			UID:           p.UID,
			Status:        p.Status,
			StatusLabel:   p.StatusLabel,
			StatusChanged: p.StatusChanged,
		})
	}

	utils.ListSuccessResponse(c, items, result.Total, page, pageSize)
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid " + name + " parameter")
	}
	return uint(id), nil
}
