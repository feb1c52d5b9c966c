package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nmqueue/internal/application/auth/usecases"
	"nmqueue/internal/shared/logger"
	"nmqueue/internal/shared/utils"
)

type AuthHandler struct {
	loginUC *usecases.LoginUseCase
	logger  logger.Interface
}

func NewAuthHandler(loginUC *usecases.LoginUseCase, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		loginUC: loginUC,
		logger:  logger,
	}
}

type LoginRequest struct {
	UID      string `json:"uid" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	PersonID uint   `json:"person_id"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for login", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.loginUC.Execute(c.Request.Context(), usecases.LoginCommand{
		UID:      req.UID,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", LoginResponse{
		Token:    result.Token,
		PersonID: result.PersonID,
	})
}
