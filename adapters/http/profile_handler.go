package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/me-api/internal/application/usecase/profile"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

type profileService interface {
	ExecuteGetProfile(ctx context.Context) (*profileUC.ProfileOutput, error)
	ExecuteCreateProfile(ctx context.Context, input profileUC.CreateProfileInput) (*profileUC.ProfileOutput, error)
	ExecuteUpdateProfile(ctx context.Context, input profileUC.UpdateProfileInput) (*profileUC.ProfileOutput, error)
}

type ProfileHandler struct {
	profileUseCase profileService
	logger         logger.Logger
}

func NewProfileHandler(uc profileService, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile creation", err))
		return
	}

	output, err := h.profileUseCase.ExecuteCreateProfile(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	output, err := h.profileUseCase.ExecuteUpdateProfile(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}
