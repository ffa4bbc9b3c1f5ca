package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	queryUC "github.com/khoahotran/me-api/internal/application/usecase/query"
	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

type queryService interface {
	ExecuteProjectsBySkill(ctx context.Context, input queryUC.ProjectsBySkillInput) (*queryUC.ProjectsBySkillOutput, error)
	ExecuteTopSkills(ctx context.Context, input queryUC.TopSkillsInput) (*queryUC.TopSkillsOutput, error)
}

type QueryHandler struct {
	queryUseCase queryService
	logger       logger.Logger
}

func NewQueryHandler(uc queryService, log logger.Logger) *QueryHandler {
	return &QueryHandler{
		queryUseCase: uc,
		logger:       log,
	}
}

func (h *QueryHandler) ProjectsBySkill(c *gin.Context) {
	skillQuery, ok := c.GetQuery("skill")
	if !ok || skillQuery == "" {
		c.Error(apperror.NewInvalidInput("'skill' query param is required", nil))
		return
	}

	output, err := h.queryUseCase.ExecuteProjectsBySkill(c.Request.Context(), queryUC.ProjectsBySkillInput{Skill: skillQuery})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProjectDTOs(output.Projects))
}

func (h *QueryHandler) TopSkills(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(skill.DefaultTopLimit)))
	if err != nil {
		c.Error(apperror.NewInvalidInput("'limit' must be an integer", err))
		return
	}

	output, err := h.queryUseCase.ExecuteTopSkills(c.Request.Context(), queryUC.TopSkillsInput{Limit: limit})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToSkillCountDTOs(output.Skills))
}
