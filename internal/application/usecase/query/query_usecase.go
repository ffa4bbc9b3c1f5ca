package query

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/pkg/logger"
)

var tracer = otel.Tracer("query_usecase")

// QueryUseCase serves the read-only views that do not need the whole profile.
type QueryUseCase struct {
	projectRepo project.Repository
	skillRepo   skill.Repository
	logger      logger.Logger
}

func NewQueryUseCase(projectRepo project.Repository, skillRepo skill.Repository, log logger.Logger) *QueryUseCase {
	return &QueryUseCase{
		projectRepo: projectRepo,
		skillRepo:   skillRepo,
		logger:      log,
	}
}

type ProjectsBySkillInput struct {
	Skill string
}

type ProjectsBySkillOutput struct {
	Projects []project.Project
}

func (uc *QueryUseCase) ExecuteProjectsBySkill(ctx context.Context, input ProjectsBySkillInput) (*ProjectsBySkillOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteProjectsBySkill")
	defer span.End()

	span.SetAttributes(attribute.String("skill", input.Skill))

	projects, err := uc.projectRepo.ListBySkill(ctx, input.Skill)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list projects by skill failed: %w", err)
	}

	uc.logger.Debug("Projects by skill", zap.String("skill", input.Skill), zap.Int("count", len(projects)))
	return &ProjectsBySkillOutput{Projects: projects}, nil
}

type TopSkillsInput struct {
	Limit int
}

type TopSkillsOutput struct {
	Skills []skill.Usage
}

// ExecuteTopSkills returns an empty list for a non-positive limit without
// touching storage.
func (uc *QueryUseCase) ExecuteTopSkills(ctx context.Context, input TopSkillsInput) (*TopSkillsOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteTopSkills")
	defer span.End()

	if input.Limit <= 0 {
		return &TopSkillsOutput{Skills: []skill.Usage{}}, nil
	}
	span.SetAttributes(attribute.Int("limit", input.Limit))

	usages, err := uc.skillRepo.ListTop(ctx, input.Limit)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list top skills failed: %w", err)
	}
	return &TopSkillsOutput{Skills: usages}, nil
}
