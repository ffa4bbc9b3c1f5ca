package search

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/internal/domain/search"
	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/internal/domain/work"
	"github.com/khoahotran/me-api/pkg/logger"
)

var tracer = otel.Tracer("search_usecase")

type SearchUseCase struct {
	projectRepo project.Repository
	skillRepo   skill.Repository
	workRepo    work.Repository
	logger      logger.Logger
}

func NewSearchUseCase(projectRepo project.Repository, skillRepo skill.Repository, workRepo work.Repository, log logger.Logger) *SearchUseCase {
	return &SearchUseCase{
		projectRepo: projectRepo,
		skillRepo:   skillRepo,
		workRepo:    workRepo,
		logger:      log,
	}
}

type SearchInput struct {
	Query string
}

type SearchOutput struct {
	Results []search.Result
}

// Execute matches the query as a case-insensitive substring across projects,
// skills and work experience, grouped in that order. The query is used as
// given, whitespace included.
func (uc *SearchUseCase) Execute(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteSearch")
	defer span.End()

	span.SetAttributes(attribute.String("query", input.Query))

	projects, err := uc.projectRepo.Search(ctx, input.Query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search projects failed: %w", err)
	}
	skills, err := uc.skillRepo.Search(ctx, input.Query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search skills failed: %w", err)
	}
	items, err := uc.workRepo.Search(ctx, input.Query)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("search work experience failed: %w", err)
	}

	results := search.Combine(projects, skills, items)
	uc.logger.Info("Executed search", zap.String("query", input.Query), zap.Int("results", len(results)))
	return &SearchOutput{Results: results}, nil
}
