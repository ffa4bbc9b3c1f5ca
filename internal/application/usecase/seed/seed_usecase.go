package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	profileUC "github.com/khoahotran/me-api/internal/application/usecase/profile"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

type profileCreator interface {
	ExecuteCreateProfile(ctx context.Context, input profileUC.CreateProfileInput) (*profileUC.ProfileOutput, error)
}

type SeedUseCase struct {
	creator profileCreator
	logger  logger.Logger
}

func NewSeedUseCase(creator profileCreator, log logger.Logger) *SeedUseCase {
	return &SeedUseCase{creator: creator, logger: log}
}

// SeedOutput reports whether a profile was created by this run.
type SeedOutput struct {
	Created   bool
	ProfileID int64
}

// Execute creates the profile described by doc unless one already exists.
func (uc *SeedUseCase) Execute(ctx context.Context, doc *Document) (*SeedOutput, error) {
	out, err := uc.creator.ExecuteCreateProfile(ctx, doc.ToCreateInput())
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			uc.logger.Info("Database already seeded")
			return &SeedOutput{Created: false}, nil
		}
		return nil, fmt.Errorf("seed failed: %w", err)
	}

	uc.logger.Info("Database seeded",
		zap.Int64("profile_id", out.Profile.ID),
		zap.String("name", out.Profile.Name),
	)
	return &SeedOutput{Created: true, ProfileID: out.Profile.ID}, nil
}

// LoadDocument reads path, or the built-in profile when path is empty.
func LoadDocument(path string) (*Document, error) {
	if path == "" {
		return DefaultDocument()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}
