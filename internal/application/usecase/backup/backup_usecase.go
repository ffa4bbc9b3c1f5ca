package backup

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	profileUC "github.com/khoahotran/me-api/internal/application/usecase/profile"
	"github.com/khoahotran/me-api/internal/application/usecase/seed"
	"github.com/khoahotran/me-api/pkg/logger"
)

type profileReader interface {
	ExecuteGetProfile(ctx context.Context) (*profileUC.ProfileOutput, error)
}

type BackupUseCase struct {
	reader profileReader
	logger logger.Logger
}

func NewBackupUseCase(reader profileReader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		reader: reader,
		logger: log,
	}
}

// Execute writes the current profile to w as a seed document.
func (uc *BackupUseCase) Execute(ctx context.Context, w io.Writer) error {
	uc.logger.Info("Starting profile export...")

	out, err := uc.reader.ExecuteGetProfile(ctx)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	doc := seed.FromProfile(out.Profile)
	if err := doc.Encode(w); err != nil {
		uc.logger.Error("Failed to write profile export", err)
		return fmt.Errorf("backup failed: %w", err)
	}

	uc.logger.Info("Profile export completed",
		zap.Int64("profile_id", out.Profile.ID),
		zap.Int("skills", len(doc.Skills)),
		zap.Int("projects", len(doc.Projects)),
		zap.Int("work_experience", len(doc.WorkExperience)),
	)
	return nil
}
