package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/me-api/internal/application/service"
	"github.com/khoahotran/me-api/internal/domain/profile"
	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/internal/domain/work"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	tx          service.Transactor
	profileRepo profile.Repository
	skillRepo   skill.Repository
	projectRepo project.Repository
	workRepo    work.Repository
	publisher   service.EventPublisher
	logger      logger.Logger
}

func NewProfileUseCase(
	tx service.Transactor,
	profileRepo profile.Repository,
	skillRepo skill.Repository,
	projectRepo project.Repository,
	workRepo work.Repository,
	publisher service.EventPublisher,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		tx:          tx,
		profileRepo: profileRepo,
		skillRepo:   skillRepo,
		projectRepo: projectRepo,
		workRepo:    workRepo,
		publisher:   publisher,
		logger:      log,
	}
}

type ProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteGetProfile")
	defer span.End()

	p, err := uc.profileRepo.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	if err := uc.loadAssociations(ctx, p); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &ProfileOutput{Profile: p}, nil
}

type CreateProfileInput struct {
	Name           string
	Email          string
	Education      string
	GithubLink     *string
	LinkedinLink   *string
	PortfolioLink  *string
	Skills         []string
	Projects       []project.Project
	WorkExperience []work.Work
}

func (uc *ProfileUseCase) ExecuteCreateProfile(ctx context.Context, input CreateProfileInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteCreateProfile")
	defer span.End()

	var created *profile.Profile
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.profileRepo.Lock(ctx); err != nil {
			return err
		}
		exists, err := uc.profileRepo.Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewAlreadyExists("Profile")
		}

		skills, err := uc.skillRepo.FindOrCreate(ctx, input.Skills)
		if err != nil {
			return err
		}
		projects, err := uc.insertProjects(ctx, input.Projects)
		if err != nil {
			return err
		}
		items, err := uc.insertWork(ctx, input.WorkExperience)
		if err != nil {
			return err
		}

		p := &profile.Profile{
			Name:          input.Name,
			Email:         input.Email,
			Education:     input.Education,
			GithubLink:    input.GithubLink,
			LinkedinLink:  input.LinkedinLink,
			PortfolioLink: input.PortfolioLink,
		}
		if err := uc.profileRepo.Create(ctx, p); err != nil {
			return err
		}
		if err := uc.skillRepo.SetSkillsForProfile(ctx, p.ID, skill.IDs(skills)); err != nil {
			return err
		}
		if err := uc.projectRepo.SetProjectsForProfile(ctx, p.ID, project.IDs(projects)); err != nil {
			return err
		}
		if err := uc.workRepo.SetWorkForProfile(ctx, p.ID, work.IDs(items)); err != nil {
			return err
		}

		if err := uc.loadAssociations(ctx, p); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create profile failed: %w", err)
	}

	span.SetAttributes(attribute.Int64("profile_id", created.ID))
	uc.logger.Info("Profile created",
		zap.Int64("profile_id", created.ID),
		zap.Int("skills", len(created.Skills)),
		zap.Int("projects", len(created.Projects)),
		zap.Int("work_experience", len(created.WorkExperience)),
	)
	uc.publish(ctx, service.ProfileEventCreated, created.ID, nil)
	return &ProfileOutput{Profile: created}, nil
}

// UpdateProfileInput follows replace-on-presence: a nil list keeps the current
// associations, a non-nil list (even empty) replaces them.
type UpdateProfileInput struct {
	Changes        profile.Changes
	Skills         *[]string
	Projects       *[]project.Project
	WorkExperience *[]work.Work
}

// ChangedFields names the parts of the profile the input touches.
func (in UpdateProfileInput) ChangedFields() []string {
	var fields []string
	c := in.Changes
	if c.Name != nil {
		fields = append(fields, "name")
	}
	if c.Email != nil {
		fields = append(fields, "email")
	}
	if c.Education != nil {
		fields = append(fields, "education")
	}
	if c.GithubLink.Set {
		fields = append(fields, "github_link")
	}
	if c.LinkedinLink.Set {
		fields = append(fields, "linkedin_link")
	}
	if c.PortfolioLink.Set {
		fields = append(fields, "portfolio_link")
	}
	if in.Skills != nil {
		fields = append(fields, "skills")
	}
	if in.Projects != nil {
		fields = append(fields, "projects")
	}
	if in.WorkExperience != nil {
		fields = append(fields, "work_experience")
	}
	return fields
}

func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*ProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteUpdateProfile")
	defer span.End()

	var updated *profile.Profile
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := uc.profileRepo.Get(ctx)
		if err != nil {
			return err
		}

		if !input.Changes.IsEmpty() {
			p.Apply(input.Changes)
			if err := uc.profileRepo.Update(ctx, p); err != nil {
				return err
			}
		}

		if input.Skills != nil {
			skills, err := uc.skillRepo.FindOrCreate(ctx, *input.Skills)
			if err != nil {
				return err
			}
			if err := uc.skillRepo.SetSkillsForProfile(ctx, p.ID, skill.IDs(skills)); err != nil {
				return err
			}
		}

		if input.Projects != nil {
			projects, err := uc.insertProjects(ctx, *input.Projects)
			if err != nil {
				return err
			}
			if err := uc.projectRepo.SetProjectsForProfile(ctx, p.ID, project.IDs(projects)); err != nil {
				return err
			}
		}

		if input.WorkExperience != nil {
			items, err := uc.insertWork(ctx, *input.WorkExperience)
			if err != nil {
				return err
			}
			if err := uc.workRepo.SetWorkForProfile(ctx, p.ID, work.IDs(items)); err != nil {
				return err
			}
		}

		if err := uc.loadAssociations(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("update profile failed: %w", err)
	}

	fields := input.ChangedFields()
	uc.logger.Info("Profile updated", zap.Int64("profile_id", updated.ID), zap.Strings("fields", fields))
	uc.publish(ctx, service.ProfileEventUpdated, updated.ID, fields)
	return &ProfileOutput{Profile: updated}, nil
}

// insertProjects always inserts new rows; existing projects are never reused.
func (uc *ProfileUseCase) insertProjects(ctx context.Context, in []project.Project) ([]project.Project, error) {
	projects := make([]project.Project, 0, len(in))
	for _, p := range in {
		p.ID = 0
		if err := uc.projectRepo.Create(ctx, &p); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (uc *ProfileUseCase) insertWork(ctx context.Context, in []work.Work) ([]work.Work, error) {
	items := make([]work.Work, 0, len(in))
	for _, w := range in {
		w.ID = 0
		if err := uc.workRepo.Create(ctx, &w); err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, nil
}

func (uc *ProfileUseCase) loadAssociations(ctx context.Context, p *profile.Profile) error {
	skills, err := uc.skillRepo.GetSkillsForProfile(ctx, p.ID)
	if err != nil {
		return err
	}
	projects, err := uc.projectRepo.GetProjectsForProfile(ctx, p.ID)
	if err != nil {
		return err
	}
	items, err := uc.workRepo.GetWorkForProfile(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Skills = skills
	p.Projects = projects
	p.WorkExperience = items
	return nil
}

// publish runs after commit; a failed notification never fails the request.
func (uc *ProfileUseCase) publish(ctx context.Context, eventType service.ProfileEventType, profileID int64, fields []string) {
	if uc.publisher == nil {
		return
	}
	event := service.ProfileEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		ProfileID:  profileID,
		Fields:     fields,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.publisher.PublishProfileEvent(ctx, event); err != nil {
		uc.logger.Warn("Failed to publish profile event",
			zap.String("event_type", string(eventType)),
			zap.Int64("profile_id", profileID),
			zap.Error(err),
		)
	}
}
