package persistence

import (
	"context"
	"errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/me-api/internal/domain/profile"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

type postgresProfileRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProfileRepo(db *pgxpool.Pool, logger logger.Logger) profile.Repository {
	return &postgresProfileRepo{db: db, logger: logger}
}

func (r *postgresProfileRepo) Get(ctx context.Context) (*profile.Profile, error) {
	query := `
		SELECT id, name, email, education, github_link, linkedin_link, portfolio_link
		FROM profiles
		ORDER BY id
		LIMIT 1
	`
	p := &profile.Profile{}
	err := conn(ctx, r.db).QueryRow(ctx, query).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Education,
		&p.GithubLink,
		&p.LinkedinLink,
		&p.PortfolioLink,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Profile", "current")
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}
	return p, nil
}

func (r *postgresProfileRepo) Exists(ctx context.Context) (bool, error) {
	var exists bool
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles)`).Scan(&exists); err != nil {
		return false, apperror.NewInternal("failed to check profile existence", err)
	}
	return exists, nil
}

// Lock blocks concurrent creators until the surrounding transaction ends.
// Readers are not blocked.
func (r *postgresProfileRepo) Lock(ctx context.Context) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return apperror.NewInternal("profile lock requires a transaction", nil)
	}
	if _, err := tx.Exec(ctx, `LOCK TABLE profiles IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return apperror.NewInternal("failed to lock profiles", err)
	}
	return nil
}

func (r *postgresProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	query := `
		INSERT INTO profiles (name, email, education, github_link, linkedin_link, portfolio_link)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		p.Name, p.Email, p.Education, p.GithubLink, p.LinkedinLink, p.PortfolioLink,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("Profile", "email", p.Email)
		}
		return apperror.NewInternal("failed to save profile", err)
	}
	return nil
}

func (r *postgresProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	builder := psql.Update("profiles").
		SetMap(map[string]any{
			"name":           p.Name,
			"email":          p.Email,
			"education":      p.Education,
			"github_link":    p.GithubLink,
			"linkedin_link":  p.LinkedinLink,
			"portfolio_link": p.PortfolioLink,
		}).
		Where(sq.Eq{"id": p.ID})

	sql, args, err := builder.ToSql()
	if err != nil {
		return apperror.NewInternal("failed to build profile update", err)
	}

	cmdTag, err := conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("Profile", "email", p.Email)
		}
		return apperror.NewInternal("failed to update profile", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Profile", strconv.FormatInt(p.ID, 10))
	}

	r.logger.Debug("Profile row updated", zap.Int64("profile_id", p.ID))
	return nil
}
