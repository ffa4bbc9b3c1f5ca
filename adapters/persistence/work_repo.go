package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/me-api/internal/domain/work"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

type postgresWorkRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresWorkRepo(db *pgxpool.Pool, logger logger.Logger) work.Repository {
	return &postgresWorkRepo{db: db, logger: logger}
}

const workColumns = "w.id, w.company, w.role, w.duration, w.website_link"

func scanWork(rows pgx.Rows) ([]work.Work, error) {
	defer rows.Close()
	items := make([]work.Work, 0)
	for rows.Next() {
		var w work.Work
		if err := rows.Scan(&w.ID, &w.Company, &w.Role, &w.Duration, &w.WebsiteLink); err != nil {
			return nil, apperror.NewInternal("failed to scan work row", err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating work rows", err)
	}
	return items, nil
}

func (r *postgresWorkRepo) Create(ctx context.Context, w *work.Work) error {
	query := `
		INSERT INTO work (company, role, duration, website_link)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		w.Company, w.Role, w.Duration, w.WebsiteLink,
	).Scan(&w.ID)
	if err != nil {
		return apperror.NewInternal("failed to save work experience", err)
	}
	return nil
}

func (r *postgresWorkRepo) SetWorkForProfile(ctx context.Context, profileID int64, workIDs []int64) error {
	return replaceLinks(ctx, conn(ctx, r.db), "profile_work", "work_id", profileID, workIDs)
}

func (r *postgresWorkRepo) GetWorkForProfile(ctx context.Context, profileID int64) ([]work.Work, error) {
	query := `
		SELECT ` + workColumns + `
		FROM work w
		JOIN profile_work pw ON pw.work_id = w.id
		WHERE pw.profile_id = $1
		ORDER BY w.id
	`
	rows, err := conn(ctx, r.db).Query(ctx, query, profileID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query profile work experience", err)
	}
	return scanWork(rows)
}

func (r *postgresWorkRepo) Search(ctx context.Context, query string) ([]work.Work, error) {
	pattern := containsPattern(query)
	builder := psql.Select(workColumns).
		From("work w").
		Where(sq.Or{
			sq.ILike{"w.company": pattern},
			sq.ILike{"w.role": pattern},
		}).
		OrderBy("w.id")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build work search query", err)
	}

	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to search work experience", err)
	}
	return scanWork(rows)
}
