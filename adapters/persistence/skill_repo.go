package persistence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

type postgresSkillRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresSkillRepo(db *pgxpool.Pool, logger logger.Logger) skill.Repository {
	return &postgresSkillRepo{db: db, logger: logger}
}

func scanSkills(rows pgx.Rows) ([]skill.Skill, error) {
	defer rows.Close()
	skills := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, apperror.NewInternal("failed to scan skill", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating skills", err)
	}
	return skills, nil
}

// FindOrCreate inserts the missing names with ON CONFLICT DO NOTHING and then
// re-reads every requested name, so concurrent writers converge on one row per name.
func (r *postgresSkillRepo) FindOrCreate(ctx context.Context, names []string) ([]skill.Skill, error) {
	names = skill.UniqueNames(names)
	if len(names) == 0 {
		return []skill.Skill{}, nil
	}
	q := conn(ctx, r.db)

	insert := psql.Insert("skills").Columns("name")
	for _, name := range names {
		insert = insert.Values(name)
	}
	insertSQL, args, err := insert.Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build skill insert", err)
	}
	if _, err := q.Exec(ctx, insertSQL, args...); err != nil {
		return nil, apperror.NewInternal("failed to insert skills", err)
	}

	rows, err := q.Query(ctx, `SELECT id, name FROM skills WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, apperror.NewInternal("failed to retrieve skills", err)
	}
	found, err := scanSkills(rows)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]skill.Skill, len(found))
	for _, s := range found {
		byName[s.Name] = s
	}
	skills := make([]skill.Skill, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, apperror.NewInternal("skill vanished after upsert", fmt.Errorf("skill %q", name))
		}
		skills = append(skills, s)
	}

	r.logger.Debug("Resolved skills", zap.Int("requested", len(names)), zap.Int("resolved", len(skills)))
	return skills, nil
}

func (r *postgresSkillRepo) SetSkillsForProfile(ctx context.Context, profileID int64, skillIDs []int64) error {
	return replaceLinks(ctx, conn(ctx, r.db), "profile_skills", "skill_id", profileID, skillIDs)
}

func (r *postgresSkillRepo) GetSkillsForProfile(ctx context.Context, profileID int64) ([]skill.Skill, error) {
	query := `
		SELECT s.id, s.name
		FROM skills s
		JOIN profile_skills ps ON s.id = ps.skill_id
		WHERE ps.profile_id = $1
		ORDER BY s.id
	`
	rows, err := conn(ctx, r.db).Query(ctx, query, profileID)
	if err != nil {
		return nil, apperror.NewInternal("failed to query profile skills", err)
	}
	return scanSkills(rows)
}

func (r *postgresSkillRepo) ListTop(ctx context.Context, limit int) ([]skill.Usage, error) {
	if limit <= 0 {
		return []skill.Usage{}, nil
	}

	builder := psql.Select("s.name", "COUNT(ps.profile_id) AS usage_count").
		From("skills s").
		Join("profile_skills ps ON ps.skill_id = s.id").
		GroupBy("s.id", "s.name").
		OrderBy("usage_count DESC", "s.name ASC", "s.id ASC").
		Limit(uint64(limit))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build top skills query", err)
	}

	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query top skills", err)
	}
	defer rows.Close()

	usages := make([]skill.Usage, 0, limit)
	for rows.Next() {
		var u skill.Usage
		if err := rows.Scan(&u.Name, &u.Count); err != nil {
			return nil, apperror.NewInternal("failed to scan skill usage", err)
		}
		usages = append(usages, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating skill usage", err)
	}
	return usages, nil
}

func (r *postgresSkillRepo) Search(ctx context.Context, query string) ([]skill.Skill, error) {
	builder := psql.Select("id", "name").
		From("skills").
		Where(sq.ILike{"name": containsPattern(query)}).
		OrderBy("id")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build skill search query", err)
	}

	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to search skills", err)
	}
	return scanSkills(rows)
}
