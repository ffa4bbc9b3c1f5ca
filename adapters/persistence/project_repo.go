package persistence

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

type postgresProjectRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresProjectRepo(db *pgxpool.Pool, logger logger.Logger) project.Repository {
	return &postgresProjectRepo{db: db, logger: logger}
}

const projectColumns = "p.id, p.title, p.description, p.github_link, p.demo_link"

func scanProjects(rows pgx.Rows) ([]project.Project, error) {
	defer rows.Close()
	projects := make([]project.Project, 0)

	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.GithubLink, &p.DemoLink); err != nil {
			return nil, apperror.NewInternal("failed to scan project row", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating project rows", err)
	}
	return projects, nil
}

func (r *postgresProjectRepo) queryProjects(ctx context.Context, builder sq.SelectBuilder, op string) ([]project.Project, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build "+op+" query", err)
	}

	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to "+op, err)
	}
	return scanProjects(rows)
}

func (r *postgresProjectRepo) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (title, description, github_link, demo_link)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := conn(ctx, r.db).QueryRow(ctx, query,
		p.Title, p.Description, p.GithubLink, p.DemoLink,
	).Scan(&p.ID)
	if err != nil {
		return apperror.NewInternal("failed to save project", err)
	}
	return nil
}

func (r *postgresProjectRepo) SetProjectsForProfile(ctx context.Context, profileID int64, projectIDs []int64) error {
	return replaceLinks(ctx, conn(ctx, r.db), "profile_projects", "project_id", profileID, projectIDs)
}

func (r *postgresProjectRepo) GetProjectsForProfile(ctx context.Context, profileID int64) ([]project.Project, error) {
	builder := psql.Select(projectColumns).
		From("projects p").
		Join("profile_projects pp ON pp.project_id = p.id").
		Where(sq.Eq{"pp.profile_id": profileID}).
		OrderBy("p.id")
	return r.queryProjects(ctx, builder, "query profile projects")
}

// ListBySkill filters with EXISTS so a project reachable through several
// matching skills is still returned once.
func (r *postgresProjectRepo) ListBySkill(ctx context.Context, skillQuery string) ([]project.Project, error) {
	builder := psql.Select(projectColumns).
		From("projects p").
		Where(sq.Expr(`EXISTS (
			SELECT 1
			FROM profile_projects pp
			JOIN profile_skills ps ON ps.profile_id = pp.profile_id
			JOIN skills s ON s.id = ps.skill_id
			WHERE pp.project_id = p.id AND s.name ILIKE ?
		)`, containsPattern(skillQuery))).
		OrderBy("p.id")
	return r.queryProjects(ctx, builder, "query projects by skill")
}

func (r *postgresProjectRepo) Search(ctx context.Context, query string) ([]project.Project, error) {
	pattern := containsPattern(query)
	builder := psql.Select(projectColumns).
		From("projects p").
		Where(sq.Or{
			sq.ILike{"p.title": pattern},
			sq.ILike{"p.description": pattern},
		}).
		OrderBy("p.id")
	return r.queryProjects(ctx, builder, "search projects")
}
