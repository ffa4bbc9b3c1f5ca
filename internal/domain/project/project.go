package project

import (
	"context"
)

// Project rows are never deduplicated: every write inserts fresh rows.
type Project struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	GithubLink  *string `json:"github_link"`
	DemoLink    *string `json:"demo_link"`
}

func IDs(projects []Project) []int64 {
	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}

type Repository interface {
	Create(ctx context.Context, project *Project) error
	SetProjectsForProfile(ctx context.Context, profileID int64, projectIDs []int64) error
	GetProjectsForProfile(ctx context.Context, profileID int64) ([]Project, error)
	// ListBySkill returns each project reachable from a profile owning a skill
	// whose name contains skillQuery, case-insensitively, exactly once.
	ListBySkill(ctx context.Context, skillQuery string) ([]Project, error)
	Search(ctx context.Context, query string) ([]Project, error)
}
