package skill

import (
	"context"
)

// Skill is identified by its exact, case-sensitive name.
type Skill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Usage is the number of profile associations a skill participates in.
type Usage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

const DefaultTopLimit = 10

// UniqueNames drops repeated names, keeping the first occurrence and input order.
func UniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func IDs(skills []Skill) []int64 {
	ids := make([]int64, len(skills))
	for i, s := range skills {
		ids[i] = s.ID
	}
	return ids
}

type Repository interface {
	// FindOrCreate returns one Skill per distinct name, in first-seen order,
	// reusing rows whose name already exists.
	FindOrCreate(ctx context.Context, names []string) ([]Skill, error)
	SetSkillsForProfile(ctx context.Context, profileID int64, skillIDs []int64) error
	GetSkillsForProfile(ctx context.Context, profileID int64) ([]Skill, error)
	// ListTop orders by association count descending, then name and id ascending.
	ListTop(ctx context.Context, limit int) ([]Usage, error)
	Search(ctx context.Context, query string) ([]Skill, error)
}
