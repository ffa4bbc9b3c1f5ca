package search

import (
	"fmt"

	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/internal/domain/work"
)

type ResultType string

const (
	TypeProject ResultType = "project"
	TypeSkill   ResultType = "skill"
	TypeWork    ResultType = "work"
)

// Relevance is a fixed weight per category; it is not derived from match quality.
const (
	ProjectRelevance = 1.0
	SkillRelevance   = 0.8
	WorkRelevance    = 0.7
)

type Result struct {
	Type           ResultType `json:"type"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	RelevanceScore float64    `json:"relevance_score"`
}

func FromProject(p project.Project) Result {
	return Result{
		Type:           TypeProject,
		Title:          p.Title,
		Description:    p.Description,
		RelevanceScore: ProjectRelevance,
	}
}

func FromSkill(s skill.Skill) Result {
	return Result{
		Type:           TypeSkill,
		Title:          s.Name,
		Description:    fmt.Sprintf("Technical skill: %s", s.Name),
		RelevanceScore: SkillRelevance,
	}
}

func FromWork(w work.Work) Result {
	return Result{
		Type:           TypeWork,
		Title:          fmt.Sprintf("%s at %s", w.Role, w.Company),
		Description:    fmt.Sprintf("Duration: %s", w.Duration),
		RelevanceScore: WorkRelevance,
	}
}

// Combine keeps category grouping: projects, then skills, then work.
func Combine(projects []project.Project, skills []skill.Skill, items []work.Work) []Result {
	results := make([]Result, 0, len(projects)+len(skills)+len(items))
	for _, p := range projects {
		results = append(results, FromProject(p))
	}
	for _, s := range skills {
		results = append(results, FromSkill(s))
	}
	for _, w := range items {
		results = append(results, FromWork(w))
	}
	return results
}
