package http

import (
	profileUC "github.com/khoahotran/me-api/internal/application/usecase/profile"
	"github.com/khoahotran/me-api/internal/domain/profile"
	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/internal/domain/search"
	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/internal/domain/work"
	"github.com/khoahotran/me-api/pkg/optional"
)

// Profile DTOs

type SkillDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProjectDTO struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	GithubLink  *string `json:"github_link"`
	DemoLink    *string `json:"demo_link"`
}

type WorkDTO struct {
	ID          int64   `json:"id"`
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	Duration    string  `json:"duration"`
	WebsiteLink *string `json:"website_link"`
}

type ProfileDTO struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Education      string       `json:"education"`
	GithubLink     *string      `json:"github_link"`
	LinkedinLink   *string      `json:"linkedin_link"`
	PortfolioLink  *string      `json:"portfolio_link"`
	Skills         []SkillDTO   `json:"skills"`
	Projects       []ProjectDTO `json:"projects"`
	WorkExperience []WorkDTO    `json:"work_experience"`
}

// Required strings are pointers so that binding checks presence, not emptiness.
type ProjectRequest struct {
	Title       *string `json:"title" binding:"required"`
	Description *string `json:"description" binding:"required"`
	GithubLink  *string `json:"github_link"`
	DemoLink    *string `json:"demo_link"`
}

type WorkRequest struct {
	Company     *string `json:"company" binding:"required"`
	Role        *string `json:"role" binding:"required"`
	Duration    *string `json:"duration" binding:"required"`
	WebsiteLink *string `json:"website_link"`
}

type CreateProfileRequest struct {
	Name           *string          `json:"name" binding:"required"`
	Email          *string          `json:"email" binding:"required"`
	Education      *string          `json:"education" binding:"required"`
	GithubLink     *string          `json:"github_link"`
	LinkedinLink   *string          `json:"linkedin_link"`
	PortfolioLink  *string          `json:"portfolio_link"`
	Skills         []string         `json:"skills"`
	Projects       []ProjectRequest `json:"projects" binding:"omitempty,dive"`
	WorkExperience []WorkRequest    `json:"work_experience" binding:"omitempty,dive"`
}

// UpdateProfileRequest distinguishes absent keys from present ones. A link sent
// as null clears it; a list sent as [] clears the associations.
type UpdateProfileRequest struct {
	Name           *string                 `json:"name"`
	Email          *string                 `json:"email"`
	Education      *string                 `json:"education"`
	GithubLink     optional.Value[*string] `json:"github_link"`
	LinkedinLink   optional.Value[*string] `json:"linkedin_link"`
	PortfolioLink  optional.Value[*string] `json:"portfolio_link"`
	Skills         *[]string               `json:"skills"`
	Projects       *[]ProjectRequest       `json:"projects" binding:"omitempty,dive"`
	WorkExperience *[]WorkRequest          `json:"work_experience" binding:"omitempty,dive"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDomainProjects(in []ProjectRequest) []project.Project {
	out := make([]project.Project, len(in))
	for i, p := range in {
		out[i] = project.Project{
			Title:       deref(p.Title),
			Description: deref(p.Description),
			GithubLink:  p.GithubLink,
			DemoLink:    p.DemoLink,
		}
	}
	return out
}

func toDomainWork(in []WorkRequest) []work.Work {
	out := make([]work.Work, len(in))
	for i, w := range in {
		out[i] = work.Work{
			Company:     deref(w.Company),
			Role:        deref(w.Role),
			Duration:    deref(w.Duration),
			WebsiteLink: w.WebsiteLink,
		}
	}
	return out
}

func (req *CreateProfileRequest) ToInput() profileUC.CreateProfileInput {
	return profileUC.CreateProfileInput{
		Name:           deref(req.Name),
		Email:          deref(req.Email),
		Education:      deref(req.Education),
		GithubLink:     req.GithubLink,
		LinkedinLink:   req.LinkedinLink,
		PortfolioLink:  req.PortfolioLink,
		Skills:         req.Skills,
		Projects:       toDomainProjects(req.Projects),
		WorkExperience: toDomainWork(req.WorkExperience),
	}
}

func (req *UpdateProfileRequest) ToInput() profileUC.UpdateProfileInput {
	input := profileUC.UpdateProfileInput{
		Changes: profile.Changes{
			Name:          req.Name,
			Email:         req.Email,
			Education:     req.Education,
			GithubLink:    req.GithubLink,
			LinkedinLink:  req.LinkedinLink,
			PortfolioLink: req.PortfolioLink,
		},
		Skills: req.Skills,
	}
	if req.Projects != nil {
		projects := toDomainProjects(*req.Projects)
		input.Projects = &projects
	}
	if req.WorkExperience != nil {
		items := toDomainWork(*req.WorkExperience)
		input.WorkExperience = &items
	}
	return input
}

func ToProjectDTO(p project.Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		GithubLink:  p.GithubLink,
		DemoLink:    p.DemoLink,
	}
}

func ToProjectDTOs(projects []project.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}

func ToProfileDTO(p *profile.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		Education:     p.Education,
		GithubLink:    p.GithubLink,
		LinkedinLink:  p.LinkedinLink,
		PortfolioLink: p.PortfolioLink,
		Projects:      ToProjectDTOs(p.Projects),
	}
	dto.Skills = make([]SkillDTO, len(p.Skills))
	for i, s := range p.Skills {
		dto.Skills[i] = SkillDTO{ID: s.ID, Name: s.Name}
	}
	dto.WorkExperience = make([]WorkDTO, len(p.WorkExperience))
	for i, w := range p.WorkExperience {
		dto.WorkExperience[i] = WorkDTO{
			ID:          w.ID,
			Company:     w.Company,
			Role:        w.Role,
			Duration:    w.Duration,
			WebsiteLink: w.WebsiteLink,
		}
	}
	return dto
}

// Query DTOs

type SkillCountDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func ToSkillCountDTOs(usages []skill.Usage) []SkillCountDTO {
	dtos := make([]SkillCountDTO, len(usages))
	for i, u := range usages {
		dtos[i] = SkillCountDTO{Name: u.Name, Count: u.Count}
	}
	return dtos
}

type SearchResultDTO struct {
	Type           string  `json:"type"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	RelevanceScore float64 `json:"relevance_score"`
}

func ToSearchResultDTO(r search.Result) SearchResultDTO {
	return SearchResultDTO{
		Type:           string(r.Type),
		Title:          r.Title,
		Description:    r.Description,
		RelevanceScore: r.RelevanceScore,
	}
}
