package profile

import (
	"context"

	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/internal/domain/work"
	"github.com/khoahotran/me-api/pkg/optional"
)

// Profile is the single owner record of a deployment.
type Profile struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Education      string            `json:"education"`
	GithubLink     *string           `json:"github_link"`
	LinkedinLink   *string           `json:"linkedin_link"`
	PortfolioLink  *string           `json:"portfolio_link"`
	Skills         []skill.Skill     `json:"skills"`
	Projects       []project.Project `json:"projects"`
	WorkExperience []work.Work       `json:"work_experience"`
}

// Changes carries a partial update of the scalar fields. A nil pointer or an
// unset optional leaves the field untouched; anything present overwrites it,
// including an empty string or, for links, nil.
type Changes struct {
	Name          *string
	Email         *string
	Education     *string
	GithubLink    optional.Value[*string]
	LinkedinLink  optional.Value[*string]
	PortfolioLink optional.Value[*string]
}

func (c Changes) IsEmpty() bool {
	return c.Name == nil && c.Email == nil && c.Education == nil &&
		!c.GithubLink.Set && !c.LinkedinLink.Set && !c.PortfolioLink.Set
}

func (p *Profile) Apply(c Changes) {
	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Email != nil {
		p.Email = *c.Email
	}
	if c.Education != nil {
		p.Education = *c.Education
	}
	c.GithubLink.ApplyTo(&p.GithubLink)
	c.LinkedinLink.ApplyTo(&p.LinkedinLink)
	c.PortfolioLink.ApplyTo(&p.PortfolioLink)
}

type Repository interface {
	// Get loads the scalar fields of the profile; associations are left empty.
	Get(ctx context.Context) (*Profile, error)
	Exists(ctx context.Context) (bool, error)
	// Lock serialises profile creation; it must run inside a transaction.
	Lock(ctx context.Context) error
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
}
