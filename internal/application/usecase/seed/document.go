package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	profileUC "github.com/khoahotran/me-api/internal/application/usecase/profile"
	"github.com/khoahotran/me-api/internal/domain/profile"
	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/internal/domain/work"
	"github.com/khoahotran/me-api/pkg/apperror"
)

//go:embed default_profile.yaml
var defaultProfile []byte

// Document is the YAML form of a whole profile. It is both the seed input and
// the backup output.
type Document struct {
	Name           string         `yaml:"name"`
	Email          string         `yaml:"email"`
	Education      string         `yaml:"education"`
	GithubLink     *string        `yaml:"github_link,omitempty"`
	LinkedinLink   *string        `yaml:"linkedin_link,omitempty"`
	PortfolioLink  *string        `yaml:"portfolio_link,omitempty"`
	Skills         []string       `yaml:"skills"`
	Projects       []documentProj `yaml:"projects"`
	WorkExperience []documentWork `yaml:"work_experience"`
}

type documentProj struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	GithubLink  *string `yaml:"github_link,omitempty"`
	DemoLink    *string `yaml:"demo_link,omitempty"`
}

type documentWork struct {
	Company     string  `yaml:"company"`
	Role        string  `yaml:"role"`
	Duration    string  `yaml:"duration"`
	WebsiteLink *string `yaml:"website_link,omitempty"`
}

// DefaultDocument returns the built-in seed profile.
func DefaultDocument() (*Document, error) {
	return Parse(bytes.NewReader(defaultProfile))
}

// Parse decodes a seed document. Required keys must be present and non-null;
// an empty string is a valid value, matching what the HTTP API accepts.
func Parse(r io.Reader) (*Document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		return nil, apperror.NewInvalidInput("failed to parse seed document", err)
	}
	var doc Document
	if err := root.Decode(&doc); err != nil {
		return nil, apperror.NewInvalidInput("failed to parse seed document", err)
	}
	if err := checkRequired(&root); err != nil {
		return nil, err
	}
	return &doc, nil
}

var (
	requiredProfileKeys = []string{"name", "email", "education"}
	requiredProjectKeys = []string{"title", "description"}
	requiredWorkKeys    = []string{"company", "role", "duration"}
)

func checkRequired(root *yaml.Node) error {
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	missing := missingKeys(root, requiredProfileKeys)
	for i, item := range sequenceItems(mappingValue(root, "projects")) {
		if len(missingKeys(item, requiredProjectKeys)) > 0 {
			missing = append(missing, fmt.Sprintf("projects[%d]", i))
		}
	}
	for i, item := range sequenceItems(mappingValue(root, "work_experience")) {
		if len(missingKeys(item, requiredWorkKeys)) > 0 {
			missing = append(missing, fmt.Sprintf("work_experience[%d]", i))
		}
	}
	if len(missing) > 0 {
		return apperror.NewInvalidInput("seed document is missing required fields: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// mappingValue returns the value node for key, or nil when n is not a mapping
// or lacks the key.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func missingKeys(n *yaml.Node, keys []string) []string {
	var missing []string
	for _, key := range keys {
		v := mappingValue(n, key)
		if v == nil || v.Tag == "!!null" {
			missing = append(missing, key)
		}
	}
	return missing
}

func sequenceItems(n *yaml.Node) []*yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	return n.Content
}

func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode seed document: %w", err)
	}
	return enc.Close()
}

func (d *Document) ToCreateInput() profileUC.CreateProfileInput {
	projects := make([]project.Project, len(d.Projects))
	for i, p := range d.Projects {
		projects[i] = project.Project{
			Title:       p.Title,
			Description: p.Description,
			GithubLink:  p.GithubLink,
			DemoLink:    p.DemoLink,
		}
	}
	items := make([]work.Work, len(d.WorkExperience))
	for i, w := range d.WorkExperience {
		items[i] = work.Work{
			Company:     w.Company,
			Role:        w.Role,
			Duration:    w.Duration,
			WebsiteLink: w.WebsiteLink,
		}
	}
	return profileUC.CreateProfileInput{
		Name:           d.Name,
		Email:          d.Email,
		Education:      d.Education,
		GithubLink:     d.GithubLink,
		LinkedinLink:   d.LinkedinLink,
		PortfolioLink:  d.PortfolioLink,
		Skills:         d.Skills,
		Projects:       projects,
		WorkExperience: items,
	}
}

// FromProfile drops ids; a re-seed always creates fresh rows.
func FromProfile(p *profile.Profile) *Document {
	doc := &Document{
		Name:           p.Name,
		Email:          p.Email,
		Education:      p.Education,
		GithubLink:     p.GithubLink,
		LinkedinLink:   p.LinkedinLink,
		PortfolioLink:  p.PortfolioLink,
		Skills:         make([]string, len(p.Skills)),
		Projects:       make([]documentProj, len(p.Projects)),
		WorkExperience: make([]documentWork, len(p.WorkExperience)),
	}
	for i, s := range p.Skills {
		doc.Skills[i] = s.Name
	}
	for i, pr := range p.Projects {
		doc.Projects[i] = documentProj{
			Title:       pr.Title,
			Description: pr.Description,
			GithubLink:  pr.GithubLink,
			DemoLink:    pr.DemoLink,
		}
	}
	for i, w := range p.WorkExperience {
		doc.WorkExperience[i] = documentWork{
			Company:     w.Company,
			Role:        w.Role,
			Duration:    w.Duration,
			WebsiteLink: w.WebsiteLink,
		}
	}
	return doc
}
