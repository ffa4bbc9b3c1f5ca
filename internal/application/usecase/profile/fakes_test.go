package profile

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/khoahotran/me-api/internal/application/service"
	"github.com/khoahotran/me-api/internal/domain/profile"
	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/internal/domain/work"
	"github.com/khoahotran/me-api/pkg/apperror"
)

// memState is the whole fake database; transactions snapshot and restore it.
type memState struct {
	nextID          int64
	profiles        []profile.Profile
	skills          []skill.Skill
	projects        []project.Project
	work            []work.Work
	profileSkills   map[int64][]int64
	profileProjects map[int64][]int64
	profileWork     map[int64][]int64
}

func cloneLinks(m map[int64][]int64) map[int64][]int64 {
	out := make(map[int64][]int64, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

func (s memState) clone() memState {
	return memState{
		nextID:          s.nextID,
		profiles:        slices.Clone(s.profiles),
		skills:          slices.Clone(s.skills),
		projects:        slices.Clone(s.projects),
		work:            slices.Clone(s.work),
		profileSkills:   cloneLinks(s.profileSkills),
		profileProjects: cloneLinks(s.profileProjects),
		profileWork:     cloneLinks(s.profileWork),
	}
}

type memStore struct {
	state     memState
	failOn    map[string]error
	lockCalls int
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			profileSkills:   map[int64][]int64{},
			profileProjects: map[int64][]int64{},
			profileWork:     map[int64][]int64{},
		},
		failOn: map[string]error{},
	}
}

var errInjected = apperror.NewInternal("injected failure", errors.New("storage down"))

func (s *memStore) fail(op string) error {
	return s.failOn[op]
}

func (s *memStore) id() int64 {
	s.state.nextID++
	return s.state.nextID
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := s.state.clone()
	if err := fn(ctx); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

var _ service.Transactor = (*memStore)(nil)

type memProfileRepo struct{ s *memStore }

func (r memProfileRepo) Get(ctx context.Context) (*profile.Profile, error) {
	if err := r.s.fail("profile.Get"); err != nil {
		return nil, err
	}
	if len(r.s.state.profiles) == 0 {
		return nil, apperror.NewNotFound("Profile", "current")
	}
	p := r.s.state.profiles[0]
	return &p, nil
}

func (r memProfileRepo) Exists(ctx context.Context) (bool, error) {
	return len(r.s.state.profiles) > 0, r.s.fail("profile.Exists")
}

func (r memProfileRepo) Lock(ctx context.Context) error {
	r.s.lockCalls++
	return r.s.fail("profile.Lock")
}

func (r memProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	if err := r.s.fail("profile.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.state.profiles {
		if existing.Email == p.Email {
			return apperror.NewConflict("Profile", "email", p.Email)
		}
	}
	p.ID = r.s.id()
	row := *p
	row.Skills, row.Projects, row.WorkExperience = nil, nil, nil
	r.s.state.profiles = append(r.s.state.profiles, row)
	return nil
}

func (r memProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	if err := r.s.fail("profile.Update"); err != nil {
		return err
	}
	for i := range r.s.state.profiles {
		if r.s.state.profiles[i].ID == p.ID {
			row := *p
			row.Skills, row.Projects, row.WorkExperience = nil, nil, nil
			r.s.state.profiles[i] = row
			return nil
		}
	}
	return apperror.NewNotFound("Profile", "current")
}

type memSkillRepo struct{ s *memStore }

func (r memSkillRepo) FindOrCreate(ctx context.Context, names []string) ([]skill.Skill, error) {
	if err := r.s.fail("skill.FindOrCreate"); err != nil {
		return nil, err
	}
	out := make([]skill.Skill, 0, len(names))
	for _, name := range skill.UniqueNames(names) {
		idx := slices.IndexFunc(r.s.state.skills, func(s skill.Skill) bool { return s.Name == name })
		if idx >= 0 {
			out = append(out, r.s.state.skills[idx])
			continue
		}
		sk := skill.Skill{ID: r.s.id(), Name: name}
		r.s.state.skills = append(r.s.state.skills, sk)
		out = append(out, sk)
	}
	return out, nil
}

func (r memSkillRepo) SetSkillsForProfile(ctx context.Context, profileID int64, ids []int64) error {
	if err := r.s.fail("skill.SetSkillsForProfile"); err != nil {
		return err
	}
	r.s.state.profileSkills[profileID] = slices.Clone(ids)
	return nil
}

func (r memSkillRepo) GetSkillsForProfile(ctx context.Context, profileID int64) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0)
	for _, sk := range r.s.state.skills {
		if slices.Contains(r.s.state.profileSkills[profileID], sk.ID) {
			out = append(out, sk)
		}
	}
	return out, nil
}

func (r memSkillRepo) ListTop(ctx context.Context, limit int) ([]skill.Usage, error) {
	counts := map[int64]int{}
	for _, ids := range r.s.state.profileSkills {
		for _, id := range ids {
			counts[id]++
		}
	}
	out := make([]skill.Usage, 0)
	for _, sk := range r.s.state.skills {
		if counts[sk.ID] > 0 {
			out = append(out, skill.Usage{Name: sk.Name, Count: counts[sk.ID]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if limit < len(out) {
		out = out[:max(limit, 0)]
	}
	return out, nil
}

func (r memSkillRepo) Search(ctx context.Context, query string) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0)
	for _, sk := range r.s.state.skills {
		if strings.Contains(strings.ToLower(sk.Name), strings.ToLower(query)) {
			out = append(out, sk)
		}
	}
	return out, nil
}

type memProjectRepo struct{ s *memStore }

func (r memProjectRepo) Create(ctx context.Context, p *project.Project) error {
	if err := r.s.fail("project.Create"); err != nil {
		return err
	}
	p.ID = r.s.id()
	r.s.state.projects = append(r.s.state.projects, *p)
	return nil
}

func (r memProjectRepo) SetProjectsForProfile(ctx context.Context, profileID int64, ids []int64) error {
	r.s.state.profileProjects[profileID] = slices.Clone(ids)
	return nil
}

func (r memProjectRepo) GetProjectsForProfile(ctx context.Context, profileID int64) ([]project.Project, error) {
	out := make([]project.Project, 0)
	for _, p := range r.s.state.projects {
		if slices.Contains(r.s.state.profileProjects[profileID], p.ID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProjectRepo) ListBySkill(ctx context.Context, skillQuery string) ([]project.Project, error) {
	matching, _ := memSkillRepo(r).Search(ctx, skillQuery)
	owners := map[int64]bool{}
	for profileID, ids := range r.s.state.profileSkills {
		for _, sk := range matching {
			if slices.Contains(ids, sk.ID) {
				owners[profileID] = true
			}
		}
	}
	out := make([]project.Project, 0)
	for _, p := range r.s.state.projects {
		for _, profileID := range slices.Sorted(maps.Keys(owners)) {
			if slices.Contains(r.s.state.profileProjects[profileID], p.ID) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r memProjectRepo) Search(ctx context.Context, query string) ([]project.Project, error) {
	q := strings.ToLower(query)
	out := make([]project.Project, 0)
	for _, p := range r.s.state.projects {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

type memWorkRepo struct{ s *memStore }

func (r memWorkRepo) Create(ctx context.Context, w *work.Work) error {
	if err := r.s.fail("work.Create"); err != nil {
		return err
	}
	w.ID = r.s.id()
	r.s.state.work = append(r.s.state.work, *w)
	return nil
}

func (r memWorkRepo) SetWorkForProfile(ctx context.Context, profileID int64, ids []int64) error {
	r.s.state.profileWork[profileID] = slices.Clone(ids)
	return nil
}

func (r memWorkRepo) GetWorkForProfile(ctx context.Context, profileID int64) ([]work.Work, error) {
	out := make([]work.Work, 0)
	for _, w := range r.s.state.work {
		if slices.Contains(r.s.state.profileWork[profileID], w.ID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r memWorkRepo) Search(ctx context.Context, query string) ([]work.Work, error) {
	q := strings.ToLower(query)
	out := make([]work.Work, 0)
	for _, w := range r.s.state.work {
		if strings.Contains(strings.ToLower(w.Company), q) || strings.Contains(strings.ToLower(w.Role), q) {
			out = append(out, w)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	events []service.ProfileEvent
	err    error
}

func (p *recordingPublisher) PublishProfileEvent(ctx context.Context, event service.ProfileEvent) error {
	p.events = append(p.events, event)
	return p.err
}
