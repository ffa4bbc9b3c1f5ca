package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/me-api/adapters/event"
	"github.com/khoahotran/me-api/internal/application/service"
	profileUC "github.com/khoahotran/me-api/internal/application/usecase/profile"
	searchUC "github.com/khoahotran/me-api/internal/application/usecase/search"
	"github.com/khoahotran/me-api/internal/application/usecase/seed"
	"github.com/khoahotran/me-api/internal/domain/profile"
	"github.com/khoahotran/me-api/internal/domain/project"
	"github.com/khoahotran/me-api/internal/domain/search"
	"github.com/khoahotran/me-api/internal/domain/skill"
	"github.com/khoahotran/me-api/internal/domain/work"
	"github.com/khoahotran/me-api/pkg/apperror"
	"github.com/khoahotran/me-api/pkg/logger"
)

type RepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	testLogger  logger.Logger

	tx          service.Transactor
	profileRepo profile.Repository
	skillRepo   skill.Repository
	projectRepo project.Repository
	workRepo    work.Repository
}

func (s *RepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.testLogger = logger.NewNopLogger()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	if err := RunMigrations(dsn, s.testLogger); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}
	// A second run must be a no-op.
	if err := RunMigrations(dsn, s.testLogger); err != nil {
		s.T().Fatalf("Re-running migrations failed: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.tx = NewPostgresTransactor(pool, s.testLogger)
	s.profileRepo = NewPostgresProfileRepo(pool, s.testLogger)
	s.skillRepo = NewPostgresSkillRepo(pool, s.testLogger)
	s.projectRepo = NewPostgresProjectRepo(pool, s.testLogger)
	s.workRepo = NewPostgresWorkRepo(pool, s.testLogger)
}

func (s *RepoIntegrationTestSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), `
		TRUNCATE profile_skills, profile_projects, profile_work, profiles, skills, projects, work
		RESTART IDENTITY CASCADE
	`)
	s.Require().NoError(err)
}

func (s *RepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RepoIntegrationTestSuite))
}

func (s *RepoIntegrationTestSuite) newProfile(ctx context.Context, email string) *profile.Profile {
	p := &profile.Profile{Name: "Mir Asrar", Email: email, Education: "NIT Delhi"}
	s.Require().NoError(s.profileRepo.Create(ctx, p))
	return p
}

func (s *RepoIntegrationTestSuite) newProject(ctx context.Context, title, description string) project.Project {
	p := project.Project{Title: title, Description: description}
	s.Require().NoError(s.projectRepo.Create(ctx, &p))
	return p
}

func (s *RepoIntegrationTestSuite) Test_FindOrCreate_ReusesExistingByExactName() {
	ctx := context.Background()

	first, err := s.skillRepo.FindOrCreate(ctx, []string{"Go"})
	s.Require().NoError(err)
	s.Require().Len(first, 1)

	again, err := s.skillRepo.FindOrCreate(ctx, []string{"Go", "go", "GO", "Go"})
	s.Require().NoError(err)
	s.Require().Len(again, 3)
	s.Equal(first[0].ID, again[0].ID)
	s.Equal([]string{"Go", "go", "GO"}, []string{again[0].Name, again[1].Name, again[2].Name})
	s.NotEqual(again[0].ID, again[1].ID)

	all, err := s.skillRepo.Search(ctx, "go")
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *RepoIntegrationTestSuite) Test_Profile_GetAndUpdate() {
	ctx := context.Background()

	_, err := s.profileRepo.Get(ctx)
	s.ErrorIs(err, apperror.ErrNotFound)

	exists, err := s.profileRepo.Exists(ctx)
	s.Require().NoError(err)
	s.False(exists)

	created := s.newProfile(ctx, "mir.asrar@example.com")
	s.NotZero(created.ID)

	link := "https://github.com/mirasrar"
	created.GithubLink = &link
	created.Education = ""
	s.Require().NoError(s.profileRepo.Update(ctx, created))

	got, err := s.profileRepo.Get(ctx)
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal("", got.Education)
	s.Require().NotNil(got.GithubLink)
	s.Equal(link, *got.GithubLink)
	s.Nil(got.LinkedinLink)

	dup := &profile.Profile{Name: "Other", Email: "mir.asrar@example.com", Education: "x"}
	s.ErrorIs(s.profileRepo.Create(ctx, dup), apperror.ErrConflict)
}

func (s *RepoIntegrationTestSuite) Test_Lock_RequiresTransaction() {
	ctx := context.Background()
	s.ErrorIs(s.profileRepo.Lock(ctx), apperror.ErrInternal)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.profileRepo.Lock(ctx)
	})
	s.NoError(err)
}

func (s *RepoIntegrationTestSuite) Test_WithinTx_RollsBackEveryWrite() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p := s.newProfile(ctx, "rollback@example.com")
		skills, err := s.skillRepo.FindOrCreate(ctx, []string{"Rust"})
		if err != nil {
			return err
		}
		if err := s.skillRepo.SetSkillsForProfile(ctx, p.ID, skill.IDs(skills)); err != nil {
			return err
		}
		s.newProject(ctx, "Doomed", "never committed")
		return boom
	})
	s.ErrorIs(err, boom)

	exists, err := s.profileRepo.Exists(ctx)
	s.Require().NoError(err)
	s.False(exists)

	skills, err := s.skillRepo.Search(ctx, "rust")
	s.Require().NoError(err)
	s.Empty(skills)

	projects, err := s.projectRepo.Search(ctx, "doomed")
	s.Require().NoError(err)
	s.Empty(projects)
}

func (s *RepoIntegrationTestSuite) Test_SetProjects_ReplacesLinksAndKeepsRows() {
	ctx := context.Background()
	p := s.newProfile(ctx, "mir.asrar@example.com")
	old := s.newProject(ctx, "Arduino Qibla Compass", "GPS module")
	fresh := s.newProject(ctx, "Audio Reactive LED Strip", "real-time visualization")

	s.Require().NoError(s.projectRepo.SetProjectsForProfile(ctx, p.ID, []int64{old.ID}))
	s.Require().NoError(s.projectRepo.SetProjectsForProfile(ctx, p.ID, []int64{fresh.ID, fresh.ID}))

	linked, err := s.projectRepo.GetProjectsForProfile(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal([]project.Project{fresh}, linked)

	orphan, err := s.projectRepo.Search(ctx, "qibla")
	s.Require().NoError(err)
	s.Equal([]project.Project{old}, orphan)

	s.Require().NoError(s.projectRepo.SetProjectsForProfile(ctx, p.ID, nil))
	linked, err = s.projectRepo.GetProjectsForProfile(ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(linked)
}

func (s *RepoIntegrationTestSuite) Test_Work_CreateLinkSearch() {
	ctx := context.Background()
	p := s.newProfile(ctx, "mir.asrar@example.com")
	site := "https://acme.example.com"
	w := work.Work{Company: "Acme Robotics", Role: "Embedded Engineer", Duration: "2022-2024", WebsiteLink: &site}
	s.Require().NoError(s.workRepo.Create(ctx, &w))
	s.Require().NoError(s.workRepo.SetWorkForProfile(ctx, p.ID, []int64{w.ID}))

	linked, err := s.workRepo.GetWorkForProfile(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal([]work.Work{w}, linked)

	byRole, err := s.workRepo.Search(ctx, "EMBEDDED")
	s.Require().NoError(err)
	s.Len(byRole, 1)

	byDuration, err := s.workRepo.Search(ctx, "2022")
	s.Require().NoError(err)
	s.Empty(byDuration)
}

func (s *RepoIntegrationTestSuite) Test_ListBySkill_ReturnsEachProjectOnce() {
	ctx := context.Background()
	p := s.newProfile(ctx, "mir.asrar@example.com")
	skills, err := s.skillRepo.FindOrCreate(ctx, []string{"Python", "PyTorch", "MATLAB"})
	s.Require().NoError(err)
	s.Require().NoError(s.skillRepo.SetSkillsForProfile(ctx, p.ID, skill.IDs(skills)))

	solar := s.newProject(ctx, "Solar Powered Wireless Charger", "solar-powered wireless charging")
	led := s.newProject(ctx, "Audio Reactive LED Strip", "LED strip")
	unlinked := s.newProject(ctx, "Unlinked", "not associated")
	s.Require().NoError(s.projectRepo.SetProjectsForProfile(ctx, p.ID, []int64{solar.ID, led.ID}))

	got, err := s.projectRepo.ListBySkill(ctx, "py")
	s.Require().NoError(err)
	s.Equal([]project.Project{solar, led}, got)

	got, err = s.projectRepo.ListBySkill(ctx, "pyth")
	s.Require().NoError(err)
	s.Len(got, 2)
	s.NotContains(got, unlinked)

	got, err = s.projectRepo.ListBySkill(ctx, "fortran")
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *RepoIntegrationTestSuite) Test_ListTop_OrdersByCountThenName() {
	ctx := context.Background()
	skills, err := s.skillRepo.FindOrCreate(ctx, []string{"B", "A", "C", "Unused"})
	s.Require().NoError(err)
	b, a, c := skills[0], skills[1], skills[2]

	for i := 0; i < 3; i++ {
		p := s.newProfile(ctx, fmt.Sprintf("owner-%d@example.com", i))
		ids := []int64{a.ID, b.ID}
		if i == 0 {
			ids = append(ids, c.ID)
		}
		s.Require().NoError(s.skillRepo.SetSkillsForProfile(ctx, p.ID, ids))
	}

	for i := 0; i < 3; i++ {
		top, err := s.skillRepo.ListTop(ctx, 2)
		s.Require().NoError(err)
		s.Equal([]skill.Usage{{Name: "A", Count: 3}, {Name: "B", Count: 3}}, top)
	}

	all, err := s.skillRepo.ListTop(ctx, 10)
	s.Require().NoError(err)
	s.Equal([]skill.Usage{{Name: "A", Count: 3}, {Name: "B", Count: 3}, {Name: "C", Count: 1}}, all)

	none, err := s.skillRepo.ListTop(ctx, 0)
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *RepoIntegrationTestSuite) Test_Search_MatchesLiterally() {
	ctx := context.Background()
	full := s.newProject(ctx, "100% Solar", "fully solar")
	s.newProject(ctx, "Solar lamp", "1000 lumens")

	got, err := s.projectRepo.Search(ctx, "100%")
	s.Require().NoError(err)
	s.Equal([]project.Project{full}, got)

	got, err = s.projectRepo.Search(ctx, "SOLAR")
	s.Require().NoError(err)
	s.Len(got, 2)
}

func (s *RepoIntegrationTestSuite) seedDefaultProfile(ctx context.Context) *profileUC.ProfileUseCase {
	uc := profileUC.NewProfileUseCase(s.tx, s.profileRepo, s.skillRepo, s.projectRepo, s.workRepo, event.NewNopPublisher(), s.testLogger)
	doc, err := seed.DefaultDocument()
	s.Require().NoError(err)
	out, err := seed.NewSeedUseCase(uc, s.testLogger).Execute(ctx, doc)
	s.Require().NoError(err)
	s.Require().True(out.Created)
	return uc
}

func (s *RepoIntegrationTestSuite) Test_Search_SeededChargerProjects() {
	ctx := context.Background()
	s.seedDefaultProfile(ctx)
	searcher := searchUC.NewSearchUseCase(s.projectRepo, s.skillRepo, s.workRepo, s.testLogger)

	out, err := searcher.Execute(ctx, searchUC.SearchInput{Query: "charger"})
	s.Require().NoError(err)
	s.Equal([]search.Result{
		{
			Type:           search.TypeProject,
			Title:          "Solar Powered Wireless Charger",
			Description:    "Designed and implemented a solar-powered wireless charging system for mobile devices",
			RelevanceScore: 1.0,
		},
		{
			Type:           search.TypeProject,
			Title:          "Auto Cut-off Battery Charger",
			Description:    "Developed an intelligent battery charger with automatic cut-off functionality",
			RelevanceScore: 1.0,
		},
	}, out.Results)

	// "charging" only appears in the solar project's description.
	out, err = searcher.Execute(ctx, searchUC.SearchInput{Query: "wireless charging"})
	s.Require().NoError(err)
	s.Require().Len(out.Results, 1)
	s.Equal("Solar Powered Wireless Charger", out.Results[0].Title)
}

func (s *RepoIntegrationTestSuite) Test_Search_GroupsProjectsSkillsWork() {
	ctx := context.Background()
	uc := s.seedDefaultProfile(ctx)

	skills := []string{"Charger Design", "Python"}
	items := []work.Work{{Company: "Charger Labs", Role: "Hardware Engineer", Duration: "2021-2023"}}
	_, err := uc.ExecuteUpdateProfile(ctx, profileUC.UpdateProfileInput{Skills: &skills, WorkExperience: &items})
	s.Require().NoError(err)

	out, err := searchUC.NewSearchUseCase(s.projectRepo, s.skillRepo, s.workRepo, s.testLogger).
		Execute(ctx, searchUC.SearchInput{Query: "CHARGER"})
	s.Require().NoError(err)

	types := make([]search.ResultType, len(out.Results))
	titles := make(map[string]int, len(out.Results))
	for i, r := range out.Results {
		types[i] = r.Type
		titles[string(r.Type)+"|"+r.Title]++
	}
	s.Equal([]search.ResultType{search.TypeProject, search.TypeProject, search.TypeSkill, search.TypeWork}, types)
	for key, n := range titles {
		s.Equal(1, n, "duplicate result %s", key)
	}
	s.Equal(search.Result{Type: search.TypeSkill, Title: "Charger Design", Description: "Technical skill: Charger Design", RelevanceScore: 0.8}, out.Results[2])
	s.Equal(search.Result{Type: search.TypeWork, Title: "Hardware Engineer at Charger Labs", Description: "Duration: 2021-2023", RelevanceScore: 0.7}, out.Results[3])
}
