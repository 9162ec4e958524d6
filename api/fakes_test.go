package api

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/fetchops/ai-project-catalog/catalog"
	"github.com/fetchops/ai-project-catalog/config"
	"github.com/fetchops/ai-project-catalog/errs"
	"github.com/fetchops/ai-project-catalog/models"
)

var errStoreDown = errors.New("dial tcp 10.0.0.5:5432: connection refused")

type fakeStore struct {
	mu       sync.Mutex
	projects []models.Project
	tools    []models.Tool
	nextID   uint
	err      error
	clock    time.Time
}

func newFakeStore(projects ...models.Project) *fakeStore {
	s := &fakeStore{clock: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	for _, p := range projects {
		p := p
		s.add(&p)
	}
	return s
}

func (s *fakeStore) add(p *models.Project) {
	if p.ID == 0 {
		s.nextID++
		p.ID = s.nextID
	} else if p.ID > s.nextID {
		s.nextID = p.ID
	}
	s.clock = s.clock.Add(time.Minute)
	p.CreatedAt, p.UpdatedAt = s.clock, s.clock
	s.projects = append(s.projects, *p)
	for _, name := range p.ToolNames() {
		s.ensureTool(name)
	}
}

func (s *fakeStore) ensureTool(name string) {
	for _, t := range s.tools {
		if t.Name == name {
			return
		}
	}
	s.tools = append(s.tools, models.Tool{ID: uint(len(s.tools) + 1), Name: name})
}

func (s *fakeStore) FindAll(_ context.Context, c catalog.Criteria) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := append([]models.Project(nil), s.projects...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return catalog.Filter(out, c), nil
}

func (s *fakeStore) FindByID(_ context.Context, id uint) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.projects {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, errs.NewNotFound("project")
}

func (s *fakeStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.projects)), s.err
}

func (s *fakeStore) Create(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	p.ID = 0
	s.add(p)
	return nil
}

func (s *fakeStore) Update(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			p.CreatedAt = s.projects[i].CreatedAt
			s.clock = s.clock.Add(time.Minute)
			p.UpdatedAt = s.clock
			s.projects[i] = *p
			return nil
		}
	}
	return errs.NewNotFound("project")
}

func (s *fakeStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			return nil
		}
	}
	return errs.NewNotFound("project")
}

func (s *fakeStore) snapshot() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Project(nil), s.projects...)
}

// fakeTools serves the tool catalog of a fakeStore
type fakeTools struct{ store *fakeStore }

func (t fakeTools) FindAll(context.Context) ([]models.Tool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.err != nil {
		return nil, t.store.err
	}
	out := append([]models.Tool(nil), t.store.tools...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type chanNotifier struct{ sent chan models.Project }

func (n chanNotifier) NotifyNewProject(_ context.Context, p models.Project) error {
	n.sent <- p
	return nil
}

type fakeArchiver struct {
	key  string
	body []byte
}

func (a *fakeArchiver) Archive(_ context.Context, key string, body []byte, _ string) (string, error) {
	a.key, a.body = key, body
	return "s3://exports/" + key, nil
}

func project(title, team, owner, deployed string, tools ...string) models.Project {
	p := models.Project{Title: title, Team: team, Owner: owner}
	for i, name := range tools {
		p.Tools = append(p.Tools, models.ProjectTool{Position: i, Tool: models.Tool{Name: name}})
	}
	if deployed != "" {
		day, err := time.Parse(catalog.DateLayout, deployed)
		if err != nil {
			panic(err)
		}
		d := datatypes.Date(day)
		p.DeploymentDate = &d
	}
	return p
}

// seededStore holds the three reference projects: A and C on Support, B on Fraud
func seededStore() *fakeStore {
	return newFakeStore(
		project("Zendesk macros", "Support", "ana", "2024-01-10", "Zendesk"),
		project("Fraud triage", "Fraud", "ben", "2024-02-20", "Fraudal", "Databricks"),
		project("Ticket summaries", "Support", "cam", ""),
	)
}

const (
	testAdminKey    = "letmein"
	testTokenSecret = "token-secret-for-tests"
)

func testSettings() config.Settings {
	return config.Settings{
		Environment:    "test",
		Port:           "0",
		AppBaseURL:     "http://catalog.test",
		AdminKey:       testAdminKey,
		SessionSecret:  "session-secret-for-tests-0123456789",
		APITokenSecret: testTokenSecret,
		StrictTeams:    true,
	}
}
