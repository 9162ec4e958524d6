package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchops/ai-project-catalog/models"
)

func seededCatalog() []models.Project {
	a := newProject(1, "Receipt triage bot", "Fraud", "alice", "ChatGPT", "Zapier")
	a.Description = "Routes suspicious receipts to reviewers"
	b := newProject(2, "Deal desk helper", "Sales", "bob", "Claude")
	b.Description = "Drafts pricing summaries"
	c := newProject(3, "Chargeback explainer", "Fraud", "carol", "Claude", "n8n")
	c.Description = "Summarizes dispute history"
	return []models.Project{a, b, c}
}

func TestFilter_SeededScenario(t *testing.T) {
	projects := seededCatalog()

	assert.Equal(t, []uint{1, 3}, ids(Filter(projects, Criteria{Team: "Fraud"})))
	assert.Equal(t, []uint{3}, ids(Filter(projects, Criteria{Team: "Fraud", Tools: []string{"Claude"}})))
	assert.Equal(t, []uint{1}, ids(Filter(projects, Criteria{Keyword: "zap"})))
}

func TestFilter_EmptyCriteriaIsIdentity(t *testing.T) {
	projects := seededCatalog()

	for _, c := range []Criteria{
		{},
		{Team: All, Owner: All},
		{Keyword: "   ", Tools: []string{"", "  "}},
	} {
		got := Filter(projects, c)
		assert.Equal(t, projects, got)
		assert.True(t, c.IsEmpty())
	}
}

func TestFilter_Idempotent(t *testing.T) {
	projects := seededCatalog()
	criteria := []Criteria{
		{Team: "Fraud"},
		{Keyword: "claude"},
		{Tools: []string{"Zapier", "n8n"}},
		{Owner: "bob", Keyword: "deal"},
	}

	for _, c := range criteria {
		once := Filter(projects, c)
		twice := Filter(once, c)
		assert.Equal(t, once, twice)
	}
}

func TestFilter_KeywordIsCaseInsensitive(t *testing.T) {
	projects := seededCatalog()

	upper := Filter(projects, Criteria{Keyword: "CLAUDE"})
	lower := Filter(projects, Criteria{Keyword: "claude"})
	assert.Equal(t, ids(lower), ids(upper))
	assert.Equal(t, []uint{2, 3}, ids(lower))

	assert.Equal(t, []uint{3}, ids(Filter(projects, Criteria{Keyword: "DISPUTE"})))
	assert.Equal(t, []uint{2}, ids(Filter(projects, Criteria{Keyword: "Bob"})))
	assert.Equal(t, []uint{2}, ids(Filter(projects, Criteria{Keyword: "sales"})))
}

func TestFilter_TeamAndOwnerAreExact(t *testing.T) {
	projects := seededCatalog()

	assert.Empty(t, Filter(projects, Criteria{Team: "fraud"}))
	assert.Empty(t, Filter(projects, Criteria{Team: "Fra"}))
	assert.Equal(t, []uint{3}, ids(Filter(projects, Criteria{Owner: "carol"})))
	assert.Equal(t, []uint{1, 3}, ids(Filter(projects, Criteria{Team: " Fraud "})))
}

func TestFilter_ToolsAnyOf(t *testing.T) {
	projects := seededCatalog()

	got := Filter(projects, Criteria{Tools: []string{"Zapier", "n8n"}})
	assert.Equal(t, []uint{1, 3}, ids(got))

	for _, p := range Filter(projects, Criteria{Tools: []string{"Claude"}}) {
		assert.Contains(t, p.ToolNames(), "Claude")
	}

	assert.Empty(t, Filter(projects, Criteria{Tools: []string{"Gemini"}}))
}

func TestFilter_DateRange(t *testing.T) {
	projects := []models.Project{
		deployedOn(newProject(1, "early", "AIM", "a"), "2024-03-01"),
		deployedOn(newProject(2, "boundary", "AIM", "a"), "2024-03-15"),
		newProject(3, "undated", "AIM", "a"),
		deployedOn(newProject(4, "late", "AIM", "a"), "2024-04-02"),
	}

	t.Run("dateTo includes the whole day", func(t *testing.T) {
		got := Filter(projects, Criteria{DateTo: mustDate("2024-03-15")})
		assert.Equal(t, []uint{1, 2}, ids(got))
	})

	t.Run("dateFrom is inclusive", func(t *testing.T) {
		got := Filter(projects, Criteria{DateFrom: mustDate("2024-03-15")})
		assert.Equal(t, []uint{2, 4}, ids(got))
	})

	t.Run("undated projects are excluded once a bound is set", func(t *testing.T) {
		got := Filter(projects, Criteria{DateFrom: mustDate("2000-01-01"), DateTo: mustDate("2100-01-01")})
		assert.Equal(t, []uint{1, 2, 4}, ids(got))
	})

	t.Run("inverted range matches nothing", func(t *testing.T) {
		got := Filter(projects, Criteria{DateFrom: mustDate("2024-04-01"), DateTo: mustDate("2024-03-01")})
		assert.Empty(t, got)
	})
}

func TestFilter_PreservesOrderAndInput(t *testing.T) {
	projects := seededCatalog()
	projects[0], projects[2] = projects[2], projects[0]
	before := make([]models.Project, len(projects))
	copy(before, projects)

	got := Filter(projects, Criteria{Team: "Fraud"})

	require.Len(t, got, 2)
	assert.Equal(t, []uint{3, 1}, ids(got))
	assert.Equal(t, before, projects)
}

func TestFilter_ConjunctionIsSubsetOfEachPredicate(t *testing.T) {
	projects := seededCatalog()
	both := Filter(projects, Criteria{Team: "Fraud", Keyword: "claude"})
	byTeam := ids(Filter(projects, Criteria{Team: "Fraud"}))
	byKeyword := ids(Filter(projects, Criteria{Keyword: "claude"}))

	for _, id := range ids(both) {
		assert.Contains(t, byTeam, id)
		assert.Contains(t, byKeyword, id)
	}
	assert.Equal(t, []uint{3}, ids(both))
}

func TestCriteria_Match(t *testing.T) {
	p := newProject(7, "Forecast", "Ops Data", "dana", "Claude")
	assert.True(t, Criteria{Keyword: "fore"}.Match(p))
	assert.False(t, Criteria{Team: "Sales"}.Match(p))
	assert.False(t, Criteria{DateFrom: mustDate("2024-01-01")}.Match(p))
}
