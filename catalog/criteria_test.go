package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchops/ai-project-catalog/errs"
)

func TestParseCriteria(t *testing.T) {
	values := url.Values{
		"q":        {"  triage "},
		"team":     {"Fraud"},
		"owner":    {"all"},
		"tool":     {"Claude", "Zapier, n8n", " "},
		"dateFrom": {"2024-01-01"},
		"dateTo":   {"2024-12-31"},
	}

	c, err := ParseCriteria(values)
	require.NoError(t, err)

	assert.Equal(t, "triage", c.Keyword)
	assert.Equal(t, "Fraud", c.Team)
	assert.Equal(t, "all", c.Owner)
	assert.Equal(t, []string{"Claude", "Zapier", "n8n"}, c.Tools)
	require.NotNil(t, c.DateFrom)
	require.NotNil(t, c.DateTo)
	assert.Equal(t, "2024-01-01", c.DateFrom.Format(DateLayout))
	assert.Equal(t, "2024-12-31", c.DateTo.Format(DateLayout))
}

func TestParseCriteria_EmptyQueryIsEmptyCriteria(t *testing.T) {
	c, err := ParseCriteria(url.Values{})
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestParseCriteria_RejectsBadDates(t *testing.T) {
	for _, field := range []string{"dateFrom", "dateTo"} {
		t.Run(field, func(t *testing.T) {
			_, err := ParseCriteria(url.Values{field: {"03/15/2024"}})
			require.Error(t, err)

			ve, ok := errs.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, errs.KindInvalidDate, ve.Kind)
			assert.Equal(t, field, ve.Field)
		})
	}
}

func TestCriteria_ValuesRoundTrip(t *testing.T) {
	original := Criteria{
		Keyword:  "bot",
		Team:     "Sales",
		Owner:    All,
		Tools:    []string{"Claude", "n8n"},
		DateFrom: mustDate("2024-02-01"),
	}

	v := original.Values()
	assert.Empty(t, v.Get("owner"))
	assert.Empty(t, v.Get("dateTo"))

	parsed, err := ParseCriteria(v)
	require.NoError(t, err)
	assert.Equal(t, original.Keyword, parsed.Keyword)
	assert.Equal(t, original.Team, parsed.Team)
	assert.Equal(t, original.Tools, parsed.Tools)
	assert.Equal(t, original.DateFrom.Format(DateLayout), parsed.DateFrom.Format(DateLayout))
}

func TestCriteria_Normalized(t *testing.T) {
	n := Criteria{
		Keyword: "  bot ",
		Team:    All,
		Owner:   " alice ",
		Tools:   []string{" Claude", "Claude", "", "n8n"},
		DateTo:  mustDate("2024-03-15"),
	}.Normalized()

	assert.Equal(t, "bot", n.Keyword)
	assert.Empty(t, n.Team)
	assert.Equal(t, "alice", n.Owner)
	assert.Equal(t, []string{"Claude", "n8n"}, n.Tools)
	assert.Nil(t, n.DateFrom)
	assert.Equal(t, "2024-03-15", n.DateTo.Format(DateLayout))
}
