package catalog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchops/ai-project-catalog/models"
)

func TestEscapeCSVCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Receipt bot", "Receipt bot"},
		{"empty", "", ""},
		{"comma", "a,b", `"a,b"`},
		{"newline", "line1\nline2", "\"line1\nline2\""},
		{"quote", `say "hi"`, `"say ""hi"""`},
		{"quote and comma", `Say "Hi", please`, `"Say ""Hi"", please"`},
		{"leading space stays bare", " padded", " padded"},
		{"carriage return stays bare", "a\rb", "a\rb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeCSVCell(tt.in))
		})
	}
}

func exportFixture() []models.Project {
	a := newProject(1, `Say "Hi", please`, "Support", "alice", "ChatGPT", "Zapier")
	a.Description = "Multi-line\nsummary"
	a.HowYouBuiltIt = strPtr("Prompt chain, then a webhook")
	a.Links = []models.Link{
		{Type: "Demo", URL: "https://demo.example.com"},
		{Type: "Jira", URL: "https://jira.example.com/AI-1"},
	}
	a = deployedOn(a, "2024-03-15")

	b := newProject(2, "Plain", "GTM", "bob")
	b.HoursSavedPerWeek = 4
	return []models.Project{a, b}
}

func TestRenderCSV_RoundTripsThroughStandardParser(t *testing.T) {
	projects := exportFixture()

	rows, err := csv.NewReader(bytes.NewReader(RenderCSV(projects))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(projects)+1)

	assert.Equal(t, CSVHeader, rows[0])
	for i, p := range projects {
		assert.Equal(t, CSVRecord(p), rows[i+1])
	}

	first := rows[1]
	assert.Equal(t, `Say "Hi", please`, first[1])
	assert.Equal(t, "Multi-line\nsummary", first[2])
	assert.Equal(t, "ChatGPT; Zapier", first[12])
	assert.Equal(t, "Demo:https://demo.example.com; Jira:https://jira.example.com/AI-1", first[13])
	assert.Equal(t, "2024-03-15T00:00:00.000Z", first[11])
	assert.Equal(t, "2024-05-01T10:30:00.000Z", first[14])

	second := rows[2]
	assert.Equal(t, "4", second[5])
	assert.Equal(t, "", second[6])
	assert.Equal(t, "", second[11])
	assert.Equal(t, "", second[12])
}

func TestRenderCSV_QuotedTitleOnTheWire(t *testing.T) {
	out := string(RenderCSV(exportFixture()[:1]))
	assert.Contains(t, out, `,"Say ""Hi"", please",`)
	assert.True(t, len(out) > 0 && out[len(out)-1] == '\n')
}

func TestRenderCSV_EmptyHasOnlyHeader(t *testing.T) {
	rows, err := csv.NewReader(bytes.NewReader(RenderCSV(nil))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, CSVHeader, rows[0])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_ReportsWriterError(t *testing.T) {
	assert.EqualError(t, WriteCSV(failingWriter{}, exportFixture()), "disk full")
}

func TestExportCountMatchesFilter(t *testing.T) {
	projects := seededCatalog()
	for _, c := range []Criteria{{}, {Team: "Fraud"}, {Keyword: "claude"}, {Team: "Nope"}} {
		filtered := Filter(projects, c)

		doc := NewExportDocument(filtered)
		assert.Equal(t, len(filtered), doc.Count)
		assert.Len(t, doc.Projects, doc.Count)

		rows, err := csv.NewReader(bytes.NewReader(RenderCSV(filtered))).ReadAll()
		require.NoError(t, err)
		assert.Len(t, rows, len(filtered)+1)
	}
}

func TestNewExportDocument_JSONShape(t *testing.T) {
	projects := exportFixture()
	raw, err := json.Marshal(NewExportDocument(projects))
	require.NoError(t, err)

	var doc struct {
		Success  bool `json:"success"`
		Count    int  `json:"count"`
		Projects []struct {
			ID             uint                `json:"id"`
			Tools          []string            `json:"tools"`
			Links          []map[string]string `json:"links"`
			DeploymentDate *string             `json:"deploymentDate"`
		} `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.True(t, doc.Success)
	assert.Equal(t, 2, doc.Count)
	assert.Equal(t, []string{"ChatGPT", "Zapier"}, doc.Projects[0].Tools)
	assert.Equal(t, "https://demo.example.com", doc.Projects[0].Links[0]["url"])
	require.NotNil(t, doc.Projects[0].DeploymentDate)
	assert.Equal(t, "2024-03-15", *doc.Projects[0].DeploymentDate)
	assert.NotNil(t, doc.Projects[1].Tools)
	assert.Nil(t, doc.Projects[1].DeploymentDate)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}
