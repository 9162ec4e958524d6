package catalog

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchops/ai-project-catalog/errs"
	"github.com/fetchops/ai-project-catalog/models"
)

func validInput() ProjectInput {
	return ProjectInput{
		Title:       "Receipt triage bot",
		Description: "Routes suspicious receipts",
		Team:        "Fraud",
		Owner:       "alice",
	}
}

func TestParseProjectForm(t *testing.T) {
	form := url.Values{
		"title":             {"  Triage bot  "},
		"description":       {"Short"},
		"team":              {"Fraud"},
		"ownerName":         {"@@alice"},
		"hoursSavedPerWeek": {"3.9"},
		"deploymentDate":    {"2024-03-15"},
		"toolNames":         {"Claude", "ChatGPT"},
		"other_tools":       {"n8n, Claude ,, Zapier"},
		"link_url_1":        {"https://demo.example.com"},
		"link_type_1":       {"Demo"},
		"link_url_2":        {"   "},
		"link_type_2":       {"Jira"},
		"link_url_3":        {"https://drive.example.com"},
		"howYouBuiltIt":     {"   "},
	}

	in := ParseProjectForm(form)

	assert.Equal(t, "Triage bot", in.Title)
	assert.Equal(t, "alice", in.Owner)
	assert.Equal(t, 3, in.HoursSavedPerWeek)
	assert.Equal(t, []string{"Claude", "ChatGPT", "n8n", "Zapier"}, in.Tools)
	assert.Equal(t, []LinkInput{
		{Type: "Demo", URL: "https://demo.example.com"},
		{Type: models.DefaultLinkType, URL: "https://drive.example.com"},
	}, in.Links)
	assert.Empty(t, in.HowYouBuiltIt)
}

func TestParseProjectForm_OwnerPrecedence(t *testing.T) {
	in := ParseProjectForm(url.Values{"owner": {"carol"}, "ownerName": {"alice"}, "slackHandle": {"bob"}})
	assert.Equal(t, "carol", in.Owner)

	in = ParseProjectForm(url.Values{"owner": {" "}, "slackHandle": {"@bob"}})
	assert.Equal(t, "bob", in.Owner)
}

func TestParseHours(t *testing.T) {
	for raw, want := range map[string]int{
		"":      0,
		"abc":   0,
		"-4":    0,
		"0":     0,
		"2.99":  2,
		"10":    10,
		"NaN":   0,
		"+Inf":  0,
		"1e100": 2147483647,
	} {
		assert.Equal(t, want, parseHours(raw), raw)
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(true)

	tests := []struct {
		name   string
		mutate func(*ProjectInput)
		kind   errs.ValidationKind
	}{
		{"missing title", func(in *ProjectInput) { in.Title = "   " }, errs.KindMissingTitle},
		{"description too long", func(in *ProjectInput) { in.Description = strings.Repeat("x", 301) }, errs.KindDescTooLong},
		{"unknown team", func(in *ProjectInput) { in.Team = "Marketing" }, errs.KindInvalidTeam},
		{"empty team", func(in *ProjectInput) { in.Team = "" }, errs.KindInvalidTeam},
		{"missing owner", func(in *ProjectInput) { in.Owner = "@" }, errs.KindMissingOwner},
		{"bad date", func(in *ProjectInput) { in.DeploymentDate = "15/03/2024" }, errs.KindInvalidDate},
		{"title reported first", func(in *ProjectInput) { in.Title = ""; in.Owner = "" }, errs.KindMissingTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			project, err := v.Validate(in)
			require.Error(t, err)
			assert.Nil(t, project)

			ve, ok := errs.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, ve.Kind)
		})
	}
}

func TestValidator_DescriptionLimitCountsCharacters(t *testing.T) {
	v := NewValidator(true)

	in := validInput()
	in.Description = strings.Repeat("é", MaxDescriptionLength)
	_, err := v.Validate(in)
	require.NoError(t, err)

	in.Description = strings.Repeat("é", MaxDescriptionLength+1)
	_, err = v.Validate(in)
	ve, ok := errs.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindDescTooLong, ve.Kind)
	assert.Equal(t, MaxDescriptionLength+1, ve.Length)
}

func TestValidator_RelaxedTeams(t *testing.T) {
	in := validInput()
	in.Team = "Marketing"

	project, err := NewValidator(false).Validate(in)
	require.NoError(t, err)
	assert.Equal(t, "Marketing", project.Team)

	in.Team = " "
	_, err = NewValidator(false).Validate(in)
	ve, ok := errs.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, errs.KindInvalidTeam, ve.Kind)
}

func TestValidator_BuildsDraft(t *testing.T) {
	in := validInput()
	in.Owner = "@alice"
	in.DeploymentDate = "2024-03-15"
	in.NextSteps = "roll out"
	in.Tools = []string{"Claude", "Claude", "n8n"}
	in.Links = []LinkInput{{URL: "https://demo.example.com"}}

	project, err := NewValidator(true).Validate(in)
	require.NoError(t, err)

	assert.Equal(t, "alice", project.Owner)
	assert.Equal(t, []string{"Claude", "n8n"}, project.ToolNames())
	require.Len(t, project.Links, 1)
	assert.Equal(t, models.DefaultLinkType, project.Links[0].Type)
	require.NotNil(t, project.NextSteps)
	assert.Equal(t, "roll out", *project.NextSteps)
	assert.Nil(t, project.OtherNotes)

	day, ok := project.DeployedOn()
	require.True(t, ok)
	assert.Equal(t, "2024-03-15", day.Format(DateLayout))
}

func TestInputFromProject_RoundTrip(t *testing.T) {
	in := validInput()
	in.DeploymentDate = "2024-03-15"
	in.Tools = []string{"Claude"}
	in.Links = []LinkInput{{Type: "Demo", URL: "https://demo.example.com"}}
	in.OtherImpacts = "fewer escalations"

	project, err := NewValidator(true).Validate(in)
	require.NoError(t, err)

	assert.Equal(t, in, InputFromProject(*project))
}
