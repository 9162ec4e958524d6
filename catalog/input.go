package catalog

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	"github.com/fetchops/ai-project-catalog/errs"
	"github.com/fetchops/ai-project-catalog/models"
)

// MaxDescriptionLength is counted in characters (runes), not bytes
const MaxDescriptionLength = 300

// ProjectInput is a project submission after form decoding and before validation
type ProjectInput struct {
	Title                   string `validate:"required"`
	Description             string `validate:"max=300"`
	Team                    string `validate:"required,team"`
	Owner                   string `validate:"required"`
	HoursSavedPerWeek       int
	DeploymentDate          string `validate:"omitempty,datetime=2006-01-02"`
	HowYouBuiltIt           string
	ChallengesSolutionsTips string
	OtherImpacts            string
	NextSteps               string
	OtherNotes              string
	Tools                   []string
	Links                   []LinkInput
}

type LinkInput struct {
	Type string
	URL  string
}

// ParseProjectForm decodes the new/edit project form. Legacy owner fields
// (ownerName, slackHandle) are folded into Owner here so nothing downstream
// has to know about them.
func ParseProjectForm(form url.Values) ProjectInput {
	in := ProjectInput{
		Title:                   form.Get("title"),
		Description:             form.Get("description"),
		Team:                    form.Get("team"),
		Owner:                   firstNonBlank(form.Get("owner"), form.Get("ownerName"), form.Get("slackHandle")),
		HoursSavedPerWeek:       parseHours(form.Get("hoursSavedPerWeek")),
		DeploymentDate:          form.Get("deploymentDate"),
		HowYouBuiltIt:           form.Get("howYouBuiltIt"),
		ChallengesSolutionsTips: form.Get("challengesSolutionsTips"),
		OtherImpacts:            form.Get("otherImpacts"),
		NextSteps:               form.Get("nextSteps"),
		OtherNotes:              form.Get("otherNotes"),
	}

	in.Tools = append(in.Tools, form["toolNames"]...)
	for _, extra := range form["other_tools"] {
		in.Tools = append(in.Tools, strings.Split(extra, ",")...)
	}

	for i := 1; i <= models.MaxFormLinks; i++ {
		in.Links = append(in.Links, LinkInput{
			Type: form.Get(fmt.Sprintf("link_type_%d", i)),
			URL:  form.Get(fmt.Sprintf("link_url_%d", i)),
		})
	}

	return in.Normalize()
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// parseHours floors positive numbers and maps everything else to zero
func parseHours(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(f))
}

// Normalize trims every field, strips leading @ from the owner, de-duplicates
// tools keeping first occurrence, drops links without a URL and defaults the
// link type. It is idempotent.
func (in ProjectInput) Normalize() ProjectInput {
	out := ProjectInput{
		Title:                   strings.TrimSpace(in.Title),
		Description:             strings.TrimSpace(in.Description),
		Team:                    strings.TrimSpace(in.Team),
		Owner:                   strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(in.Owner), "@")),
		HoursSavedPerWeek:       in.HoursSavedPerWeek,
		DeploymentDate:          strings.TrimSpace(in.DeploymentDate),
		HowYouBuiltIt:           strings.TrimSpace(in.HowYouBuiltIt),
		ChallengesSolutionsTips: strings.TrimSpace(in.ChallengesSolutionsTips),
		OtherImpacts:            strings.TrimSpace(in.OtherImpacts),
		NextSteps:               strings.TrimSpace(in.NextSteps),
		OtherNotes:              strings.TrimSpace(in.OtherNotes),
	}
	if out.HoursSavedPerWeek < 0 {
		out.HoursSavedPerWeek = 0
	}

	seen := make(map[string]bool, len(in.Tools))
	for _, name := range in.Tools {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out.Tools = append(out.Tools, name)
	}

	for _, l := range in.Links {
		u := strings.TrimSpace(l.URL)
		if u == "" {
			continue
		}
		t := strings.TrimSpace(l.Type)
		if t == "" {
			t = models.DefaultLinkType
		}
		out.Links = append(out.Links, LinkInput{Type: t, URL: u})
	}
	return out
}

// Validator turns a ProjectInput into a project draft or a *errs.ValidationError
type Validator struct {
	validate    *validator.Validate
	strictTeams bool
}

// NewValidator builds a Validator. With strictTeams the team must be one of
// models.Teams; otherwise any non-empty team is accepted.
func NewValidator(strictTeams bool) *Validator {
	v := &Validator{
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		strictTeams: strictTeams,
	}
	// registration only fails for an empty tag or nil func
	_ = v.validate.RegisterValidation("team", func(fl validator.FieldLevel) bool {
		return !v.strictTeams || models.IsTeam(fl.Field().String())
	})
	return v
}

// Validate checks the normalized input. On success it returns an unsaved
// project with tool and link associations populated by name.
func (v *Validator) Validate(in ProjectInput) (*models.Project, error) {
	in = in.Normalize()

	if err := v.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return nil, err
		}
		return nil, toValidationError(in, fieldErrs[0])
	}

	project := &models.Project{
		Title:                   in.Title,
		Description:             in.Description,
		Team:                    in.Team,
		Owner:                   in.Owner,
		HoursSavedPerWeek:       in.HoursSavedPerWeek,
		HowYouBuiltIt:           optional(in.HowYouBuiltIt),
		ChallengesSolutionsTips: optional(in.ChallengesSolutionsTips),
		OtherImpacts:            optional(in.OtherImpacts),
		NextSteps:               optional(in.NextSteps),
		OtherNotes:              optional(in.OtherNotes),
	}

	if in.DeploymentDate != "" {
		day, err := time.Parse(DateLayout, in.DeploymentDate)
		if err != nil {
			return nil, errs.NewValidationError(errs.KindInvalidDate, "deploymentDate", err.Error())
		}
		d := datatypes.Date(day)
		project.DeploymentDate = &d
	}

	for i, name := range in.Tools {
		project.Tools = append(project.Tools, models.ProjectTool{Position: i, Tool: models.Tool{Name: name}})
	}
	for i, l := range in.Links {
		project.Links = append(project.Links, models.Link{Type: l.Type, URL: l.URL, Position: i})
	}
	return project, nil
}

func toValidationError(in ProjectInput, fe validator.FieldError) *errs.ValidationError {
	switch fe.StructField() {
	case "Title":
		return errs.NewValidationError(errs.KindMissingTitle, "title", "title is required")
	case "Description":
		n := utf8.RuneCountInString(in.Description)
		ve := errs.NewValidationError(errs.KindDescTooLong, "description",
			fmt.Sprintf("description is %d characters, the limit is %d", n, MaxDescriptionLength))
		ve.Length = n
		return ve
	case "Team":
		return errs.NewValidationError(errs.KindInvalidTeam, "team", "unknown team "+strconv.Quote(in.Team))
	case "Owner":
		return errs.NewValidationError(errs.KindMissingOwner, "owner", "owner is required")
	default:
		return errs.NewValidationError(errs.KindInvalidDate, "deploymentDate", "expected YYYY-MM-DD, got "+in.DeploymentDate)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// InputFromProject reverses Validate for pre-filling the edit form
func InputFromProject(p models.Project) ProjectInput {
	in := ProjectInput{
		Title:                   p.Title,
		Description:             p.Description,
		Team:                    p.Team,
		Owner:                   p.Owner,
		HoursSavedPerWeek:       p.HoursSavedPerWeek,
		HowYouBuiltIt:           deref(p.HowYouBuiltIt),
		ChallengesSolutionsTips: deref(p.ChallengesSolutionsTips),
		OtherImpacts:            deref(p.OtherImpacts),
		NextSteps:               deref(p.NextSteps),
		OtherNotes:              deref(p.OtherNotes),
		Tools:                   p.ToolNames(),
	}
	if day, ok := p.DeployedOn(); ok {
		in.DeploymentDate = day.Format(DateLayout)
	}
	for _, l := range p.Links {
		in.Links = append(in.Links, LinkInput{Type: l.Type, URL: l.URL})
	}
	return in
}
