package catalog

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fetchops/ai-project-catalog/errs"
	"github.com/fetchops/ai-project-catalog/models"
)

// Format is an export document format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

const (
	CSVContentType = "text/csv; charset=utf-8"
	CSVFilename    = "projects_export.csv"
)

// TimestampLayout renders instants as ISO-8601 UTC with milliseconds
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// CSVHeader is the fixed column order of the CSV export
var CSVHeader = []string{
	"id",
	"title",
	"description",
	"team",
	"owner",
	"hoursSavedPerWeek",
	"howYouBuiltIt",
	"challengesSolutionsTips",
	"otherImpacts",
	"nextSteps",
	"otherNotes",
	"deploymentDate",
	"tools",
	"links",
	"createdAt",
	"updatedAt",
}

// ParseFormat maps the format query parameter to a Format. Empty means CSV.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(FormatCSV):
		return FormatCSV, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", errs.NewBadRequestError("unsupported export format " + strconv.Quote(raw))
	}
}

// EscapeCSVCell quotes v only when it contains a double quote, a comma or a
// newline, doubling any embedded quotes.
func EscapeCSVCell(v string) string {
	if !strings.ContainsAny(v, "\",\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinLinks(links []models.Link) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, l.Type+":"+l.URL)
	}
	return strings.Join(parts, "; ")
}

// CSVRecord returns the unescaped cells of one project in CSVHeader order.
func CSVRecord(p models.Project) []string {
	deployed := ""
	if day, ok := p.DeployedOn(); ok {
		deployed = formatTimestamp(day)
	}
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.Title,
		p.Description,
		p.Team,
		p.Owner,
		strconv.Itoa(p.HoursSavedPerWeek),
		deref(p.HowYouBuiltIt),
		deref(p.ChallengesSolutionsTips),
		deref(p.OtherImpacts),
		deref(p.NextSteps),
		deref(p.OtherNotes),
		deployed,
		strings.Join(p.ToolNames(), "; "),
		joinLinks(p.Links),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	}
}

func writeCSVRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(EscapeCSVCell(cell))
	}
	buf.WriteByte('\n')
}

// RenderCSV renders the header and one row per project, in input order.
func RenderCSV(projects []models.Project) []byte {
	var buf bytes.Buffer
	writeCSVRow(&buf, CSVHeader)
	for _, p := range projects {
		writeCSVRow(&buf, CSVRecord(p))
	}
	return buf.Bytes()
}

// WriteCSV renders the whole document before writing so a failure never
// leaves a truncated export behind.
func WriteCSV(w io.Writer, projects []models.Project) error {
	_, err := w.Write(RenderCSV(projects))
	return err
}

type ExportLink struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ExportRecord is the flat JSON shape of one exported project
type ExportRecord struct {
	ID                      uint         `json:"id"`
	Title                   string       `json:"title"`
	Description             string       `json:"description"`
	Team                    string       `json:"team"`
	Owner                   string       `json:"owner"`
	HoursSavedPerWeek       int          `json:"hoursSavedPerWeek"`
	HowYouBuiltIt           *string      `json:"howYouBuiltIt"`
	ChallengesSolutionsTips *string      `json:"challengesSolutionsTips"`
	OtherImpacts            *string      `json:"otherImpacts"`
	NextSteps               *string      `json:"nextSteps"`
	OtherNotes              *string      `json:"otherNotes"`
	DeploymentDate          *string      `json:"deploymentDate"`
	Tools                   []string     `json:"tools"`
	Links                   []ExportLink `json:"links"`
	CreatedAt               string       `json:"createdAt"`
	UpdatedAt               string       `json:"updatedAt"`
}

func NewExportRecord(p models.Project) ExportRecord {
	rec := ExportRecord{
		ID:                      p.ID,
		Title:                   p.Title,
		Description:             p.Description,
		Team:                    p.Team,
		Owner:                   p.Owner,
		HoursSavedPerWeek:       p.HoursSavedPerWeek,
		HowYouBuiltIt:           p.HowYouBuiltIt,
		ChallengesSolutionsTips: p.ChallengesSolutionsTips,
		OtherImpacts:            p.OtherImpacts,
		NextSteps:               p.NextSteps,
		OtherNotes:              p.OtherNotes,
		Tools:                   p.ToolNames(),
		Links:                   make([]ExportLink, 0, len(p.Links)),
		CreatedAt:               formatTimestamp(p.CreatedAt),
		UpdatedAt:               formatTimestamp(p.UpdatedAt),
	}
	if day, ok := p.DeployedOn(); ok {
		s := day.Format(DateLayout)
		rec.DeploymentDate = &s
	}
	for _, l := range p.Links {
		rec.Links = append(rec.Links, ExportLink{Type: l.Type, URL: l.URL})
	}
	return rec
}

// ExportDocument is the JSON export envelope
type ExportDocument struct {
	Success  bool           `json:"success"`
	Count    int            `json:"count"`
	Projects []ExportRecord `json:"projects"`
}

func NewExportDocument(projects []models.Project) ExportDocument {
	doc := ExportDocument{
		Success:  true,
		Count:    len(projects),
		Projects: make([]ExportRecord, 0, len(projects)),
	}
	for _, p := range projects {
		doc.Projects = append(doc.Projects, NewExportRecord(p))
	}
	return doc
}
