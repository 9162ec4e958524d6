// Package catalog holds the pure core of the project catalog: filter criteria
// and matching, tabular export, form normalization and validation, and the
// summary figures shown on the home page. Nothing here performs I/O.
package catalog

import (
	"net/url"
	"strings"
	"time"

	"github.com/fetchops/ai-project-catalog/errs"
)

// All is the sentinel team/owner value meaning "no filter"
const All = "all"

// DateLayout is the calendar-date format used in query strings and forms
const DateLayout = "2006-01-02"

// Criteria is a conjunction of optional predicates over projects. Zero values
// mean "no filter" for every field.
type Criteria struct {
	Keyword  string
	Team     string
	Owner    string
	Tools    []string
	DateFrom *time.Time
	DateTo   *time.Time
}

// IsEmpty reports whether c would match every project.
func (c Criteria) IsEmpty() bool {
	return c.compile().empty()
}

// ParseCriteria reads criteria from query parameters: q, team, owner, tool
// (repeatable or comma separated), dateFrom and dateTo.
func ParseCriteria(values url.Values) (Criteria, error) {
	c := Criteria{
		Keyword: strings.TrimSpace(values.Get("q")),
		Team:    strings.TrimSpace(values.Get("team")),
		Owner:   strings.TrimSpace(values.Get("owner")),
	}

	for _, raw := range values["tool"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Tools = append(c.Tools, name)
			}
		}
	}

	var err error
	if c.DateFrom, err = parseDateParam(values.Get("dateFrom"), "dateFrom"); err != nil {
		return Criteria{}, err
	}
	if c.DateTo, err = parseDateParam(values.Get("dateTo"), "dateTo"); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func parseDateParam(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, errs.NewValidationError(errs.KindInvalidDate, field, "expected YYYY-MM-DD, got "+raw)
	}
	return &t, nil
}

// Values encodes c back into query parameters, omitting unset fields.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	if k := strings.TrimSpace(c.Keyword); k != "" {
		v.Set("q", k)
	}
	if t := normalizeChoice(c.Team); t != "" {
		v.Set("team", t)
	}
	if o := normalizeChoice(c.Owner); o != "" {
		v.Set("owner", o)
	}
	for _, tool := range c.Tools {
		if tool = strings.TrimSpace(tool); tool != "" {
			v.Add("tool", tool)
		}
	}
	if c.DateFrom != nil {
		v.Set("dateFrom", c.DateFrom.Format(DateLayout))
	}
	if c.DateTo != nil {
		v.Set("dateTo", c.DateTo.Format(DateLayout))
	}
	return v
}

// Normalized returns c with values trimmed, "all" sentinels cleared, blank or
// repeated tools dropped and dates reduced to UTC calendar days.
func (c Criteria) Normalized() Criteria {
	n := Criteria{
		Keyword: strings.TrimSpace(c.Keyword),
		Team:    normalizeChoice(c.Team),
		Owner:   normalizeChoice(c.Owner),
	}
	seen := make(map[string]bool, len(c.Tools))
	for _, name := range c.Tools {
		if name = strings.TrimSpace(name); name != "" && !seen[name] {
			seen[name] = true
			n.Tools = append(n.Tools, name)
		}
	}
	if c.DateFrom != nil {
		d := calendarDay(*c.DateFrom)
		n.DateFrom = &d
	}
	if c.DateTo != nil {
		d := calendarDay(*c.DateTo)
		n.DateTo = &d
	}
	return n
}

func normalizeChoice(s string) string {
	s = strings.TrimSpace(s)
	if s == All {
		return ""
	}
	return s
}

// calendarDay truncates t to midnight UTC of its own calendar date
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
