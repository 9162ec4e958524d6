package catalog

import (
	"strings"
	"time"

	"github.com/fetchops/ai-project-catalog/models"
)

// matcher is Criteria with its values normalized once for repeated matching
type matcher struct {
	keyword string
	team    string
	owner   string
	tools   map[string]struct{}
	from    time.Time
	to      time.Time
	hasFrom bool
	hasTo   bool
}

func (c Criteria) compile() matcher {
	n := c.Normalized()
	m := matcher{
		keyword: strings.ToLower(n.Keyword),
		team:    n.Team,
		owner:   n.Owner,
	}
	if len(n.Tools) > 0 {
		m.tools = make(map[string]struct{}, len(n.Tools))
		for _, name := range n.Tools {
			m.tools[name] = struct{}{}
		}
	}
	if n.DateFrom != nil {
		m.from, m.hasFrom = *n.DateFrom, true
	}
	if n.DateTo != nil {
		// inclusive through the last nanosecond of the day
		m.to, m.hasTo = n.DateTo.Add(24*time.Hour-time.Nanosecond), true
	}
	return m
}

func (m matcher) empty() bool {
	return m.keyword == "" && m.team == "" && m.owner == "" && len(m.tools) == 0 && !m.hasFrom && !m.hasTo
}

func (m matcher) match(p models.Project) bool {
	if m.team != "" && p.Team != m.team {
		return false
	}
	if m.owner != "" && p.Owner != m.owner {
		return false
	}

	toolNames := p.ToolNames()
	if len(m.tools) > 0 && !containsAny(toolNames, m.tools) {
		return false
	}

	if m.hasFrom || m.hasTo {
		day, ok := p.DeployedOn()
		if !ok {
			return false
		}
		if m.hasFrom && day.Before(m.from) {
			return false
		}
		if m.hasTo && day.After(m.to) {
			return false
		}
	}

	if m.keyword != "" && !matchesKeyword(p, toolNames, m.keyword) {
		return false
	}
	return true
}

func containsAny(names []string, set map[string]struct{}) bool {
	for _, n := range names {
		if _, ok := set[n]; ok {
			return true
		}
	}
	return false
}

// matchesKeyword checks the lowered keyword against the joined searchable text
// and each tool name on its own.
func matchesKeyword(p models.Project, toolNames []string, keyword string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		p.Title,
		p.Description,
		p.Owner,
		p.Team,
		strings.Join(toolNames, " "),
	}, " "))
	if strings.Contains(haystack, keyword) {
		return true
	}
	for _, name := range toolNames {
		if strings.Contains(strings.ToLower(name), keyword) {
			return true
		}
	}
	return false
}

// Match reports whether p satisfies every predicate in c.
func (c Criteria) Match(p models.Project) bool {
	return c.compile().match(p)
}

// Filter returns the projects satisfying c in their original order. The input
// slice is never modified; with empty criteria it is returned as is.
func Filter(projects []models.Project, c Criteria) []models.Project {
	m := c.compile()
	if m.empty() {
		return projects
	}

	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}
