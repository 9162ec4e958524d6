package catalog

import (
	"sort"
	"time"

	"github.com/fetchops/ai-project-catalog/models"
)

const (
	topToolsLimit = 5
	latestLimit   = 5
)

type ToolCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ProjectSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Team      string    `json:"team"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats are the headline figures on the home page
type Stats struct {
	ProjectCount           int              `json:"projectCount"`
	TotalHoursSavedPerWeek int              `json:"totalHoursSavedPerWeek"`
	ToolsInCatalog         int              `json:"toolsInCatalog"`
	MostCommonTools        []ToolCount      `json:"mostCommonTools"`
	Latest                 []ProjectSummary `json:"latest"`
}

// Summarize computes Stats. Tool ties are broken by name; latest projects are
// ordered by creation time, newest first, then by id.
func Summarize(projects []models.Project, tools []models.Tool) Stats {
	stats := Stats{
		ProjectCount:    len(projects),
		ToolsInCatalog:  len(tools),
		MostCommonTools: []ToolCount{},
		Latest:          []ProjectSummary{},
	}

	counts := make(map[string]int)
	for _, p := range projects {
		stats.TotalHoursSavedPerWeek += p.HoursSavedPerWeek
		for _, name := range p.ToolNames() {
			counts[name]++
		}
	}

	for name, n := range counts {
		stats.MostCommonTools = append(stats.MostCommonTools, ToolCount{Name: name, Count: n})
	}
	sort.Slice(stats.MostCommonTools, func(i, j int) bool {
		a, b := stats.MostCommonTools[i], stats.MostCommonTools[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(stats.MostCommonTools) > topToolsLimit {
		stats.MostCommonTools = stats.MostCommonTools[:topToolsLimit]
	}

	latest := make([]models.Project, len(projects))
	copy(latest, projects)
	sort.SliceStable(latest, func(i, j int) bool {
		if !latest[i].CreatedAt.Equal(latest[j].CreatedAt) {
			return latest[i].CreatedAt.After(latest[j].CreatedAt)
		}
		return latest[i].ID > latest[j].ID
	})
	for i := 0; i < len(latest) && i < latestLimit; i++ {
		p := latest[i]
		stats.Latest = append(stats.Latest, ProjectSummary{
			ID:        p.ID,
			Title:     p.Title,
			Team:      p.Team,
			Owner:     p.Owner,
			CreatedAt: p.CreatedAt,
		})
	}
	return stats
}
