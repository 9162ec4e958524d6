package catalog

import (
	"sort"

	"github.com/fetchops/ai-project-catalog/models"
)

// FilterOptions are the distinct values offered by the list page's filters
type FilterOptions struct {
	Teams  []string `json:"teams"`
	Owners []string `json:"owners"`
	Tools  []string `json:"tools"`
}

func Options(projects []models.Project) FilterOptions {
	teams := map[string]bool{}
	owners := map[string]bool{}
	tools := map[string]bool{}
	for _, p := range projects {
		if p.Team != "" {
			teams[p.Team] = true
		}
		if p.Owner != "" {
			owners[p.Owner] = true
		}
		for _, name := range p.ToolNames() {
			tools[name] = true
		}
	}
	return FilterOptions{
		Teams:  sortedKeys(teams),
		Owners: sortedKeys(owners),
		Tools:  sortedKeys(tools),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
