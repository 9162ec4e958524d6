package catalog

import (
	"sort"

	"github.com/fetchops/ai-project-catalog/models"
)

// Expert is an owner who has shipped projects with a given tool
type Expert struct {
	Owner    string `json:"owner"`
	Projects int    `json:"projects"`
}

// Experts ranks the owners of projects built with tool by how many such
// projects they own, most first, ties by owner. An empty tool yields nothing.
func Experts(projects []models.Project, tool string) []Expert {
	experts := []Expert{}
	if tool == "" {
		return experts
	}

	counts := make(map[string]int)
	for _, p := range projects {
		if p.Owner == "" {
			continue
		}
		for _, name := range p.ToolNames() {
			if name == tool {
				counts[p.Owner]++
				break
			}
		}
	}

	for owner, n := range counts {
		experts = append(experts, Expert{Owner: owner, Projects: n})
	}
	sort.Slice(experts, func(i, j int) bool {
		if experts[i].Projects != experts[j].Projects {
			return experts[i].Projects > experts[j].Projects
		}
		return experts[i].Owner < experts[j].Owner
	})
	return experts
}
