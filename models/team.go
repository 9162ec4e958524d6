package models

// Teams is the canonical, alphabetized list of teams a project can belong to
var Teams = []string{
	"AIM",
	"B2B",
	"BX",
	"Expanded Core",
	"Fraud",
	"GTM",
	"Implementation",
	"Ops Data",
	"Performance / UA",
	"Receipt Quality",
	"Sales",
	"Stratops",
	"Support",
}

// IsTeam reports whether name is one of the canonical teams.
func IsTeam(name string) bool {
	for _, t := range Teams {
		if t == name {
			return true
		}
	}
	return false
}
