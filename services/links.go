package services

import (
	"fmt"
	"strings"
)

// BuildProjectURL constructs a project detail URL from the app's base URL
func BuildProjectURL(baseURL string, projectID uint) string {
	if baseURL == "" || projectID == 0 {
		return ""
	}
	return fmt.Sprintf("%s/projects/%d", strings.TrimSuffix(baseURL, "/"), projectID)
}

// orDash returns s, or an em dash placeholder when s is blank
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
