package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// EntrySortFields contains allowed sort fields for journal entries
var EntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"starts_at":  true,
	"ends_at":    true,
	"work_type":  true,
	"status":     true,
	"number":     true,
	"author_id":  true,
}

// ViolationSortFields contains allowed sort fields for violations
var ViolationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"opened_at":  true,
	"deadline":   true,
	"severity":   true,
	"status":     true,
	"code":       true,
}

// SessionSortFields contains allowed sort fields for presence sessions
var SessionSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"opened_at":    true,
	"last_seen_at": true,
	"closed_at":    true,
	"person_id":    true,
	"site_id":      true,
}

// SiteSortFields contains allowed sort fields for sites
var SiteSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
}
