package inventory

import (
	"strings"

	"github.com/starford/othala/internal/models"
)

// StatusAll is the sentinel status meaning "no status filter".
const StatusAll = "All"

// Query prefixes recognised in the free-text filter.
const (
	excludeFolderPrefix = "folder:"
	includeFolderPrefix = "incfolder:"
)

// Criteria narrows a snapshot for presentation. All fields are optional;
// blank values are no-ops.
type Criteria struct {
	// Status is an exact status match, or "" / StatusAll for no filter.
	Status string
	// Topics is a comma-separated list of terms, AND-combined, each
	// matched case-insensitively against the record's topics.
	Topics string
	// Text is a comma-separated list of tokens. "folder:x" excludes rows
	// whose folder path contains x, "incfolder:x" keeps only rows whose
	// folder path contains x (inclusions OR together, exclusions OR
	// together), and remaining tokens are free-text terms AND-matched
	// against a synthesized searchable string.
	Text string
}

// Filter returns the records of snap matching c, in snapshot order.
// Composition order: status, folder include/exclude, free text, topics.
func Filter(snap *models.Snapshot, c Criteria) []models.FileRecord {
	out := []models.FileRecord{}
	if snap == nil {
		return out
	}

	includes, excludes, terms := parseTextQuery(c.Text)
	topicTerms := splitTerms(c.Topics)
	statusFilter := strings.TrimSpace(c.Status)
	if statusFilter == StatusAll {
		statusFilter = ""
	}

	for _, rec := range snap.Records() {
		if statusFilter != "" && string(rec.Status) != statusFilter {
			continue
		}
		folder := strings.ToLower(rec.FolderPath)
		if len(includes) > 0 && !containsAny(folder, includes) {
			continue
		}
		if containsAny(folder, excludes) {
			continue
		}
		if len(terms) > 0 {
			haystack := searchable(rec)
			if !containsAll(haystack, terms) {
				continue
			}
		}
		if len(topicTerms) > 0 && !containsAll(strings.ToLower(rec.Topics), topicTerms) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// searchable synthesizes the lowercased string free-text terms match
// against: file name, notes, content hint, topics, full path, and the
// last-modified timestamp.
func searchable(r models.FileRecord) string {
	return strings.ToLower(strings.Join([]string{
		r.FileName,
		r.ManualNotes,
		r.ContentHint,
		r.Topics,
		r.FullPath,
		r.LastModified,
	}, " || "))
}

// parseTextQuery splits a comma-separated query into folder inclusion
// substrings, folder exclusion substrings, and free-text terms. All are
// lowercased; matching is literal containment, so path-like terms need
// no special casing.
func parseTextQuery(q string) (includes, excludes, terms []string) {
	for _, raw := range strings.Split(q, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		lowered := strings.ToLower(token)
		switch {
		case strings.HasPrefix(lowered, excludeFolderPrefix):
			if v := strings.TrimSpace(lowered[len(excludeFolderPrefix):]); v != "" {
				excludes = append(excludes, v)
			}
		case strings.HasPrefix(lowered, includeFolderPrefix):
			if v := strings.TrimSpace(lowered[len(includeFolderPrefix):]); v != "" {
				includes = append(includes, v)
			}
		default:
			terms = append(terms, lowered)
		}
	}
	return includes, excludes, terms
}

func splitTerms(q string) []string {
	var out []string
	for _, raw := range strings.Split(q, ",") {
		if t := strings.ToLower(strings.TrimSpace(raw)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
