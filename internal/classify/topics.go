package classify

import (
	"strings"

	"github.com/starford/othala/internal/models"
)

// TopicRule tags a document with a topic name when every required
// keyword appears in its text and, if the any-of set is non-empty, at
// least one of those keywords appears too. Matching is case-insensitive
// substring containment.
type TopicRule struct {
	Name        string   `yaml:"name" json:"name"`
	AllRequired []string `yaml:"all_required" json:"all_required"`
	AnyOf       []string `yaml:"any_of" json:"any_of,omitempty"`
}

// Classify returns the names of every rule matching text, in rule
// declaration order. An empty result means no match.
func Classify(text string, rules []TopicRule) []string {
	lowered := strings.ToLower(text)
	var matched []string
	for _, rule := range rules {
		if ruleMatches(lowered, rule) {
			matched = append(matched, rule.Name)
		}
	}
	return matched
}

func ruleMatches(lowered string, rule TopicRule) bool {
	for _, kw := range rule.AllRequired {
		if !strings.Contains(lowered, strings.ToLower(kw)) {
			return false
		}
	}
	if len(rule.AnyOf) == 0 {
		return true
	}
	for _, kw := range rule.AnyOf {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Topics derives the comma-joined topic tags for the file at path.
// Only word-processor documents are topic-classified; every other
// format reports the no-match sentinel.
func Topics(path, ext string, rules []TopicRule) string {
	if ext != ".docx" || len(rules) == 0 {
		return models.NoTopics
	}
	text, err := docxText(path)
	if err != nil {
		return models.NoTopics + " (unreadable)"
	}
	if strings.TrimSpace(text) == "" {
		return "DOCX Empty"
	}
	matched := Classify(text, rules)
	if len(matched) == 0 {
		return models.NoTopics
	}
	return strings.Join(matched, ", ")
}
