package item

import "strings"

// Filter narrows a report listing. Empty fields match everything.
type Filter struct {
	Category string
	Status   string
	Query    string // free text matched against title, description and location
}

// MatchLost reports whether l passes the filter.
func (f Filter) MatchLost(l *Lost) bool {
	return f.match(l.Category, string(l.Status), l.Title, l.Description, l.Location)
}

// MatchFound reports whether it passes the filter.
func (f Filter) MatchFound(it *Found) bool {
	return f.match(it.Category, string(it.Status), it.Title, it.Description, it.Location)
}

func (f Filter) match(category, status string, text ...string) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, category) {
		return false
	}
	if f.Status != "" && f.Status != status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, t := range text {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
