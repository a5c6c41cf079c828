package canonical

import "strings"

// Entry is a single canonical streaming brand identity.
type Entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Map collapses cosmetic brand variants ("X", "X Amazon Channel") into one
// canonical entry, looked up by package technical name or display name.
// A nil *Map is valid: lookups miss and consumers fall back to raw identity.
type Map struct {
	ByTechnicalID map[string]Entry `json:"byTechnicalId"`
	ByDisplayName map[string]Entry `json:"byDisplayName"`
}

// LookupTechnical resolves a package technical name to its canonical entry.
func (m *Map) LookupTechnical(technicalName string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	entry, ok := m.ByTechnicalID[technicalName]
	return entry, ok
}

// LookupDisplay resolves a raw display name to its canonical entry.
func (m *Map) LookupDisplay(clearName string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	entry, ok := m.ByDisplayName[strings.ToLower(strings.TrimSpace(clearName))]
	return entry, ok
}

// Len reports how many technical names the map covers.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ByTechnicalID)
}
