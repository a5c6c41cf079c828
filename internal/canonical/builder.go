package canonical

import "strings"

// RawPackage is one provider package record as harvested from the offers
// upstream for a single country.
type RawPackage struct {
	TechnicalName string `json:"technicalName"`
	ClearName     string `json:"clearName"`
}

// Cosmetic display-name suffixes collapsed during normalization, most
// specific first so " Standard with Ads" wins over " with Ads".
var cosmeticSuffixes = []string{
	" amazon channel",
	" standard with ads",
	" with ads",
	" premium",
}

const channelSuffix = " amazon channel"

type group struct {
	canonical RawPackage
	members   []RawPackage
}

// Build groups raw package records by normalized display name and derives one
// canonical entry per group. The canonical id/name come from a non-channel
// variant when one exists; otherwise the first record seen wins.
func Build(records []RawPackage) *Map {
	groups := make(map[string]*group)
	order := make([]string, 0, len(records))

	for _, rec := range records {
		key := normalizeName(rec.ClearName)
		g, ok := groups[key]
		if !ok {
			groups[key] = &group{canonical: rec, members: []RawPackage{rec}}
			order = append(order, key)
			continue
		}
		g.members = append(g.members, rec)
		if isChannelVariant(g.canonical.ClearName) && !isChannelVariant(rec.ClearName) {
			g.canonical = rec
		}
	}

	m := &Map{
		ByTechnicalID: make(map[string]Entry),
		ByDisplayName: make(map[string]Entry),
	}
	for _, key := range order {
		g := groups[key]
		entry := Entry{
			ID:   g.canonical.TechnicalName,
			Name: strings.TrimSpace(g.canonical.ClearName),
		}
		for _, member := range g.members {
			m.ByTechnicalID[member.TechnicalName] = entry
			m.ByDisplayName[strings.ToLower(strings.TrimSpace(member.ClearName))] = entry
		}
		m.ByDisplayName[key] = entry
	}
	return m
}

// normalizeName lowercases, trims, and strips the first matching cosmetic
// suffix from a display name.
func normalizeName(clearName string) string {
	name := strings.ToLower(strings.TrimSpace(clearName))
	for _, suffix := range cosmeticSuffixes {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(name, suffix))
		}
	}
	return name
}

func isChannelVariant(clearName string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(clearName)), channelSuffix)
}
