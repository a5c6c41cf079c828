package offers

import (
	"strings"

	"where-to-watch-service/internal/canonical"
	"where-to-watch-service/internal/domain"
)

const (
	imageHost = "https://images.justwatch.com"
	// Fixed thumbnail rendition substituted into icon templates.
	iconProfile = "s100"
	iconFormat  = "jpg"

	profileToken = "{profile}"
	formatToken  = "{format}"
)

// Offers outside this set are transactional (rent/buy) and excluded: the
// product answers "where is this included", not "where can I pay again".
var includedMonetization = map[string]struct{}{
	domain.MonetizationFlatrate: {},
	domain.MonetizationFree:     {},
	domain.MonetizationAds:      {},
}

// Process filters raw offers to included-streaming monetization, resolves each
// to its canonical provider, and merges duplicates. The first offer seen for a
// canonical id establishes the representative icon/url/type; later duplicates
// only contribute alternate URLs. Output keeps first-seen insertion order.
//
// A nil canonical map degrades to raw package identity rather than erroring.
func Process(offers []domain.Offer, fallbackURL string, cmap *canonical.Map) []domain.ResolvedProvider {
	result := make([]domain.ResolvedProvider, 0, len(offers))
	index := make(map[string]int)

	for _, offer := range offers {
		if _, ok := includedMonetization[strings.ToUpper(offer.MonetizationType)]; !ok {
			continue
		}

		entry, ok := cmap.LookupTechnical(offer.Package.TechnicalName)
		if !ok {
			entry = canonical.Entry{
				ID:   offer.Package.TechnicalName,
				Name: strings.TrimSpace(offer.Package.ClearName),
			}
		}

		url := offer.StandardWebURL
		if url == "" {
			url = fallbackURL
		}

		if pos, seen := index[entry.ID]; seen {
			result[pos].AlternateURLs = append(result[pos].AlternateURLs, url)
			continue
		}

		index[entry.ID] = len(result)
		result = append(result, domain.ResolvedProvider{
			ID:   entry.ID,
			Name: entry.Name,
			Icon: materializeIcon(offer.Package.IconTemplate),
			URL:  url,
			Type: strings.ToUpper(offer.MonetizationType),
		})
	}

	return result
}

// materializeIcon substitutes the template's profile/format tokens and
// prefixes the image host.
func materializeIcon(template string) string {
	if template == "" {
		return ""
	}
	icon := strings.ReplaceAll(template, profileToken, iconProfile)
	icon = strings.ReplaceAll(icon, formatToken, iconFormat)
	if strings.HasPrefix(icon, "/") {
		return imageHost + icon
	}
	return icon
}
