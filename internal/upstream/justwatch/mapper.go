package justwatch

import (
	"strings"

	"where-to-watch-service/internal/domain"
)

func mapTitle(n nodeResponse) Title {
	t := Title{
		ExternalID:  strings.TrimSpace(n.Content.ExternalIDs.TmdbID),
		Title:       n.Content.Title,
		ReleaseYear: n.Content.OriginalReleaseYear,
		Poster:      materializePoster(n.Content.PosterURL),
		Offers:      make([]domain.Offer, 0, len(n.Offers)),
	}
	if n.Content.FullPath != "" {
		t.URL = webHost + n.Content.FullPath
	}
	for _, o := range n.Offers {
		t.Offers = append(t.Offers, domain.Offer{
			MonetizationType: o.MonetizationType,
			StandardWebURL:   o.StandardWebURL,
			Package: domain.OfferPackage{
				TechnicalName: o.Package.TechnicalName,
				ClearName:     o.Package.ClearName,
				IconTemplate:  o.Package.Icon,
			},
		})
	}
	return t
}

// materializePoster substitutes the poster template's rendition tokens.
func materializePoster(template string) string {
	if template == "" {
		return ""
	}
	poster := strings.ReplaceAll(template, "{profile}", posterProfile)
	poster = strings.ReplaceAll(poster, "{format}", posterFormat)
	if strings.HasPrefix(poster, "/") {
		return imageHost + poster
	}
	return poster
}
