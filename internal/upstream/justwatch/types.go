package justwatch

import "where-to-watch-service/internal/domain"

// Title is one candidate record from the offers upstream. ExternalID carries
// the embedded identity-service id used for record matching; URL is the
// title's page on the offers site, used as the fallback deep link.
type Title struct {
	ExternalID  string
	Title       string
	ReleaseYear int
	Poster      string
	URL         string
	Offers      []domain.Offer
}

type graphResponse struct {
	Data struct {
		PopularTitles struct {
			Edges []struct {
				Node nodeResponse `json:"node"`
			} `json:"edges"`
		} `json:"popularTitles"`
	} `json:"data"`
	Errors []graphError `json:"errors"`
}

type graphError struct {
	Message string `json:"message"`
}

type nodeResponse struct {
	ID      string          `json:"id"`
	Content contentResponse `json:"content"`
	Offers  []offerResponse `json:"offers"`
}

type contentResponse struct {
	Title               string `json:"title"`
	OriginalReleaseYear int    `json:"originalReleaseYear"`
	PosterURL           string `json:"posterUrl"`
	FullPath            string `json:"fullPath"`
	ExternalIDs         struct {
		TmdbID string `json:"tmdbId"`
	} `json:"externalIds"`
}

type offerResponse struct {
	MonetizationType string `json:"monetizationType"`
	StandardWebURL   string `json:"standardWebURL"`
	Package          struct {
		TechnicalName string `json:"technicalName"`
		ClearName     string `json:"clearName"`
		Icon          string `json:"icon"`
	} `json:"package"`
}
