package justwatch

// searchQuery is the graph query for streaming offers by free-text title.
// Offers are constrained to the requested country/language pair.
const searchQuery = `
query GetSearchTitles($searchQuery: String!, $country: Country!, $language: Language!, $first: Int!) {
  popularTitles(country: $country, first: $first, filter: {searchQuery: $searchQuery}) {
    edges {
      node {
        id
        content(country: $country, language: $language) {
          title
          originalReleaseYear
          posterUrl
          fullPath
          externalIds {
            tmdbId
          }
        }
        ... on Movie {
          offers(country: $country, platform: WEB) {
            monetizationType
            standardWebURL
            package {
              technicalName
              clearName
              icon
            }
          }
        }
      }
    }
  }
}`

type searchVariables struct {
	SearchQuery string `json:"searchQuery"`
	Country     string `json:"country"`
	Language    string `json:"language"`
	First       int    `json:"first"`
}

type graphRequest struct {
	Query     string          `json:"query"`
	Variables searchVariables `json:"variables"`
}
