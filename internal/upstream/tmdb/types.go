package tmdb

// TitleMatch is the identity result for one movie. ID is the correlation key
// used to match into the offers upstream.
type TitleMatch struct {
	ID          int
	Title       string
	ReleaseYear string
	Poster      string
}

type searchResponse struct {
	Results []movieResult `json:"results"`
}

type movieResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}
