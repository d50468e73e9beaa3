package catalog

// Track is a single search result from the catalog.
type Track struct {
	Name         string `json:"name"`
	Artist       string `json:"artist"`
	URI          string `json:"uri"` // unique catalog identifier, dedup key
	ID           string `json:"id"`
	PreviewURL   string `json:"preview_url,omitempty"`
	ExternalURL  string `json:"external_url"`
	SearchSource string `json:"search_source"` // query that produced this track, for diagnostics
}

// PlaylistResult references a playlist created on the catalog service.
// The service owns the playlist; this is only a handle.
type PlaylistResult struct {
	URL      string `json:"url"`
	ID       string `json:"id"`
	EmbedURL string `json:"embed_url"`
}
