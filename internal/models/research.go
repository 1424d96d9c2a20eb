package models

// SearchResult is a single web search hit used as research context.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// SearchResults groups the hits returned for one query.
type SearchResults struct {
	Query   string
	Results []SearchResult
}
