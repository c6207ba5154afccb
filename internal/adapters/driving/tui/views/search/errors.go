package search

import "errors"

// ErrNoSearchService is returned when the search service is not configured.
var ErrNoSearchService = errors.New("search service not available")
