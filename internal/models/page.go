package models

// Page is the paginated list envelope used by every list endpoint.
// Count is the server-side total for the filter set regardless of which page
// was requested; Next and Previous are absolute URLs or null.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
