package entities

// FetchDetails reports how a fetchAndPopulateCache call was satisfied,
// for callers that want to distinguish a cache hit from a cold fetch.
type FetchDetails struct {
	FromCache    bool
	UpdatedCache bool
}
