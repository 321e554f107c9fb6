package common

const (
	// MaxRequestBody limits JSON request bodies for admin endpoints.
	MaxRequestBody = 1 << 20
	// MaxSearchLimit caps selection-modal search results per request.
	MaxSearchLimit = 100
	// DefaultSearchLimit is applied when the client omits a limit.
	DefaultSearchLimit = 20
)
