package constants

// Upstream names used for circuit breakers and logs
const (
	UpstreamGemini = "gemini"
	UpstreamMaps   = "google_maps"
)

// Places defaults
const (
	DefaultSearchRadius = 5000
	PlaceFieldMissing   = "N/A"
)

// Lead scoring fallbacks
const (
	FallbackLeadScore   = 0
	FallbackLeadSummary = "No summary available."
	FallbackChatReply   = "Sorry, I could not process that right now. Which industry and location should I look at?"
)
