package constants

// Pagination Query Parameters
const (
	QueryParamPage  = "page"
	QueryParamLimit = "limit"
)

// Default Pagination Values (as strings for query parsing)
const (
	DefaultPage  = "1"
	DefaultLimit = "50"
)

// Pagination Limits (as integers for validation)
const (
	MinPage  = 1
	MinLimit = 1
	MaxLimit = 200
)
