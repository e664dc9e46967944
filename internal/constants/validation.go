package constants

// Field Length Limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxEmailLength    = 100
	MaxTitleLength    = 255
	MaxMessageLength  = 2000
)

// Lead score bounds
const (
	MinLeadScore = 0
	MaxLeadScore = 100
)
