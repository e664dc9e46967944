package constants

// Application Information
const (
	AppName    = "Leadgen Service"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8000"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix      = "leadgen:"
	CacheKeyChatContext = CacheKeyPrefix + "chat:context:"
)

// GuestUserKey keys the conversation context of anonymous callers.
const GuestUserKey = "guest"
