package validation

// CustomMessage returns per-tag overrides for a struct field, nil when none exist
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Email": {
			"required": "email must not be empty",
			"email":    "email is not a valid address",
			"max":      "email must be at most 100 characters",
		},
		"Username": {
			"required": "username must not be empty",
			"min":      "username must be at least 3 characters",
			"max":      "username must be at most 50 characters",
		},
		"Password": {
			"required": "password must not be empty",
			"min":      "password must be at least 8 characters",
			"max":      "password must be at most 100 characters",
		},
		"Message": {
			"max": "message must be at most 2000 characters",
		},
		"LeadScore": {
			"gte": "lead_score must be between 0 and 100",
			"lte": "lead_score must be between 0 and 100",
		},
	}
	return customValidationMessages[field]
}
