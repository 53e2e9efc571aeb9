package authflow

import "unicode"

// ValidatePassword enforces the signup password policy: at least 8
// characters with an uppercase letter, a lowercase letter, and a digit,
// and a matching confirmation. Returns nil when the password is acceptable.
func ValidatePassword(password, confirmation string) *ValidationError {
	if len(password) < 8 {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters long"}
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return &ValidationError{Field: "password", Message: "Password must contain at least one uppercase letter"}
	case !hasLower:
		return &ValidationError{Field: "password", Message: "Password must contain at least one lowercase letter"}
	case !hasDigit:
		return &ValidationError{Field: "password", Message: "Password must contain at least one number"}
	}

	if password != confirmation {
		return &ValidationError{Field: "password_confirmation", Message: "Passwords do not match"}
	}

	return nil
}
