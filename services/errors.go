package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	// Validation and business rules (400-class)
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidTeamRefs     = errors.New("invalid team references")
	ErrGameIncomplete      = errors.New("game goal counts are incomplete")
	ErrTeamNameRequired    = errors.New("team name is required")
	ErrShirtNumberTaken    = errors.New("shirt number already used in this team")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrUploaderUnavailable = errors.New("file storage is not configured")

	// Not found (404-class)
	ErrUserNotFound   = errors.New("user not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")

	// Conflicts (409-class)
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrTeamNameConflict  = errors.New("team name is already in use")
	ErrGameGone          = errors.New("game does not exist")
	ErrTeamGone          = errors.New("team does not exist")

	// Authentication (401-class)
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
)
