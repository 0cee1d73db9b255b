package account

import "errors"

var (
	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when the email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword is returned when the password is too short.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrPasswordTooLong is returned when the password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters")
	// ErrNameRequired is returned when a user is created without a name.
	ErrNameRequired = errors.New("full name is required")
	// ErrInvalidRole is returned for roles outside the closed role set.
	ErrInvalidRole = errors.New("invalid role")
	// ErrUserExists is returned when the email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden is returned when the actor may not perform the action.
	ErrForbidden = errors.New("not authorized")
	// ErrTitleRequired is returned when a task is assigned without a title.
	ErrTitleRequired = errors.New("task title is required")
	// ErrInvalidStatus is returned for statuses outside the closed status set.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrTaskNotFound is returned when the task does not exist on the user.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// knownErrors are matched by message when errors come back over the service bus.
var knownErrors = []error{
	ErrInvalidCredentials,
	ErrInvalidEmail,
	ErrWeakPassword,
	ErrPasswordTooLong,
	ErrNameRequired,
	ErrInvalidRole,
	ErrUserExists,
	ErrUserNotFound,
	ErrForbidden,
	ErrTitleRequired,
	ErrInvalidStatus,
	ErrTaskNotFound,
	ErrExpiredToken,
	ErrInvalidToken,
}
