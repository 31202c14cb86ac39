package usecase

import "errors"

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternal            = errors.New("internal error")

	ErrInvalidCredentials = errors.New("Invalid email or password!")
	ErrEmailTaken         = errors.New("A user with this email already exists!")
	ErrInvalidActivation  = errors.New("Invalid activation link!")
	ErrAccountActive      = errors.New("Your account is already active. Proceed to login!")
	ErrEmailDelivery      = errors.New("Fail to send email!")
	ErrInviteInProgress   = errors.New("This invitation is already being processed")
	ErrPhotoUpload        = errors.New("There was an error uploading your photo!")

	ErrUserNotFound           = errors.New("User not found")
	ErrProfileNotFound        = errors.New("Developer profile not found")
	ErrWorkExperienceNotFound = errors.New("Work experience not found")
	ErrEducationNotFound      = errors.New("Education not found")
	ErrCategoryNotFound       = errors.New("Category not found")
	ErrCategoryExists         = errors.New("A category with this name already exists")
	ErrSkillNotFound          = errors.New("Skill not found")
	ErrSkillExists            = errors.New("A skill with this name already exists")
	ErrProjectNotFound        = errors.New("Project not found")
	ErrProjectExists          = errors.New("A project with this name already exists")
	ErrInvalidMembers         = errors.New("One or more developer profiles is invalid!")
	ErrNoMatchingDevelopers   = errors.New("No developers match the required skills of this project")
)

// ValidationError reports a rejected field. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
