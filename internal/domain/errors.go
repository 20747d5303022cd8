// internal/domain/errors.go
package domain

import "errors"

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("access to this organization is not allowed")
	ErrRateLimited  = errors.New("rate limit exceeded")

	// Token errors
	ErrTokenMissing       = errors.New("token missing")
	ErrInvalidTokenFormat = errors.New("invalid token format")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")

	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooWeak    = errors.New("password must be at least 6 characters long")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Organization-related errors
	ErrOrganizationNotFound = errors.New("organization not found")

	// Customer-related errors
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerEmailExists = errors.New("a customer with this email already exists")
	ErrInvalidCSVFile      = errors.New("file must be a CSV")

	// Campaign-related errors
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignAlreadySent  = errors.New("cannot delete a campaign that has already been sent")
	ErrInvalidCampaignType  = errors.New("invalid campaign type")
	ErrInvalidCampaignState = errors.New("invalid campaign status")
	ErrInvalidSchedule      = errors.New("invalid date format for schedule_at")

	// Catalogue, LMS and billing errors
	ErrProductNotFound = errors.New("product not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// AI service errors
	ErrAIService     = errors.New("AI service error")
	ErrAIUnreachable = errors.New("AI service unreachable")
)
