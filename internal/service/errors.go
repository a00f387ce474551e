package service

import "errors"

// Common service errors
var (
	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrQuotationNotFound is returned when a quotation is not found
	ErrQuotationNotFound = errors.New("quotation not found")

	// ErrQuotationNotEditable is returned when a quotation is past the point
	// where its rows can still be changed
	ErrQuotationNotEditable = errors.New("quotation can no longer be edited")

	// ErrStaleQuotation is returned when an update lost the optimistic
	// concurrency race and the caller must reload
	ErrStaleQuotation = errors.New("quotation was modified by someone else, reload and retry")

	// ErrSavingNotFound is returned when a saving record is not found
	ErrSavingNotFound = errors.New("saving not found")

	// ErrAttachmentNotFound is returned when an attachment is not found
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrAttachmentTooLarge is returned when an upload exceeds the size limit
	ErrAttachmentTooLarge = errors.New("attachment exceeds maximum upload size")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserInactive is returned when a deactivated user tries to log in
	ErrUserInactive = errors.New("user account is deactivated")
)
