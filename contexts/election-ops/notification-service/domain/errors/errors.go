package errors

import "errors"

var (
	ErrInvalidNotification  = errors.New("notification requires a type and a title")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserRequired         = errors.New("user id is required")
	ErrConflict             = errors.New("notification conflict")
)
