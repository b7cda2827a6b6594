package errors

var (
	ErrUserNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrUserExists = &DomainError{
		Kind:    KindConflict,
		Code:    "USER_EXISTS",
		Message: "username or email already registered",
	}
	ErrInvalidUser = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "INVALID_USER",
		Message: "username and email are required",
	}
	ErrUserInactive = &DomainError{
		Kind:    KindInvalidInput,
		Code:    "USER_INACTIVE",
		Message: "user account is deactivated",
	}
)
