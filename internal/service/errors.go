package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cytutor/backend/internal/config"
	"github.com/cytutor/backend/internal/model"
)

// Kind is the stable machine-readable code sent to clients.
type Kind string

const (
	KindMissingToken            Kind = "MISSING_TOKEN"
	KindInvalidToken            Kind = "INVALID_TOKEN"
	KindExpiredToken            Kind = "EXPIRED_TOKEN"
	KindRevokedToken            Kind = "REVOKED_TOKEN"
	KindInvalidUser             Kind = "INVALID_USER"
	KindAccountDeactivated      Kind = "ACCOUNT_DEACTIVATED"
	KindInsufficientPermissions Kind = "INSUFFICIENT_PERMISSIONS"
	KindNoAuth                  Kind = "NO_AUTH"
	KindCorruptCredential       Kind = "CORRUPT_CREDENTIAL"
	KindConfigError             Kind = "CONFIG_ERROR"
	KindValidationError         Kind = "VALIDATION_ERROR"
	KindUserExists              Kind = "USER_EXISTS"
	KindInvalidCredentials      Kind = "INVALID_CREDENTIALS"
	KindUserNotFound            Kind = "USER_NOT_FOUND"
	KindChallengeNotFound       Kind = "CHALLENGE_NOT_FOUND"
	KindMissingFlag             Kind = "MISSING_FLAG"
	KindMissingFields           Kind = "MISSING_FIELDS"
	KindAlreadySolved           Kind = "ALREADY_SOLVED"
	KindIncorrectFlag           Kind = "INCORRECT_FLAG"
	KindInternal                Kind = "INTERNAL_ERROR"
)

var (
	ErrMissingToken            = errors.New("access token required")
	ErrInvalidToken            = errors.New("invalid token")
	ErrExpiredToken            = errors.New("token has expired")
	ErrRevokedToken            = errors.New("token has been revoked")
	ErrInvalidUser             = errors.New("invalid token - user not found")
	ErrAccountDeactivated      = errors.New("account has been deactivated")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrNoAuth                  = errors.New("authentication required")
	ErrCorruptCredential       = errors.New("stored credential is corrupt")
	ErrMisconfigured           = config.ErrMisconfigured
	ErrInvalidInput            = errors.New("validation failed")
	ErrUserExists              = errors.New("username or email already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUserNotFound            = errors.New("user not found")
	ErrChallengeNotFound       = errors.New("challenge not found")
	ErrMissingFlag             = errors.New("flag is required")
	ErrMissingFields           = errors.New("missing required fields")
	ErrAlreadySolved           = errors.New("challenge already solved")
	ErrIncorrectFlag           = errors.New("incorrect flag")

	// internal reasons behind ErrInvalidCredentials; logged, never sent
	errUnknownAccount = fmt.Errorf("%w: unknown account", ErrInvalidCredentials)
	errWrongPassword  = fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrMissingToken, KindMissingToken},
	{ErrInvalidToken, KindInvalidToken},
	{ErrExpiredToken, KindExpiredToken},
	{ErrRevokedToken, KindRevokedToken},
	{ErrInvalidUser, KindInvalidUser},
	{ErrAccountDeactivated, KindAccountDeactivated},
	{ErrInsufficientPermissions, KindInsufficientPermissions},
	{ErrNoAuth, KindNoAuth},
	{ErrCorruptCredential, KindCorruptCredential},
	{ErrMisconfigured, KindConfigError},
	{ErrInvalidInput, KindValidationError},
	{ErrUserExists, KindUserExists},
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrUserNotFound, KindUserNotFound},
	{ErrChallengeNotFound, KindChallengeNotFound},
	{ErrMissingFlag, KindMissingFlag},
	{ErrMissingFields, KindMissingFields},
	{ErrAlreadySolved, KindAlreadySolved},
	{ErrIncorrectFlag, KindIncorrectFlag},
}

// KindOf maps err to its code; anything unrecognized is KindInternal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// PermissionError reports a role-gate rejection.
type PermissionError struct {
	Allowed []model.Role
	Actual  model.Role
}

func (e *PermissionError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, role := range e.Allowed {
		allowed = append(allowed, string(role))
	}
	return fmt.Sprintf("%s: role %q not in [%s]", ErrInsufficientPermissions, e.Actual, strings.Join(allowed, ", "))
}

func (e *PermissionError) Unwrap() error {
	return ErrInsufficientPermissions
}
