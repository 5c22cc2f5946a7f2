package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
)

type errorSpec struct {
	status  int
	message string
}

var errorSpecs = map[service.Kind]errorSpec{
	service.KindMissingToken:            {http.StatusUnauthorized, "Access token required"},
	service.KindInvalidToken:            {http.StatusUnauthorized, "Invalid token"},
	service.KindExpiredToken:            {http.StatusUnauthorized, "Token has expired"},
	service.KindRevokedToken:            {http.StatusUnauthorized, "Token has been revoked"},
	service.KindInvalidUser:             {http.StatusUnauthorized, "Invalid token - user not found"},
	service.KindAccountDeactivated:      {http.StatusUnauthorized, "Account has been deactivated"},
	service.KindNoAuth:                  {http.StatusUnauthorized, "Authentication required"},
	service.KindInvalidCredentials:      {http.StatusUnauthorized, "Invalid credentials"},
	service.KindInsufficientPermissions: {http.StatusForbidden, "Insufficient permissions"},
	service.KindValidationError:         {http.StatusBadRequest, "Validation failed"},
	service.KindMissingFlag:             {http.StatusBadRequest, "Flag is required"},
	service.KindMissingFields:           {http.StatusBadRequest, "Missing required fields"},
	service.KindAlreadySolved:           {http.StatusBadRequest, "Challenge already solved"},
	service.KindIncorrectFlag:           {http.StatusBadRequest, "Incorrect flag"},
	service.KindUserExists:              {http.StatusConflict, "Username or email already exists"},
	service.KindUserNotFound:            {http.StatusNotFound, "User not found"},
	service.KindChallengeNotFound:       {http.StatusNotFound, "Challenge not found"},
	service.KindCorruptCredential:       {http.StatusInternalServerError, "Internal server error"},
	service.KindConfigError:             {http.StatusInternalServerError, "Internal server error"},
	service.KindInternal:                {http.StatusInternalServerError, "Internal server error"},
}

func specFor(kind service.Kind) errorSpec {
	if spec, ok := errorSpecs[kind]; ok {
		return spec
	}
	return errorSpecs[service.KindInternal]
}

// writeError renders err as {message, error}. Server-side failures are logged
// with the underlying error; the client only sees the code.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	kind := service.KindOf(err)
	spec := specFor(kind)

	entry := log.WithFields(logrus.Fields{
		"kind":       kind,
		"path":       c.FullPath(),
		"request_id": c.GetString(requestIDKey),
	})
	switch {
	case spec.status >= http.StatusInternalServerError:
		entry.WithError(err).Error("request failed")
	case spec.status == http.StatusUnauthorized || spec.status == http.StatusForbidden:
		entry.Info("request rejected")
	}

	var permErr *service.PermissionError
	if errors.As(err, &permErr) {
		c.AbortWithStatusJSON(spec.status, model.PermissionErrorResponse{
			Message:  spec.message,
			Error:    string(kind),
			Required: permErr.Allowed,
			Current:  permErr.Actual,
		})
		return
	}

	c.AbortWithStatusJSON(spec.status, model.ErrorResponse{
		Message: spec.message,
		Error:   string(kind),
	})
}

// writeBindError renders a request binding failure as VALIDATION_ERROR with
// one entry per offending field.
func writeBindError(c *gin.Context, err error) {
	fields := []model.FieldError{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, model.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
	} else {
		fields = append(fields, model.FieldError{Field: "body", Message: "Malformed request"})
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, model.ValidationErrorResponse{
		Message: specFor(service.KindValidationError).message,
		Error:   string(service.KindValidationError),
		Errors:  fields,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please provide a valid email"
	case "username":
		return "Username must be 3-50 characters and contain only letters, numbers and underscores"
	case "strongpassword":
		return "Password must be at least 8 characters with uppercase, lowercase, number and special character (@$!%*?&)"
	case "personname":
		return fe.Field() + " must contain only letters and spaces (max 50)"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
