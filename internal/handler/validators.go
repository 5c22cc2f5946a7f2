package handler

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const passwordSpecials = "@$!%*?&"

var (
	usernamePattern    = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)
	registerValidators sync.Once
)

// RegisterValidators installs the custom binding rules on gin's validator.
// Field names in errors follow the json tag.
func RegisterValidators() {
	registerValidators.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		rules := map[string]validator.Func{
			"username":       validateUsername,
			"strongpassword": validateStrongPassword,
			"personname":     validatePersonName,
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("register %s validator: %v", tag, err))
			}
		}
	})
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return isStrongPassword(fl.Field().String())
}

func validatePersonName(fl validator.FieldLevel) bool {
	return isPersonName(fl.Field().String())
}

// isStrongPassword also caps the length at bcrypt's 72-byte input limit.
func isStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 || len(password) > 72 {
		return false
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return lower && upper && digit && special
}

func isPersonName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 50 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}
