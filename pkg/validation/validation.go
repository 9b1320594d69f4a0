package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// tags registered on the package validator
const (
	baseURLTag = "pqd_url"
	emailTag   = "pqd_email"
)

var (
	// a bare http url with an optional port and a dotted path
	plainHTTPURL = regexp.MustCompile(`^http://\w+(\.\w+)*(:[0-9]+)?/?(/[.\w]*)*$`)

	wwwHost         = regexp.MustCompile(`www\.[a-zA-Z0-9][a-zA-Z0-9-]+[a-zA-Z0-9]\.[^\s]{2,}|www\.[a-zA-Z0-9]+\.[^\s]{2,}`)
	scheme          = regexp.MustCompile(`https?://`)
	hostAfterScheme = regexp.MustCompile(`^(?:[a-zA-Z0-9][a-zA-Z0-9-]+[a-zA-Z0-9]\.[^\s]{2,}|[a-zA-Z0-9]+\.[^\s]{2,})`)
	urlShape        = regexp.MustCompile(`https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)`)

	email = regexp.MustCompile("^[a-zA-Z0-9_!#$%&'*+/=?`{|}~^.-]+@[a-zA-Z0-9.-]+$")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation(baseURLTag, func(fl validator.FieldLevel) bool {
		return isBaseURL(fl.Field().String())
	})
	v.RegisterValidation(emailTag, func(fl validator.FieldLevel) bool {
		return email.MatchString(fl.Field().String())
	})
	return v
}

// NameValid - empty or at least 3 characters
func NameValid(name string) bool {
	return validate.Var(name, "omitempty,min=3") == nil
}

// UsernameValid - empty or at least 3 characters
func UsernameValid(username string) bool {
	return validate.Var(username, "omitempty,min=3") == nil
}

// PasswordValid - empty or at least 4 characters
func PasswordValid(password string) bool {
	return validate.Var(password, "omitempty,min=4") == nil
}

// BaseURLValid - empty or shaped like a tool's base url
func BaseURLValid(baseURL string) bool {
	return validate.Var(baseURL, "omitempty,"+baseURLTag) == nil
}

// EmailValid - empty or shaped like an email address
func EmailValid(address string) bool {
	return validate.Var(address, "omitempty,"+emailTag) == nil
}

// NumericValid - empty or a number
func NumericValid(value string) bool {
	return validate.Var(value, "omitempty,numeric") == nil
}

func isBaseURL(value string) bool {
	if plainHTTPURL.MatchString(value) {
		return true
	}
	return hasHost(value) && urlShape.MatchString(value)
}

// hasHost - some http(s) url or www host occurs in value. After the scheme the host either
// starts with "www." or does not start with "www" at all.
func hasHost(value string) bool {
	if wwwHost.MatchString(value) {
		return true
	}
	for _, loc := range scheme.FindAllStringIndex(value, -1) {
		rest := value[loc[1]:]
		if strings.HasPrefix(rest, "www.") {
			rest = rest[len("www."):]
		} else if strings.HasPrefix(rest, "www") {
			continue
		}
		if hostAfterScheme.MatchString(rest) {
			return true
		}
	}
	return false
}
