// Package validate checks and normalises request inputs before they reach
// the services. Every rejection is a *common.ValidationError carrying the
// message shown to the client.
package validate

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/dsalog/internal/common"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

const (
	MsgAllFieldsRequired = "All fields are required"
	MsgWeakPassword      = "Password must be at least 8 characters long, with at least one lowercase letter, one uppercase letter, and one number."
	MsgPasswordTooLong   = "Password must be at most 72 bytes"
	MsgInvalidEmail      = "Invalid email format"
	MsgInvalidLink       = "Invalid problem link"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	_ = val.RegisterValidation("personname", isPersonName)
	_ = val.RegisterValidation("strongpassword", isStrongPassword)
	_ = val.RegisterValidation("weblink", isWebLink)
	return val
}

func isPersonName(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r != ' ' && (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func isStrongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit bool
	n := 0
	for _, r := range fl.Field().String() {
		n++
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return n >= 8 && lower && upper && digit
}

// isWebLink accepts absolute http(s) URLs whose host ends in an alphabetic
// top-level domain.
func isWebLink(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := u.Hostname()
	dot := strings.LastIndexByte(host, '.')
	if dot <= 0 {
		return false
	}
	tld := host[dot+1:]
	if len(tld) < 2 {
		return false
	}
	for _, r := range tld {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// check runs a single validator tag against value and converts a failure
// into a ValidationError for field.
func check(field string, value any, tag, message string) error {
	if err := v.Var(value, tag); err != nil {
		return common.NewValidationError(field, message)
	}
	return nil
}

// NormalizeName trims and lowercases a first or last name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Password checks the strength policy for a new password.
func Password(field, password string) error {
	if len(password) > maxPasswordBytes {
		return common.NewValidationError(field, MsgPasswordTooLong)
	}
	return check(field, password, "strongpassword", MsgWeakPassword)
}

// Signup validates in and normalises its names and email in place. Checks
// run in a fixed order and the first failure is returned.
func Signup(in *models.SignupInput) error {
	in.FirstName = NormalizeName(in.FirstName)
	in.LastName = NormalizeName(in.LastName)
	email := strings.TrimSpace(in.Email)

	if in.FirstName == "" || in.LastName == "" || email == "" || in.Password == "" {
		return common.NewValidationError("body", MsgAllFieldsRequired)
	}
	if err := Password("password", in.Password); err != nil {
		return err
	}

	normalized, err := NormalizeEmail(email)
	if err != nil {
		return err
	}

	names := []struct{ field, label, value string }{
		{"firstName", "First name", in.FirstName},
		{"lastName", "Last name", in.LastName},
	}
	for _, n := range names {
		if err := check(n.field, n.value, "min=3,max=20", n.label+" must be between 3 and 20 characters"); err != nil {
			return err
		}
		if err := check(n.field, n.value, "personname", n.label+" must contain only letters and spaces"); err != nil {
			return err
		}
	}

	in.Email = normalized
	return nil
}

// Login checks that both credentials were supplied. Email format is not
// checked here so a malformed address fails like any unknown one.
func Login(in *models.LoginInput) error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return common.NewValidationError("body", "Email and password are required")
	}
	return nil
}

// ChangePassword checks a password change request.
func ChangePassword(in *models.ChangePasswordInput) error {
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return common.NewValidationError("body", MsgAllFieldsRequired)
	}
	return Password("newPassword", in.NewPassword)
}

// Log validates a log entry input and trims its text fields in place.
func Log(in *models.LogInput) error {
	in.ProblemName = strings.TrimSpace(in.ProblemName)
	in.ProblemLink = strings.TrimSpace(in.ProblemLink)
	in.Notes = strings.TrimSpace(in.Notes)

	topics := in.Topics[:0:0]
	for _, t := range in.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	in.Topics = topics

	if in.ProblemName == "" || len(in.Topics) == 0 || in.Difficulty == "" || in.Status == "" {
		return common.NewValidationError("body", MsgAllFieldsRequired)
	}
	if in.ProblemLink != "" {
		if err := check("problemLink", in.ProblemLink, "weblink", MsgInvalidLink); err != nil {
			return err
		}
	}

	rules := []struct {
		field string
		value any
		tag   string
		msg   string
	}{
		{"problemName", in.ProblemName, "min=3,max=100", "Problem name must be between 3 and 100 characters"},
		{"difficulty", in.Difficulty, "oneof=Easy Medium Hard", "Difficulty must be one of Easy, Medium, Hard"},
		{"status", in.Status, "oneof='Not Started' 'In Progress' 'Completed'", "Status must be one of Not Started, In Progress, Completed"},
		{"notes", in.Notes, "max=500", "Notes must be at most 500 characters"},
	}
	for _, r := range rules {
		if err := check(r.field, r.value, r.tag, r.msg); err != nil {
			return err
		}
	}

	return nil
}
