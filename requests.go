package session

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// defaultPhoneRegion is used to parse phone numbers supplied without a
// country prefix.
const defaultPhoneRegion = "IN"

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
	specialRe  = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
}

// Registration is the account creation payload. Phone is optional; when
// present it must parse as a valid number for the default region.
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(3, 30),
			validation.Match(usernameRe).Error("must contain only letters, numbers, underscores, and hyphens"),
		),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 128),
			validation.Match(upperRe).Error("must contain an uppercase letter"),
			validation.Match(lowerRe).Error("must contain a lowercase letter"),
			validation.Match(digitRe).Error("must contain a digit"),
			validation.Match(specialRe).Error("must contain a special character"),
		),
		validation.Field(&r.Phone, validation.By(validPhone)),
	)
}

func validPhone(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	_, err := NormalizePhone(raw)
	return err
}

// NormalizePhone returns the E.164 form of a phone number accepted by
// Validate. Empty input stays empty.
func NormalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	num, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryValidation, "invalid phone number").
			WithCode(errors.CodeBadRequest)
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", errors.New("invalid phone number", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
