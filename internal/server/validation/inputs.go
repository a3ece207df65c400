package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/go-playground/validator/v10"
)

// UploadInput is a file upload request.
type UploadInput struct {
	Filename string `validate:"required,max=255"`
	Content  []byte
}

// FileInput addresses one file by id.
type FileInput struct {
	FileID string `validate:"required,uuid"`
}

// ShareLinkInput requests a share link. Expiry is optional; see ParseExpiry.
type ShareLinkInput struct {
	FileID string `validate:"required,uuid"`
	Expiry string `validate:"omitempty,max=64"`
}

// TokenInput carries a share token. Shape is checked by the share service so
// that malformed tokens fail the same way as unknown ones.
type TokenInput struct {
	Token string
}

// RegisterInput creates an account.
type RegisterInput struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=8,max=128,password"`
}

// LoginInput authenticates an account.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("password", strongPassword)
	return v
}

// strongPassword requires at least one digit and one non-alphanumeric rune.
func strongPassword(fl validator.FieldLevel) bool {
	var digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}
	return digit && special
}

var tagMessages = map[string]string{
	"required": "is required",
	"uuid":     "must be a valid id",
	"email":    "must be a valid email address",
	"password": "must contain a digit and a special character",
}

// Struct validates v against its tags. The first violation is returned as a
// *common.ValidationError wrapping common.ErrInvalidInput.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &common.ValidationError{Err: fmt.Errorf("%w: %v", common.ErrInvalidInput, err)}
	}

	fe := verrs[0]
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		switch fe.Tag() {
		case "min":
			msg = "must be at least " + fe.Param() + " characters"
		case "max":
			msg = "must be at most " + fe.Param() + " characters"
		default:
			msg = "is invalid"
		}
	}
	return &common.ValidationError{
		Field: strings.ToLower(fe.Field()),
		Err:   fmt.Errorf("%w: %s", common.ErrInvalidInput, msg),
	}
}
