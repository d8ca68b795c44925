package message

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Field error messages reported by Validate.
const (
	TitleErrorMessage   = "Title is required and must be between 3 and 200 characters."
	ContentErrorMessage = "Content must be between 10 and 1000 characters."
)

// Field names used as keys in validation error maps.
const (
	FieldTitle    = "Title"
	FieldContent  = "Content"
	FieldIsActive = "IsActive"
)

var validate = newValidator()

// messageFields carries the constraints on a message's user-supplied fields.
// min and max count characters, not bytes.
type messageFields struct {
	Title   string `validate:"notblank,min=3,max=200"`
	Content string `validate:"notblank,min=10,max=1000"`
}

var fieldMessages = map[string]string{
	FieldTitle:   TitleErrorMessage,
	FieldContent: ContentErrorMessage,
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validate checks title and content and returns the failing fields mapped to
// their error messages. Both fields are checked; an empty map means valid.
func Validate(title, content string) map[string][]string {
	errs := make(map[string][]string)

	err := validate.Struct(messageFields{Title: title, Content: content})
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable if the struct itself is unusable.
		panic(err)
	}

	for _, fe := range fieldErrs {
		field := fe.StructField()
		if msg, ok := fieldMessages[field]; ok && len(errs[field]) == 0 {
			errs[field] = []string{msg}
		}
	}

	return errs
}
