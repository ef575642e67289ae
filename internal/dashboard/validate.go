package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Rejects strings that are empty after trimming whitespace
	_ = validate.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	validate.RegisterStructValidation(validateTaskOwner, Task{})
}

// validateTaskOwner rejects a project owner whose project ID is blank.
func validateTaskOwner(sl validator.StructLevel) {
	t, ok := sl.Current().Interface().(Task)
	if !ok {
		return
	}
	if pid, isProject := t.Owner.ProjectID(); isProject && strings.TrimSpace(pid) == "" {
		sl.ReportError(pid, "Owner", "Owner", "owner", "")
	}
}

// Validator returns the shared validator with the package's custom rules registered.
func Validator() *validator.Validate {
	return validate
}

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError collects every failed rule for a struct.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ValidateStruct runs the struct's validate tags and returns a *ValidationError on failure.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: formatFieldError(fe),
		})
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "nonblank":
		return fmt.Sprintf("%s cannot be empty or whitespace", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "owner":
		return fmt.Sprintf("%s must name a project or be a routine", fe.Field())
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// Validate checks a task's fields and that a project owner names a project.
func (t Task) Validate() error {
	return ValidateStruct(t)
}

// Validate checks a project's required fields.
func (p Project) Validate() error {
	return ValidateStruct(p)
}
