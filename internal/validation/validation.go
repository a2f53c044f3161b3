package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/judgecore/internal/model"
)

// identPattern matches identifiers that are safe to embed in topic names and storage keys
var identPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// validate is shared; validator caches struct metadata and is safe for concurrent use
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates a struct's `validate` tags, wrapping failures in model.ErrValidationFailed
func Struct(v any) error {
	return wrap(validate.Struct(v))
}

// ID validates a single entity identifier
func ID(id string) error {
	return wrap(validate.Var(id, "required,max=64,ident"))
}

func wrap(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", model.ErrValidationFailed, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Field() == "" {
			msgs = append(msgs, fmt.Sprintf("value %q failed %q", fe.Value(), fe.Tag()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("field %s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", model.ErrValidationFailed, strings.Join(msgs, "; "))
}
