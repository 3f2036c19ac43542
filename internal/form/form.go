// Package form validates user-entered category, expense and profile data
// before it reaches the repository.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/Veraticus/xpense/internal/common"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		// Registration only fails on an empty tag or nil func.
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// check validates v and folds every failing field into one ValidationError.
func check(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("form validation: %w", err)
	}

	fields := make([]string, len(verrs))
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fe.Field()
		msgs[i] = fe.Field() + " " + describe(fe)
	}

	return &common.ValidationError{
		Field: strings.Join(fields, ","),
		Msg:   strings.Join(msgs, "; "),
		Err:   verrs,
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "hexcolor":
		return "must be a hex color such as #6366f1"
	case "gte":
		return "must be at least " + fe.Param()
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "uppercase":
		return "must be uppercase"
	case "datetime":
		return "must be a date in YYYY-MM-DD form"
	case "email":
		return "must be an email address"
	default:
		return "failed " + fe.Tag()
	}
}
