package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	xutil "HurstLab/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their JSON name so clients see what they sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, ok := xutil.ParseTime(fl.Field().String())
		return ok
	})
	return v
}

// Validate checks v outside of a request, e.g. CLI flags.
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// ValidationErrors flattens err into client facing details.
func ValidationErrors(err error) []ValidationError {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		out := make([]ValidationError, len(ves))
		for i, fe := range ves {
			out[i] = fieldError(fe)
		}
		return out
	}

	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}
	return []ValidationError{{Code: "ERR_UNKNOWN", Message: msg}}
}

// ReadAndValidateRequest binds the body into req, applies `default` tags
// and validates. A nil result means req is ready to use.
func ReadAndValidateRequest(c echo.Context, req interface{}) []ValidationError {
	if err := c.Bind(req); err != nil {
		return ValidationErrors(err)
	}
	if err := defaults.Set(req); err != nil {
		return ValidationErrors(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return ValidationErrors(err)
	}
	return nil
}

var tagMessages = map[string]string{
	"required": "%s is required",
	"isodate":  "%s must be an ISO-8601 date",
	"oneof":    "%s must be one of: %s",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"gtefield": "%s must not be before %s",
}

func fieldError(fe validator.FieldError) ValidationError {
	tag, param := fe.Tag(), fe.Param()
	ve := ValidationError{
		Code:  "ERR_" + strings.ToUpper(tag),
		Field: fe.Field(),
	}

	switch tag {
	case "oneof":
		opts := strings.Fields(param)
		param = strings.Join(opts, ", ")
		ve.Params = map[string]interface{}{"options": opts}
	case "min", "max":
		if fe.Kind() == reflect.String {
			param += " characters"
		}
		ve.Params = map[string]interface{}{tag: fe.Param()}
	case "gtefield":
		ve.Params = map[string]interface{}{"field": param}
	}

	if format, ok := tagMessages[tag]; ok {
		if strings.Count(format, "%s") == 2 {
			ve.Message = fmt.Sprintf(format, ve.Field, param)
		} else {
			ve.Message = fmt.Sprintf(format, ve.Field)
		}
	} else {
		ve.Message = fmt.Sprintf("%s failed %q validation", ve.Field, tag)
	}
	return ve
}
