package handler

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/shipsphere/logistics-api/internal/core/domain"
)

const msgInvalidBody = "Invalid request body"

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// Failures come back as a *domain.ValidationError listing every bad field,
// worded by the field's `msg` tag.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(i, fe),
		})
	}
	return out
}

// maxBytes limits the encoded length of a string, e.g. maxbytes=72 for bcrypt
// input.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// fieldMessage prefers a rule-specific `msg_<rule>` tag, then the field's
// `msg` tag, and falls back to a generic description of the failed rule.
func fieldMessage(i any, fe validator.FieldError) string {
	if sf, ok := structField(i, fe.StructField()); ok {
		if msg := sf.Tag.Get("msg_" + fe.Tag()); msg != "" {
			return msg
		}
		if msg := sf.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	default:
		return fe.Field() + " is invalid"
	}
}

// bindError turns a failed c.Bind into a validation error. A JSON type
// mismatch on a known field is reported against that field; anything else
// is reported against the body as a whole.
func bindError(i any, err error) *domain.ValidationError {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		if sf, ok := structFieldByJSON(i, te.Field); ok {
			if msg := sf.Tag.Get("msg"); msg != "" {
				return domain.NewValidationError(te.Field, msg)
			}
		}
		return domain.NewValidationError(te.Field, te.Field+" has the wrong type")
	}
	return domain.NewValidationError("body", msgInvalidBody)
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func structType(i any) reflect.Type {
	t := reflect.TypeOf(i)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func structField(i any, name string) (reflect.StructField, bool) {
	t := structType(i)
	if t == nil {
		return reflect.StructField{}, false
	}
	return t.FieldByName(name)
}

func structFieldByJSON(i any, name string) (reflect.StructField, bool) {
	t := structType(i)
	if t == nil {
		return reflect.StructField{}, false
	}
	for idx := 0; idx < t.NumField(); idx++ {
		if f := t.Field(idx); jsonName(f) == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}
