package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field keys in errors follow the json (or form, query) tag so the client can show
// them inline next to the matching input.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("notice_type", func(fl validator.FieldLevel) bool {
		return domain.IsNoticeType(fl.Field().String())
	})
	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseDepartment(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("target_kind", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseTargetKind(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("notice_status", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseNoticeStatus(fl.Field().String())
		return ok
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Field failures come back
// as *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			verr := &domain.ValidationError{}
			for _, fe := range ve {
				verr.Add(fieldKey(fe), fieldError(fe))
			}
			return verr
		}
		return err
	}
	return nil
}

// fieldKey drops slice indexes so every element of noticeType reports under
// the same key.
func fieldKey(fe validator.FieldError) string {
	field := fe.Field()
	if i := strings.IndexByte(field, '['); i > 0 {
		field = field[:i]
	}
	return field
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fieldKey(fe)
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("select at least %s %s", fe.Param(), field)
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	case "numeric":
		return field + " must contain digits only"
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "datetime":
		return field + " must be a YYYY-MM-DD date"
	case "notice_type":
		return "unknown notice type: " + fmt.Sprint(fe.Value())
	case "department":
		return "unknown department: " + fmt.Sprint(fe.Value())
	case "target_kind":
		return field + " must be individual, department or all"
	case "notice_status":
		return field + " must be draft, published or unpublished"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
