package api

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-itinerary-ai/internal/types"
)

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Messages shown to clients for known field/rule pairs. Anything else falls back to a generic text.
var fieldMessages = map[string]string{
	"location.required":    "Location is required",
	"location.max":         "Location must be less than 200 characters",
	"startDate.ymd":        "Start date must be in YYYY-MM-DD format",
	"endDate.ymd":          "End date must be in YYYY-MM-DD format",
	"interests.max":        "Maximum 10 interests allowed",
	"screenshots.max":      "Maximum 10 screenshots allowed",
	"additionalNotes.max":  "Additional notes must be less than 1000 characters",
	"destination.required": "Destination is required",
	"destination.max":      "Destination must be less than 200 characters",
	"start_date.ymd":       "Start date must be in YYYY-MM-DD format",
	"end_date.ymd":         "End date must be in YYYY-MM-DD format",
}

// FieldViolation is one failed rule on one field.
type FieldViolation struct {
	Field   string
	Message string
}

func (f FieldViolation) String() string {
	return f.Field + ": " + f.Message
}

// ValidationError lists every violated field of a request body.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	return e.Details()
}

func (e *ValidationError) Unwrap() error {
	return types.ErrInvalidInput
}

// Details renders the violations as "field: message, field: message".
func (e *ValidationError) Details() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}

// Validator wraps go-playground/validator with json field names and the "ymd" date rule.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		return ymdPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Errorf("registering ymd validation: %w", err))
	}
	return &Validator{validate: v}
}

// Struct validates s and returns a *ValidationError carrying every violation, or nil.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Violations: make([]FieldViolation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		out.Violations = append(out.Violations, FieldViolation{
			Field:   field,
			Message: violationMessage(field, fe),
		})
	}
	return out
}

// StructAfterDecode validates s once DecodeJSONBody has returned decodeErr. Field-level decode
// violations are kept and the rule violations of the remaining fields are added, ordered by
// field declaration in s. Any other decode error is returned unchanged.
func (v *Validator) StructAfterDecode(s interface{}, decodeErr error) error {
	var decoded *ValidationError
	if decodeErr != nil && !errors.As(decodeErr, &decoded) {
		return decodeErr
	}
	err := v.Struct(s)
	if decoded == nil {
		return err
	}
	var rules *ValidationError
	if err != nil && !errors.As(err, &rules) {
		return err
	}

	merged := &ValidationError{Violations: slices.Clone(decoded.Violations)}
	reported := make(map[string]bool, len(decoded.Violations))
	for _, fv := range decoded.Violations {
		reported[fv.Field] = true
	}
	if rules != nil {
		for _, fv := range rules.Violations {
			if !reported[fv.Field] {
				merged.Violations = append(merged.Violations, fv)
			}
		}
	}

	position := fieldPositions(s)
	slices.SortStableFunc(merged.Violations, func(a, b FieldViolation) int {
		return position(a.Field) - position(b.Field)
	})
	return merged
}

// fieldPositions maps a json field path to the declaration index of its top-level field in s.
func fieldPositions(s interface{}) func(field string) int {
	t := reflect.TypeOf(s)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	index := map[string]int{}
	if t != nil && t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
			if name != "" && name != "-" {
				index[name] = i
			}
		}
	}
	return func(field string) int {
		top := field
		if cut := strings.IndexAny(field, ".["); cut >= 0 {
			top = field[:cut]
		}
		if i, ok := index[top]; ok {
			return i
		}
		return len(index)
	}
}

// fieldPath drops the struct name from "ItineraryRequest.location".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func violationMessage(field string, fe validator.FieldError) string {
	if msg, ok := fieldMessages[field+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "Required"
	case "ymd":
		return "Must be in YYYY-MM-DD format"
	case "max":
		if k := fe.Kind(); k == reflect.Slice || k == reflect.Array {
			return fmt.Sprintf("Maximum %s entries allowed", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("Failed %q rule", fe.Tag())
	}
}
