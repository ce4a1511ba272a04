package validators

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rewear/rewear-backend/pkg/enums"
	pkgerrors "github.com/rewear/rewear-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("runelen", validateRuneLength)
	_ = v.RegisterValidation("item_category", func(fl validator.FieldLevel) bool {
		return enums.ItemCategory(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("item_condition", func(fl validator.FieldLevel) bool {
		return enums.ItemCondition(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("exchange_type", func(fl validator.FieldLevel) bool {
		return enums.ExchangeType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("item_price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && PriceProblem(d) == ""
	})
	_ = v.RegisterValidation("item_points", func(fl validator.FieldLevel) bool {
		n, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 64)
		return err == nil && n >= 0 && n <= MaxPoints
	})
	return v
}

// MaxPoints is the largest value the items.points integer column holds.
const MaxPoints = math.MaxInt32

// maxPrice is the exclusive bound of the items.price numeric(10,2) column.
var maxPrice = decimal.New(1, 8)

// PriceProblem describes why d cannot be stored as an item price, or returns "" when it can.
func PriceProblem(d decimal.Decimal) string {
	switch {
	case d.IsNegative():
		return "must be a non-negative number"
	case d.GreaterThanOrEqual(maxPrice):
		return "must be less than " + maxPrice.String()
	case !d.Equal(d.Truncate(2)):
		return "must have at most 2 decimal places"
	}
	return ""
}

// validateRuneLength checks a trimmed string against a "lo-hi" character range.
func validateRuneLength(fl validator.FieldLevel) bool {
	lo, hi, ok := parseRange(fl.Param())
	if !ok {
		return false
	}
	n := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
	return n >= lo && n <= hi
}

func parseRange(param string) (int, int, bool) {
	var lo, hi int
	if _, err := fmt.Sscanf(param, "%d-%d", &lo, &hi); err != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").WithDetails(map[string]string{"body": err.Error()})
	}
	return ValidateStruct(dest)
}

// ValidateStruct runs the struct tags and returns a validation error with per-field messages.
func ValidateStruct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.Validation("validation failed", details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "runelen":
		if lo, hi, ok := parseRange(fe.Param()); ok {
			return fmt.Sprintf("must be between %d and %d characters", lo, hi)
		}
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "item_category":
		return "must be one of: " + enums.ItemCategoryValues()
	case "item_condition":
		return "must be one of: " + enums.ItemConditionValues()
	case "exchange_type":
		return "must be one of: " + enums.ExchangeTypeValues()
	case "item_price":
		if d, err := decimal.NewFromString(strings.TrimSpace(fmt.Sprint(fe.Value()))); err == nil {
			if msg := PriceProblem(d); msg != "" {
				return msg
			}
		}
		return "must be a non-negative number"
	case "item_points":
		return fmt.Sprintf("must be a whole number between 0 and %d", MaxPoints)
	case "number":
		return "must be a non-negative whole number"
	}
	return "is invalid"
}
