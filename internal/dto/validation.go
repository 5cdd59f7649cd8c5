package dto

import (
	"fmt"
	"reflect"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the format of date-only query and body fields.
const DateLayout = "2006-01-02"

// RegisterValidators installs the ledger's binding rules on gin's validator.
// It must run before routes start serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	// Struct-typed fields are skipped by tag validation unless they are mapped to a scalar first.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	if err := v.RegisterValidation("decimal_gt0", decimalGreaterThanZero); err != nil {
		return err
	}
	return v.RegisterValidation("money_scale", moneyScale)
}

func decimalFromField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch val := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return val, true
	case string:
		d, err := decimal.NewFromString(val)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	d, ok := decimalFromField(fl)
	return ok && d.IsPositive()
}

// moneyScale rejects amounts with more than two fractional digits.
func moneyScale(fl validator.FieldLevel) bool {
	d, ok := decimalFromField(fl)
	return ok && d.Equal(d.Round(2))
}

// ParseDate parses an optional date-only value. An empty string yields the zero time.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
