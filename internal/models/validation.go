package models

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Bounds for product fields. All intervals are closed.
const (
	MinID    = 8
	MaxID    = 80000
	MinPrice = 8.0
	MaxPrice = 8000.0
	MinStock = 8
	MaxStock = 800000
)

var (
	idRule    = fmt.Sprintf("gte=%d,lte=%d", MinID, MaxID)
	priceRule = fmt.Sprintf("gte=%g,lte=%g", MinPrice, MaxPrice)
	stockRule = fmt.Sprintf("gte=%d,lte=%d", MinStock, MaxStock)
	nameRule  = "productname"
)

var rules = newRules()

func newRules() *validator.Validate {
	v := validator.New()
	// ValidateName classifies blank names before this rule runs, so a
	// failure there always means a bad character.
	if err := v.RegisterValidation(nameRule, func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return strings.TrimSpace(name) != "" && onlyLettersDigitsSpaces(name)
	}); err != nil {
		panic(err)
	}
	return v
}

func onlyLettersDigitsSpaces(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// ValidateID reports whether id lies in [MinID, MaxID].
func ValidateID(id int) Outcome {
	if rules.Var(id, idRule) != nil {
		return IDInvalid
	}
	return IDValid
}

// ValidateName rejects empty or whitespace-only names before checking that
// every rune is a letter, digit or whitespace.
func ValidateName(name string) Outcome {
	if strings.TrimSpace(name) == "" {
		return NameEmpty
	}
	if rules.Var(name, nameRule) != nil {
		return NameInvalidCharacters
	}
	return NameValid
}

// ValidatePrice reports whether price lies in [MinPrice, MaxPrice]. NaN is
// never valid.
func ValidatePrice(price float64) Outcome {
	if rules.Var(price, priceRule) != nil {
		return PriceInvalid
	}
	return PriceValid
}

// ValidateStock reports whether stock lies in [MinStock, MaxStock].
func ValidateStock(stock int) Outcome {
	if rules.Var(stock, stockRule) != nil {
		return StockInvalid
	}
	return StockValid
}

// ValidateIncrease classifies adding amount to currentStock. A non-positive
// amount wins over the upper-limit check.
func ValidateIncrease(currentStock, amount int) Outcome {
	if amount <= 0 {
		return IncreaseNotPositive
	}
	// amount > 0, so MaxStock-amount cannot wrap.
	if currentStock > MaxStock-amount {
		return IncreaseExceedsMaximum
	}
	return IncreaseValid
}

// ValidateDecrease classifies subtracting amount from currentStock. A
// non-positive amount wins over the lower-limit check.
func ValidateDecrease(currentStock, amount int) Outcome {
	if amount <= 0 {
		return DecreaseNotPositive
	}
	if amount > math.MaxInt-MinStock || currentStock < MinStock+amount {
		return DecreaseBelowMinimum
	}
	return DecreaseValid
}
