package models

import "encoding/json"

// Outcome is the result of a product validator. Its String method returns the
// canonical human-readable message.
type Outcome int

const (
	OutcomeUnknown Outcome = iota

	IDValid
	IDInvalid

	NameValid
	NameEmpty
	NameInvalidCharacters

	PriceValid
	PriceInvalid

	StockValid
	StockInvalid

	IncreaseValid
	IncreaseNotPositive
	IncreaseExceedsMaximum

	DecreaseValid
	DecreaseNotPositive
	DecreaseBelowMinimum
)

type outcomeText struct {
	code    string
	message string
}

var outcomes = map[Outcome]outcomeText{
	IDValid:   {"ID_VALID", "The Product Id is valid."},
	IDInvalid: {"ID_INVALID", "The Product Id is not valid."},

	NameValid:             {"NAME_VALID", "The Product Name is valid."},
	NameEmpty:             {"NAME_EMPTY", "The Product Name cannot be empty."},
	NameInvalidCharacters: {"NAME_INVALID_CHARACTERS", "The Product Name is not valid. Product name can only contain letters, digits, and spaces."},

	PriceValid:   {"PRICE_VALID", "The Item Price is valid."},
	PriceInvalid: {"PRICE_INVALID", "The Item Price is not valid."},

	StockValid:   {"STOCK_VALID", "The Stock Amount is valid."},
	StockInvalid: {"STOCK_INVALID", "The Stock Amount is not valid."},

	IncreaseValid:          {"INCREASE_VALID", "Stock increase is valid."},
	IncreaseNotPositive:    {"INCREASE_NOT_POSITIVE", "Stock increase amount must be greater than zero."},
	IncreaseExceedsMaximum: {"INCREASE_EXCEEDS_MAXIMUM", "Stock amount exceeds maximum stock limit."},

	DecreaseValid:        {"DECREASE_VALID", "Stock decrease is valid."},
	DecreaseNotPositive:  {"DECREASE_NOT_POSITIVE", "Stock decrease amount must be greater than zero."},
	DecreaseBelowMinimum: {"DECREASE_BELOW_MINIMUM", "Stock amount falls below minimum stock limit."},
}

// String returns the canonical message for the outcome.
func (o Outcome) String() string {
	if t, ok := outcomes[o]; ok {
		return t.message
	}
	return "Unknown validation outcome."
}

// Code returns a stable machine-readable code, e.g. "PRICE_INVALID".
func (o Outcome) Code() string {
	if t, ok := outcomes[o]; ok {
		return t.code
	}
	return "UNKNOWN"
}

// Valid reports whether the outcome accepts the validated input.
func (o Outcome) Valid() bool {
	switch o {
	case IDValid, NameValid, PriceValid, StockValid, IncreaseValid, DecreaseValid:
		return true
	default:
		return false
	}
}

// Field names used in FieldResult.
const (
	FieldID     = "id"
	FieldName   = "name"
	FieldPrice  = "price"
	FieldStock  = "stock"
	FieldAmount = "amount"
)

// FieldResult pairs a validated field with its outcome.
type FieldResult struct {
	Field   string
	Outcome Outcome
}

// MarshalJSON renders the outcome as code, message and validity.
func (r FieldResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Field   string `json:"field"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Valid   bool   `json:"valid"`
	}{
		Field:   r.Field,
		Code:    r.Outcome.Code(),
		Message: r.Outcome.String(),
		Valid:   r.Outcome.Valid(),
	})
}
