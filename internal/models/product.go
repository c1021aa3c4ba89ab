package models

import "time"

// Product represents a product in the catalog.
//
// Construction never validates; callers run the Validate* functions (or
// Product.Validate) before trusting a value.
type Product struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement:false" validate:"gte=8,lte=80000"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null" validate:"productname"`
	Price     float64   `json:"price" gorm:"not null" validate:"gte=8,lte=8000"`
	Stock     int       `json:"stock" validate:"gte=8,lte=800000"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProduct stores the given values as-is.
func NewProduct(id int, name string, price float64, stock int) *Product {
	return &Product{
		ID:    id,
		Name:  name,
		Price: price,
		Stock: stock,
	}
}

// IncreaseStock adds amount to the stock without any bound check.
func (p *Product) IncreaseStock(amount int) {
	p.Stock += amount
}

// DecreaseStock subtracts amount from the stock without any bound check.
func (p *Product) DecreaseStock(amount int) {
	p.Stock -= amount
}

// CanIncrease classifies increasing this product's current stock by amount.
func (p *Product) CanIncrease(amount int) Outcome {
	return ValidateIncrease(p.Stock, amount)
}

// CanDecrease classifies decreasing this product's current stock by amount.
func (p *Product) CanDecrease(amount int) Outcome {
	return ValidateDecrease(p.Stock, amount)
}

// Validate runs the field validators in the order id, name, price, stock.
func (p *Product) Validate() []FieldResult {
	return []FieldResult{
		{Field: FieldID, Outcome: ValidateID(p.ID)},
		{Field: FieldName, Outcome: ValidateName(p.Name)},
		{Field: FieldPrice, Outcome: ValidatePrice(p.Price)},
		{Field: FieldStock, Outcome: ValidateStock(p.Stock)},
	}
}

// Valid reports whether every field of p is within its bounds.
func (p *Product) Valid() bool {
	for _, r := range p.Validate() {
		if !r.Outcome.Valid() {
			return false
		}
	}
	return true
}
