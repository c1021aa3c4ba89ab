package models

import (
	"time"

	"github.com/google/uuid"
)

// StockEventKind names the direction of a stock adjustment.
type StockEventKind string

const (
	StockIncreased StockEventKind = "increase"
	StockDecreased StockEventKind = "decrease"
)

// StockEvent is published after a stock adjustment has been saved.
type StockEvent struct {
	ID         string         `json:"id"`
	ProductID  int            `json:"product_id"`
	Name       string         `json:"name"`
	Kind       StockEventKind `json:"kind"`
	Amount     int            `json:"amount"`
	Stock      int            `json:"stock"` // Stock after the adjustment
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewStockEvent describes an adjustment already applied to p.
func NewStockEvent(p *Product, kind StockEventKind, amount int) StockEvent {
	return StockEvent{
		ID:         uuid.New().String(),
		ProductID:  p.ID,
		Name:       p.Name,
		Kind:       kind,
		Amount:     amount,
		Stock:      p.Stock,
		OccurredAt: time.Now().UTC(),
	}
}
