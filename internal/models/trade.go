package models

import (
	"time"

	"gorm.io/gorm"
)

// Trade directions.
const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"
)

// Trade represents a single closed trade in the journal.
// Pnl is derived from the other fields when the trade is written and is never
// recomputed by the read path; a StopLoss of 0 means no stop was recorded.
type Trade struct {
	gorm.Model
	AccountID   uint      `json:"account_id" gorm:"index;not null"`
	Symbol      string    `json:"symbol" gorm:"not null"` // stored upper-case
	Direction   string    `json:"direction" gorm:"not null"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   float64   `json:"exit_price"`
	StopLoss    float64   `json:"stop_loss"`
	Quantity    int       `json:"quantity"`
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time" gorm:"index"`
	Commission  float64   `json:"commission"`
	Fees        float64   `json:"fees"`
	IsBreakEven bool      `json:"is_be"`
	Pnl         float64   `json:"pnl"`
}
