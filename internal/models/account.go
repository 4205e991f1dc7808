package models

import "gorm.io/gorm"

// Account types supported by the journal.
const (
	AccountTypeLive = "Live"
	AccountTypeProp = "Prop"
	AccountTypeDemo = "Demo"
)

// Account represents a trading account that trades are recorded against.
// MaxDrawdown is a percentage of the high-water balance when IsTrailingDrawdown
// is set, otherwise an absolute currency amount.
type Account struct {
	gorm.Model
	Name               string   `json:"name" gorm:"not null"`
	Type               string   `json:"type" gorm:"not null"` // "Live", "Prop" or "Demo"
	InitialBalance     float64  `json:"initial_balance"`
	MaxDailyLoss       *float64 `json:"max_daily_loss,omitempty"`
	MaxDrawdown        *float64 `json:"max_drawdown,omitempty"`
	IsTrailingDrawdown bool     `json:"is_trailing_drawdown"`
}
