package journal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"trade-journal-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Validation errors surfaced by the write path.
var (
	ErrInvalidAccountType = errors.New("account type must be Live, Prop or Demo")
	ErrInvalidDrawdown    = errors.New("trailing drawdown must be a percentage between 0 and 100")
	ErrInvalidDirection   = errors.New("direction must be LONG or SHORT")
	ErrInvalidQuantity    = errors.New("quantity must be a positive number of contracts")
	ErrInvalidCosts       = errors.New("commission and fees must not be negative")
	ErrInvalidStopLoss    = errors.New("stop loss must be below entry for LONG and above entry for SHORT")
)

// Store owns all reads and writes of accounts and trades. P&L is derived once
// here, on every write; the aggregation path trusts the stored value.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// TradeInput carries the user-supplied fields of a trade; everything else on
// the record (symbol normalization, pnl) is derived here.
type TradeInput struct {
	AccountID   uint      `json:"account_id"`
	Symbol      string    `json:"symbol"`
	Direction   string    `json:"direction"`
	EntryPrice  float64   `json:"entry_price"`
	ExitPrice   float64   `json:"exit_price"`
	StopLoss    float64   `json:"stop_loss"`
	Quantity    int       `json:"quantity"`
	EntryTime   time.Time `json:"entry_time"`
	ExitTime    time.Time `json:"exit_time"`
	Commission  float64   `json:"commission"`
	Fees        float64   `json:"fees"`
	IsBreakEven bool      `json:"is_be"`
}

// CreateAccount validates and persists a new account.
func (s *Store) CreateAccount(account *models.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}
	if err := s.db.Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	s.logger.Info("Account created", zap.Uint("account_id", account.ID), zap.String("name", account.Name))
	return nil
}

// ListAccounts returns all accounts, most recently created first.
func (s *Store) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("created_at desc").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount changes an account's name and risk limits. Type and initial
// balance are fixed at creation.
func (s *Store) UpdateAccount(id uint, name string, maxDailyLoss, maxDrawdown *float64, isTrailingDrawdown bool) (*models.Account, error) {
	var account models.Account
	if err := s.db.First(&account, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find account %d: %w", id, err)
	}

	account.Name = name
	account.MaxDailyLoss = maxDailyLoss
	account.MaxDrawdown = maxDrawdown
	account.IsTrailingDrawdown = isTrailingDrawdown
	if err := validateAccount(&account); err != nil {
		return nil, err
	}

	if err := s.db.Save(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to update account %d: %w", id, err)
	}
	return &account, nil
}

// DeleteAccount removes an account and every trade recorded against it.
func (s *Store) DeleteAccount(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&models.Trade{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete account %d: %w", id, err)
	}
	s.logger.Info("Account deleted with its trades", zap.Uint("account_id", id))
	return nil
}

// LogTrade validates the input, derives its P&L and persists the trade.
func (s *Store) LogTrade(input *TradeInput) (*models.Trade, error) {
	trade, err := buildTrade(input)
	if err != nil {
		return nil, err
	}
	if err := s.db.First(&models.Account{}, input.AccountID).Error; err != nil {
		return nil, fmt.Errorf("failed to find account %d: %w", input.AccountID, err)
	}
	if err := s.db.Create(trade).Error; err != nil {
		return nil, fmt.Errorf("failed to log trade: %w", err)
	}
	s.logger.Info("Trade logged",
		zap.Uint("trade_id", trade.ID),
		zap.String("symbol", trade.Symbol),
		zap.Float64("pnl", trade.Pnl))
	return trade, nil
}

// UpdateTrade replaces every user-supplied field of an existing trade and
// re-derives its P&L. Editing with unchanged inputs leaves pnl identical.
func (s *Store) UpdateTrade(id uint, input *TradeInput) (*models.Trade, error) {
	replacement, err := buildTrade(input)
	if err != nil {
		return nil, err
	}

	var trade models.Trade
	if err := s.db.First(&trade, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find trade %d: %w", id, err)
	}

	replacement.Model = trade.Model
	replacement.AccountID = trade.AccountID
	if err := s.db.Save(replacement).Error; err != nil {
		return nil, fmt.Errorf("failed to update trade %d: %w", id, err)
	}
	return replacement, nil
}

// DeleteTrade removes a single trade.
func (s *Store) DeleteTrade(id uint) error {
	if err := s.db.Delete(&models.Trade{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete trade %d: %w", id, err)
	}
	return nil
}

// RecentTrades returns the newest trades across the given account (or all
// accounts when accountID is 0), capped at limit.
func (s *Store) RecentTrades(accountID uint, limit int) ([]models.Trade, error) {
	query := s.db.Order("exit_time desc")
	if accountID != 0 {
		query = query.Where("account_id = ?", accountID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var trades []models.Trade
	if err := query.Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to get trades: %w", err)
	}
	return trades, nil
}

// TradesForDashboard returns the full trade set for aggregation, exit time
// descending, scoped to one account when accountID is non-zero.
func (s *Store) TradesForDashboard(accountID uint) ([]models.Trade, error) {
	return s.RecentTrades(accountID, 0)
}

func validateAccount(account *models.Account) error {
	switch account.Type {
	case models.AccountTypeLive, models.AccountTypeProp, models.AccountTypeDemo:
	default:
		return ErrInvalidAccountType
	}
	if account.IsTrailingDrawdown && account.MaxDrawdown != nil {
		if *account.MaxDrawdown < 0 || *account.MaxDrawdown > 100 {
			return ErrInvalidDrawdown
		}
	}
	return nil
}

// buildTrade validates a TradeInput and materializes the trade record,
// normalizing the symbol and deriving the stored pnl.
func buildTrade(input *TradeInput) (*models.Trade, error) {
	if input.Direction != models.DirectionLong && input.Direction != models.DirectionShort {
		return nil, ErrInvalidDirection
	}
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if input.Commission < 0 || input.Fees < 0 {
		return nil, ErrInvalidCosts
	}
	// A zero stop means no stop was recorded; a recorded stop must sit on the
	// losing side of the entry.
	if input.StopLoss != 0 {
		if input.Direction == models.DirectionLong && input.StopLoss >= input.EntryPrice {
			return nil, ErrInvalidStopLoss
		}
		if input.Direction == models.DirectionShort && input.StopLoss <= input.EntryPrice {
			return nil, ErrInvalidStopLoss
		}
	}

	symbol := strings.ToUpper(input.Symbol)
	return &models.Trade{
		AccountID:   input.AccountID,
		Symbol:      symbol,
		Direction:   input.Direction,
		EntryPrice:  input.EntryPrice,
		ExitPrice:   input.ExitPrice,
		StopLoss:    input.StopLoss,
		Quantity:    input.Quantity,
		EntryTime:   input.EntryTime,
		ExitTime:    input.ExitTime,
		Commission:  input.Commission,
		Fees:        input.Fees,
		IsBreakEven: input.IsBreakEven,
		Pnl:         NetPnl(symbol, input.Direction, input.EntryPrice, input.ExitPrice, input.Quantity, input.Commission, input.Fees),
	}, nil
}
