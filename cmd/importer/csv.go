package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"trade-journal-go/internal/journal"
)

// csvColumns is the expected header of an import file.
var csvColumns = []string{
	"symbol", "direction", "entry_price", "exit_price", "stop_loss",
	"quantity", "entry_time", "exit_time", "commission", "fees", "is_be",
}

// parseTrades reads a trade history CSV and converts each row into a
// TradeInput for the given account. Timestamps are RFC 3339.
func parseTrades(r io.Reader, accountID uint) ([]journal.TradeInput, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) != len(csvColumns) {
		return nil, fmt.Errorf("expected %d columns (%s), got %d",
			len(csvColumns), strings.Join(csvColumns, ","), len(header))
	}

	var trades []journal.TradeInput
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		trade, err := parseTrade(record, accountID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		trades = append(trades, trade)
	}

	return trades, nil
}

func parseTrade(record []string, accountID uint) (journal.TradeInput, error) {
	var input journal.TradeInput
	var err error

	input.AccountID = accountID
	input.Symbol = record[0]
	input.Direction = strings.ToUpper(record[1])

	if input.EntryPrice, err = strconv.ParseFloat(record[2], 64); err != nil {
		return input, fmt.Errorf("invalid entry_price %q", record[2])
	}
	if input.ExitPrice, err = strconv.ParseFloat(record[3], 64); err != nil {
		return input, fmt.Errorf("invalid exit_price %q", record[3])
	}
	if record[4] != "" {
		if input.StopLoss, err = strconv.ParseFloat(record[4], 64); err != nil {
			return input, fmt.Errorf("invalid stop_loss %q", record[4])
		}
	}
	if input.Quantity, err = strconv.Atoi(record[5]); err != nil {
		return input, fmt.Errorf("invalid quantity %q", record[5])
	}
	if input.EntryTime, err = time.Parse(time.RFC3339, record[6]); err != nil {
		return input, fmt.Errorf("invalid entry_time %q", record[6])
	}
	if input.ExitTime, err = time.Parse(time.RFC3339, record[7]); err != nil {
		return input, fmt.Errorf("invalid exit_time %q", record[7])
	}
	if input.Commission, err = strconv.ParseFloat(record[8], 64); err != nil {
		return input, fmt.Errorf("invalid commission %q", record[8])
	}
	if input.Fees, err = strconv.ParseFloat(record[9], 64); err != nil {
		return input, fmt.Errorf("invalid fees %q", record[9])
	}
	if record[10] != "" {
		if input.IsBreakEven, err = strconv.ParseBool(record[10]); err != nil {
			return input, fmt.Errorf("invalid is_be %q", record[10])
		}
	}

	return input, nil
}
