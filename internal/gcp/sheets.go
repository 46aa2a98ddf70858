package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsLedger appends summary rows to a Google Sheets spreadsheet.
type SheetsLedger struct {
	svc           *sheets.Service
	spreadsheetID string
	appendRange   string
}

// NewSheetsLedger builds a ledger over the given spreadsheet. credsJSON is a
// service-account key; empty means application default credentials.
func NewSheetsLedger(ctx context.Context, spreadsheetID, appendRange, credsJSON string) (*SheetsLedger, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID must be provided to create a sheets ledger")
	}
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credsJSON)))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}
	return &SheetsLedger{svc: svc, spreadsheetID: spreadsheetID, appendRange: appendRange}, nil
}

// AppendRow appends one row of cells after the last row of the configured
// range, letting the spreadsheet interpret cell values.
func (l *SheetsLedger) AppendRow(ctx context.Context, row []string) error {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{cells}}
	_, err := l.svc.Spreadsheets.Values.Append(l.spreadsheetID, l.appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append ledger row: %w", err)
	}
	return nil
}
