package tabular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsConfig identifies a Google spreadsheet and the service account used to reach it.
type SheetsConfig struct {
	Name            string
	SpreadsheetID   string
	CredentialsJSON []byte
}

// SheetsStore talks to the Google Sheets v4 values API.
type SheetsStore struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
}

// NewSheetsStore builds a store for one spreadsheet. Extra client options are appended after the
// credential options, which lets tests point the client at a fake endpoint.
func NewSheetsStore(ctx context.Context, cfg SheetsConfig, extra ...option.ClientOption) (*SheetsStore, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, Unavailable("open "+cfg.Name, errors.New("spreadsheet id is not configured"))
	}
	opts := make([]option.ClientOption, 0, len(extra)+2)
	if len(cfg.CredentialsJSON) > 0 {
		creds, err := normaliseServiceAccount(cfg.CredentialsJSON)
		if err != nil {
			return nil, Unavailable("open "+cfg.Name, err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds), option.WithScopes(sheets.SpreadsheetsScope))
	}
	opts = append(opts, extra...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, Unavailable("open "+cfg.Name, err)
	}
	return &SheetsStore{values: svc.Spreadsheets.Values, spreadsheetID: cfg.SpreadsheetID}, nil
}

// GetTable implements Store.
func (s *SheetsStore) GetTable(ctx context.Context, table string) ([][]string, error) {
	resp, err := s.values.Get(s.spreadsheetID, quoteSheet(table)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, s.translate("get "+table, table, err)
	}
	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cellString(cell)
		}
		grid[i] = cells
	}
	return grid, nil
}

// AppendRow implements Store. Values are written RAW so they read back exactly as submitted and
// text starting with "=" is never evaluated as a formula.
func (s *SheetsStore) AppendRow(ctx context.Context, table string, values []string) error {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	_, err := s.values.Append(s.spreadsheetID, quoteSheet(table), &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return s.translate("append "+table, table, err)
	}
	return nil
}

// UpdateCell implements Store.
func (s *SheetsStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if err := validateCell(row, col); err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	rng := quoteSheet(table) + "!" + cell
	_, err = s.values.Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return s.translate("update "+rng, table, err)
	}
	return nil
}

func (s *SheetsStore) translate(op, table string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range") {
			return TableNotFound(table)
		}
	}
	return Unavailable(op, err)
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// normaliseServiceAccount repairs private keys whose newlines were pasted as literal "\n".
func normaliseServiceAccount(raw []byte) ([]byte, error) {
	var key map[string]interface{}
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("decode service account json: %w", err)
	}
	if pk, ok := key["private_key"].(string); ok && strings.Contains(pk, `\n`) {
		key["private_key"] = strings.ReplaceAll(pk, `\n`, "\n")
	}
	return json.Marshal(key)
}
