// Package services provides external service integrations and technical concerns like sheet fetching and notifications
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wildlifemlxy/shb-survey-sub004/config"
	"github.com/xuri/excelize/v2"
)

// SheetFetcher retrieves a remote spreadsheet and decodes it into a cell grid.
// Absent cells read as empty string through the grid helpers; no retry happens
// at this layer.
type SheetFetcher interface {
	Fetch(ctx context.Context) ([][]string, error)
}

// HTTPSheetFetcher downloads the configured spreadsheet URL over HTTP(S)
type HTTPSheetFetcher struct {
	cfg    config.SheetsConfig
	client *http.Client
}

func NewHTTPSheetFetcher(cfg config.SheetsConfig) *HTTPSheetFetcher {
	return &HTTPSheetFetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
	}
}

// Fetch downloads the spreadsheet document and returns the rows of the
// selected sheet. Sheet selection prefers a sheet whose name contains the
// configured keyword, then the configured default name, then the first sheet.
func (f *HTTPSheetFetcher) Fetch(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.SourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download spreadsheet: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("spreadsheet download http status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet body: %w", err)
	}

	return DecodeWorkbook(body, f.cfg.SheetKeyword, f.cfg.DefaultSheetName)
}

// DecodeWorkbook parses xlsx bytes and returns the rows of the selected sheet
func DecodeWorkbook(data []byte, keyword, defaultName string) ([][]string, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse spreadsheet: %w", err)
	}
	defer func() { _ = xl.Close() }()

	sheet := selectSheet(xl.GetSheetList(), keyword, defaultName)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet contains no sheets")
	}

	rows, err := xl.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func selectSheet(sheets []string, keyword, defaultName string) string {
	if len(sheets) == 0 {
		return ""
	}
	if keyword != "" {
		lower := strings.ToLower(keyword)
		for _, s := range sheets {
			if strings.Contains(strings.ToLower(s), lower) {
				return s
			}
		}
	}
	for _, s := range sheets {
		if s == defaultName {
			return s
		}
	}
	return sheets[0]
}

// CellAt reads grid cell (row, col), returning "" for any absent cell so the
// extractor never has to bounds-check.
func CellAt(rows [][]string, row, col int) string {
	if row < 0 || row >= len(rows) {
		return ""
	}
	if col < 0 || col >= len(rows[row]) {
		return ""
	}
	return rows[row][col]
}
