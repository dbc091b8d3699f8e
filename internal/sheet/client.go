// Package sheet reads the printer event log from a Google Sheet tab.
// The tab is fetched through the CSV export endpoint, which only needs the
// spreadsheet to be link-readable; no API credentials are involved.
package sheet

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"boothmon/internal/history"
	"boothmon/internal/logging"
)

// DefaultBaseURL is the spreadsheets host serving the CSV export.
const DefaultBaseURL = "https://docs.google.com/spreadsheets/d"

// Source delivers one full snapshot of the event log per poll. The
// monitor treats any error as "empty table this cycle".
type Source interface {
	Fetch() (history.Table, error)
}

// Client fetches sheet tabs over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a sheet client with a 30s request timeout.
func NewClient(logger *logging.Logger) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// SetBaseURL overrides the spreadsheets host, primarily for tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// FetchTab downloads one sheet tab and parses it into a Table. The first
// CSV record is the header; ragged rows are tolerated and padded by the
// normalizer's cell access.
func (c *Client) FetchTab(sheetID, tabName string) (history.Table, error) {
	exportURL := fmt.Sprintf("%s/%s/gviz/tq?tqx=out:csv&sheet=%s",
		c.baseURL, url.PathEscape(sheetID), url.QueryEscape(tabName))

	resp, err := c.httpClient.Get(exportURL)
	if err != nil {
		return history.Table{}, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return history.Table{}, fmt.Errorf("sheet export returned status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return history.Table{}, fmt.Errorf("failed to parse sheet CSV: %w", err)
	}

	if len(records) == 0 {
		return history.Table{}, nil
	}

	table := history.Table{Columns: records[0], Rows: records[1:]}

	c.logger.Info("sheet.loaded", "Sheet tab loaded", map[string]interface{}{
		"sheet": sheetID,
		"tab":   tabName,
		"rows":  len(table.Rows),
	})

	return table, nil
}

// TabSource binds a client to one spreadsheet tab, satisfying Source.
type TabSource struct {
	client  *Client
	sheetID string
	tabName string
}

// NewTabSource creates a Source for a fixed sheet and tab.
func NewTabSource(client *Client, sheetID, tabName string) *TabSource {
	return &TabSource{client: client, sheetID: sheetID, tabName: tabName}
}

// Fetch implements Source.
func (s *TabSource) Fetch() (history.Table, error) {
	if s.sheetID == "" {
		return history.Table{}, fmt.Errorf("no sheet id configured")
	}
	return s.client.FetchTab(s.sheetID, s.tabName)
}
