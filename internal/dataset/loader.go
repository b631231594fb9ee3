package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	ErrFetch = errors.New("dataset fetch failed")
	ErrParse = errors.New("dataset parse failed")
)

// Table is an immutable loaded dataset. Cells are plain text; no type
// inference happens anywhere downstream.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type Loader struct {
	httpClient *http.Client
}

func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Load fetches a CSV export and parses it into a Table. Column labels are
// trimmed of surrounding whitespace and a UTF-8 BOM on the first header is
// stripped; exports produced for Excel compatibility carry one.
func (l *Loader) Load(ctx context.Context, fetchURL string) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrParse)
	}

	columns := make([]string, len(records[0]))
	for i, label := range records[0] {
		if i == 0 {
			label = strings.TrimPrefix(label, "\uFEFF")
		}
		columns[i] = strings.TrimSpace(label)
	}

	return &Table{
		Columns: columns,
		Rows:    records[1:],
	}, nil
}
