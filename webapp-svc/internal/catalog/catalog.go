package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"beerchek/webapp-svc/internal/domain"
)

var ErrEmptySource = errors.New("catalog source is empty")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Catalog is read-only after Load and safe for concurrent use.
type Catalog struct {
	records []domain.BeerRecord
	names   []string
}

func New(records []domain.BeerRecord) *Catalog {
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = strings.ToLower(rec.Name)
	}
	return &Catalog{records: records, names: names}
}

func Empty() *Catalog {
	return New(nil)
}

// Load reads a JSON array of beer records from a file path or an http(s) URL.
func Load(ctx context.Context, source string, client HTTPClient) (*Catalog, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrEmptySource
	}

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source, client)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog at '%s': %w", source, err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var records []domain.BeerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(records), nil
}

func fetch(ctx context.Context, url string, client HTTPClient) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Search returns the first record, in catalog order, whose lowercased name
// contains the lowercased query. Blank queries never match.
func (c *Catalog) Search(query string) (domain.BeerRecord, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.BeerRecord{}, false
	}
	for i, name := range c.names {
		if strings.Contains(name, q) {
			return c.records[i], true
		}
	}
	return domain.BeerRecord{}, false
}

// Lookup finds a record by its exact name.
func (c *Catalog) Lookup(name string) (domain.BeerRecord, bool) {
	for _, rec := range c.records {
		if rec.Name == name {
			return rec, true
		}
	}
	return domain.BeerRecord{}, false
}

func (c *Catalog) Len() int {
	return len(c.records)
}

func (c *Catalog) Records() []domain.BeerRecord {
	out := make([]domain.BeerRecord, len(c.records))
	copy(out, c.records)
	return out
}
