package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/jmehdipour/superstore-dashboard/internal/model"
)

var nanValues = []string{"", "NA", "NaN", "<nil>"}

// joinDateLayouts are tried in order; month-first wins for ambiguous dates.
var joinDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01-02-2006",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04",
}

// CustomerTable is the loaded customer CSV: the gota frame for column level
// statistics, the raw records for display, and typed rows for aggregations.
type CustomerTable struct {
	df      dataframe.DataFrame
	header  []string
	records [][]string
	Rows    []model.Customer
}

// OpenCustomers loads the customer CSV at path.
func OpenCustomers(path string) (*CustomerTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open customers csv: %w", err)
	}
	defer f.Close()

	t, err := LoadCustomers(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadCustomers parses a customer CSV. Spend and channel columns are read as
// floats, Dt_Customer as text; every other column keeps the type gota detects.
func LoadCustomers(r io.Reader) (*CustomerTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no header: %w", ErrEmptyDataset)
	}

	header := make([]string, len(all[0]))
	for i, h := range all[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	all[0] = header

	for i := 1; i < len(all); i++ {
		if len(all[i]) != len(header) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", i, len(header), len(all[i]))
		}
	}

	if err := requireColumns(header, requiredCustomerColumns()); err != nil {
		return nil, err
	}
	if len(all) < 2 {
		return nil, fmt.Errorf("no data rows: %w", ErrEmptyDataset)
	}

	types := map[string]series.Type{model.ColumnJoinDate: series.String}
	for _, p := range model.Products {
		types[p.String()] = series.Float
	}
	for _, ch := range model.Channels {
		types[ch] = series.Float
	}

	df := dataframe.LoadRecords(all,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(types),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("load frame: %w", df.Err)
	}

	t := &CustomerTable{df: df, header: header, records: all[1:]}
	if err := t.buildRows(); err != nil {
		return nil, err
	}
	return t, nil
}

func requiredCustomerColumns() []string {
	cols := []string{model.ColumnJoinDate}
	for _, p := range model.Products {
		cols = append(cols, p.String())
	}
	return append(cols, model.Channels...)
}

func requireColumns(header, required []string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	for _, c := range required {
		if _, ok := have[c]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}
	return nil
}

func (t *CustomerTable) buildRows() error {
	n := t.df.Nrow()
	rows := make([]model.Customer, n)

	spend := make(map[model.Product][]float64, len(model.Products))
	for _, p := range model.Products {
		spend[p] = t.df.Col(p.String()).Float()
	}
	channels := make(map[string][]float64, len(model.Channels))
	for _, ch := range model.Channels {
		channels[ch] = t.df.Col(ch).Float()
	}

	var ids []string
	if t.hasColumn(model.ColumnID) {
		ids = t.df.Col(model.ColumnID).Records()
	}
	dates := t.df.Col(model.ColumnJoinDate).Records()

	for i := 0; i < n; i++ {
		c := model.Customer{
			Spend:    make(map[model.Product]*float64, len(model.Products)),
			Channels: make(map[string]*float64, len(model.Channels)),
		}
		if ids != nil {
			c.ID = ids[i]
		}
		for p, col := range spend {
			c.Spend[p] = present(col[i])
		}
		for ch, col := range channels {
			c.Channels[ch] = present(col[i])
		}

		joined, err := parseJoinDate(dates[i])
		if err != nil {
			return fmt.Errorf("row %d: %s: %w", i+1, model.ColumnJoinDate, err)
		}
		c.JoinedAt = joined
		rows[i] = c
	}

	t.Rows = rows
	return nil
}

func (t *CustomerTable) hasColumn(name string) bool {
	for _, h := range t.header {
		if h == name {
			return true
		}
	}
	return false
}

func present(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func parseJoinDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, nan := range nanValues {
		if s == nan {
			return time.Time{}, nil
		}
	}
	for _, layout := range joinDateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// Columns returns the header in file order.
func (t *CustomerTable) Columns() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Len is the number of data rows.
func (t *CustomerTable) Len() int { return len(t.records) }

// Head returns up to n raw rows as they appear in the file.
func (t *CustomerTable) Head(n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n > len(t.records) {
		n = len(t.records)
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.records[i]))
		copy(row, t.records[i])
		out[i] = row
	}
	return out
}
