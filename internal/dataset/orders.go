package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sales order sheet columns.
const (
	ColSalesOrderID = "SalesOrderID"
	ColProdID       = "ProdID"
	ColCustID       = "CustID"
	ColSubTotal     = "SubTotal"
	ColTaxAmt       = "TaxAmt"
	ColFreight      = "Freight"
	ColOrderDate    = "OrderDate"
)

var requiredOrderColumns = []string{
	ColSalesOrderID, ColProdID, ColCustID, ColSubTotal, ColTaxAmt, ColFreight,
}

// OrderSource yields every sales order line.
type OrderSource interface {
	Orders(ctx context.Context) ([]model.SalesOrder, error)
}

// XLSXOrders reads order lines from a workbook on disk on every call.
type XLSXOrders struct {
	Path  string
	Sheet string // first sheet when empty
}

var _ OrderSource = XLSXOrders{}

func (x XLSXOrders) Orders(_ context.Context) ([]model.SalesOrder, error) {
	f, err := os.Open(x.Path)
	if err != nil {
		return nil, fmt.Errorf("open orders workbook: %w", err)
	}
	defer f.Close()

	orders, err := LoadOrders(f, x.Sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", x.Path, err)
	}
	return orders, nil
}

// LoadOrders reads the sales order sheet of a workbook.
func LoadOrders(r io.Reader, sheet string) ([]model.SalesOrder, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets: %w", ErrEmptyDataset)
		}
		sheet = sheets[0]
	}

	rows, err := wb.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header: %w", sheet, ErrEmptyDataset)
	}

	idx := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	header := make([]string, 0, len(idx))
	for h := range idx {
		header = append(header, h)
	}
	if err := requireColumns(header, requiredOrderColumns); err != nil {
		return nil, err
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	orders := make([]model.SalesOrder, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2 // 1-based, header is line 1
		if isBlank(row) {
			continue
		}

		o := model.SalesOrder{
			SalesOrderID: normalizeID(cell(row, ColSalesOrderID)),
			ProdID:       normalizeID(cell(row, ColProdID)),
			CustID:       normalizeID(cell(row, ColCustID)),
		}
		if o.SubTotal, err = parseMoney(cell(row, ColSubTotal)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColSubTotal, err)
		}
		if o.TaxAmt, err = parseMoney(cell(row, ColTaxAmt)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColTaxAmt, err)
		}
		if o.Freight, err = parseMoney(cell(row, ColFreight)); err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, ColFreight, err)
		}
		if raw := cell(row, ColOrderDate); raw != "" {
			ts, err := parseOrderDate(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, ColOrderDate, err)
			}
			o.OrderDate = &ts
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// normalizeID turns numeric ids stored as "43659.0" into "43659".
func normalizeID(raw string) string {
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return raw
}

func parseMoney(raw string) (decimal.Decimal, error) {
	raw = strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", "")
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func parseOrderDate(raw string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		return excelize.ExcelDateToTime(serial, false)
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05", "1/2/2006"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}
