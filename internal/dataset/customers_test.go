package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const customersCSV = `Id,Year_Birth,Education,Income,Dt_Customer,MntWines,MntFruits,MntMeatProducts,MntFishProducts,MntSweetProducts,MntGoldProds,NumDealsPurchases,NumWebPurchases,NumCatalogPurchases,NumStorePurchases
1826,1970,Graduation,84835,6/16/2014,189,104,379,111,189,218,1,4,4,6
1,1961,Graduation,57091,6/15/2014,464,5,64,7,0,37,1,7,3,7
10476,1958,Graduation,67267,5/13/2014,134,11,59,15,2,30,1,3,2,5
1386,1967,Graduation,32474,6/15/2014,10,,1,0,0,0,1,1,0,2
`

func TestLoadCustomers(t *testing.T) {
	tbl, err := LoadCustomers(strings.NewReader(customersCSV))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, 4, tbl.Len())

	first := tbl.Rows[0]
	assert.Equal(t, "1826", first.ID)
	assert.Equal(t, time.Date(2014, 6, 16, 0, 0, 0, 0, time.UTC), first.JoinedAt)
	require.NotNil(t, first.Spend[model.ProductWines])
	assert.Equal(t, 189.0, *first.Spend[model.ProductWines])
	assert.True(t, first.HasAllSpend())
	assert.Equal(t, 15.0, first.ChannelTotal())

	last := tbl.Rows[3]
	assert.Nil(t, last.Spend[model.ProductFruits])
	assert.False(t, last.HasAllSpend())
}

func TestLoadCustomers_MissingColumn(t *testing.T) {
	csv := "Id,Dt_Customer,MntWines\n1,2014-01-01,5\n"
	_, err := LoadCustomers(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "MntFruits")
}

func TestLoadCustomers_Empty(t *testing.T) {
	_, err := LoadCustomers(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestLoadCustomers_HeaderOnly(t *testing.T) {
	header := strings.SplitN(customersCSV, "\n", 2)[0] + "\n"
	_, err := LoadCustomers(strings.NewReader(header))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyDataset)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestLoadCustomers_BadDate(t *testing.T) {
	csv := strings.Replace(customersCSV, "5/13/2014", "not-a-date", 1)
	_, err := LoadCustomers(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestLoadCustomers_EmptyDateIsZero(t *testing.T) {
	csv := strings.Replace(customersCSV, "5/13/2014", "", 1)
	tbl, err := LoadCustomers(strings.NewReader(csv))
	require.NoError(t, err)
	assert.True(t, tbl.Rows[2].JoinedAt.IsZero())
}

func TestParseJoinDate(t *testing.T) {
	cases := map[string]time.Time{
		"2014-06-16":          time.Date(2014, 6, 16, 0, 0, 0, 0, time.UTC),
		"6/16/2014":           time.Date(2014, 6, 16, 0, 0, 0, 0, time.UTC),
		"04-09-2012":          time.Date(2012, 4, 9, 0, 0, 0, 0, time.UTC),
		"2014-06-16 10:30:00": time.Date(2014, 6, 16, 10, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := parseJoinDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCustomerTable_HeadAndColumns(t *testing.T) {
	tbl, err := LoadCustomers(strings.NewReader(customersCSV))
	require.NoError(t, err)

	cols := tbl.Columns()
	assert.Equal(t, "Id", cols[0])
	assert.Len(t, cols, 15)

	head := tbl.Head(2)
	require.Len(t, head, 2)
	assert.Equal(t, "1826", head[0][0])
	assert.Equal(t, "189", head[0][5])

	assert.Len(t, tbl.Head(100), 4)
	assert.Empty(t, tbl.Head(-1))
}

func TestCustomerTable_Describe(t *testing.T) {
	tbl, err := LoadCustomers(strings.NewReader(customersCSV))
	require.NoError(t, err)

	stats := map[string]model.ColumnStats{}
	for _, s := range tbl.Describe() {
		stats[s.Column] = s
	}

	assert.NotContains(t, stats, "Education")
	assert.NotContains(t, stats, "Dt_Customer")

	wines, ok := stats["MntWines"]
	require.True(t, ok)
	assert.Equal(t, 4, wines.Count)
	assert.InDelta(t, 199.25, wines.Mean, 1e-9)
	assert.Equal(t, 10.0, wines.Min)
	assert.Equal(t, 464.0, wines.Max)
	// sorted: 10 134 189 464
	assert.InDelta(t, 103.0, wines.P25, 1e-9)
	assert.InDelta(t, 161.5, wines.P50, 1e-9)
	assert.InDelta(t, 257.75, wines.P75, 1e-9)
	assert.InDelta(t, 191.7209, wines.Std, 1e-3)

	fruits := stats["MntFruits"]
	assert.Equal(t, 3, fruits.Count)

	year, ok := stats["Year_Birth"]
	require.True(t, ok)
	assert.Equal(t, 1958.0, year.Min)
}

func TestDescribeSpend_SkipsIncompleteRows(t *testing.T) {
	tbl, err := LoadCustomers(strings.NewReader(customersCSV))
	require.NoError(t, err)

	stats := DescribeSpend(tbl.Rows)
	require.Len(t, stats, len(model.Products))
	assert.Equal(t, "MntWines", stats[0].Column)
	assert.Equal(t, "MntGoldProds", stats[5].Column)

	// the fourth customer has no MntFruits and is left out of every column
	wines := stats[0]
	assert.Equal(t, 3, wines.Count)
	assert.Equal(t, 134.0, wines.Min)
	assert.Equal(t, 464.0, wines.Max)
	assert.InDelta(t, 189.0, wines.P50, 1e-9)
	assert.InDelta(t, 787.0/3, wines.Mean, 1e-9)

	for _, s := range stats {
		assert.Equal(t, 3, s.Count, s.Column)
	}
}

func TestDescribeSpend_NoCompleteRows(t *testing.T) {
	stats := DescribeSpend(nil)
	require.Len(t, stats, len(model.Products))
	assert.Zero(t, stats[0].Count)
}

func TestQuantile(t *testing.T) {
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.5))
	assert.Equal(t, 2.0, quantile([]float64{1, 2, 3}, 0.5))
	assert.InDelta(t, 1.5, quantile([]float64{1, 2, 3}, 0.25), 1e-9)
}
