package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	src := `-- header comment
DROP TABLE IF EXISTS sales_orders;

CREATE TABLE sales_orders (
    id INT -- trailing comments stay
);
`
	got := splitStatements(src)
	assert.Equal(t, []string{
		"DROP TABLE IF EXISTS sales_orders",
		"CREATE TABLE sales_orders (\n    id INT -- trailing comments stay\n)",
	}, got)
}

func TestSplitStatements_Empty(t *testing.T) {
	assert.Empty(t, splitStatements("\n-- nothing\n;\n"))
}
