package repository

import (
	"context"
	"strings"

	"github.com/jmehdipour/superstore-dashboard/internal/model"
	"github.com/jmoiron/sqlx"
)

// OrdersRepository persists sales order lines in MySQL or ClickHouse.
type OrdersRepository interface {
	// InsertBatch writes the lines in one statement (MySQL) or one prepared
	// batch (ClickHouse). If tx is nil an internal transaction is used.
	InsertBatch(ctx context.Context, tx *sqlx.Tx, orders []model.SalesOrder) error
	ListAll(ctx context.Context) ([]model.SalesOrder, error)
	ListBySalesOrder(ctx context.Context, ids []string) ([]model.SalesOrder, error)
	// Orders makes the repository usable as a dashboard order source.
	Orders(ctx context.Context) ([]model.SalesOrder, error)
}

type OrdersRepositoryImpl struct {
	db *sqlx.DB
}

func NewOrdersRepository(db *sqlx.DB) *OrdersRepositoryImpl {
	return &OrdersRepositoryImpl{db: db}
}

var _ OrdersRepository = (*OrdersRepositoryImpl)(nil)

const orderColumns = `sales_order_id, prod_id, cust_id, sub_total, tax_amt, freight, order_date`

func (r *OrdersRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}
	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

func (r *OrdersRepositoryImpl) InsertBatch(ctx context.Context, tx *sqlx.Tx, orders []model.SalesOrder) error {
	if len(orders) == 0 {
		return nil
	}
	if r.db.DriverName() == "clickhouse" {
		return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
			return r.insertPrepared(ctx, tx, orders)
		})
	}

	var sb strings.Builder
	args := make([]any, 0, len(orders)*7)

	sb.WriteString(`INSERT INTO sales_orders (` + orderColumns + `) VALUES `)
	for i, o := range orders {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, o.SalesOrderID, o.ProdID, o.CustID, o.SubTotal, o.TaxAmt, o.Freight, o.OrderDate)
	}
	// (sales_order_id, prod_id) is unique; replays overwrite the amounts
	sb.WriteString(` ON DUPLICATE KEY UPDATE
		cust_id = VALUES(cust_id),
		sub_total = VALUES(sub_total),
		tax_amt = VALUES(tax_amt),
		freight = VALUES(freight),
		order_date = VALUES(order_date)`)

	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, sb.String(), args...)
		return err
	})
}

// insertPrepared uses the clickhouse-go batch protocol: prepare once, exec per
// row, flush on commit.
func (r *OrdersRepositoryImpl) insertPrepared(ctx context.Context, tx *sqlx.Tx, orders []model.SalesOrder) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sales_orders (`+orderColumns+`)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx, o.SalesOrderID, o.ProdID, o.CustID, o.SubTotal, o.TaxAmt, o.Freight, o.OrderDate); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrdersRepositoryImpl) ListAll(ctx context.Context) ([]model.SalesOrder, error) {
	var rows []model.SalesOrder
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+orderColumns+` FROM sales_orders ORDER BY sales_order_id, prod_id`); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrdersRepositoryImpl) ListBySalesOrder(ctx context.Context, ids []string) ([]model.SalesOrder, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+orderColumns+` FROM sales_orders WHERE sales_order_id IN (?) ORDER BY sales_order_id, prod_id`, ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	var rows []model.SalesOrder
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OrdersRepositoryImpl) Orders(ctx context.Context) ([]model.SalesOrder, error) {
	return r.ListAll(ctx)
}
