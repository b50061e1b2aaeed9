package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lapak/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository owns the three record collections: transactions plus one
// withdrawal stream per partner. Snapshots are always full reads ordered by
// timestamp descending; summaries are recomputed from them, never stored.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const insertTransactionSQL = `
INSERT INTO transactions (
	group_id, buyer_username, date, notes,
	product_id, product_code, product_name,
	quantity, actual_quantity, sell_price, total_sell_price,
	shopee_fee_percent, shopee_discount, net_income,
	cost_price, total_cost, profit, blue_pack, cempaka_pack,
	timestamp_ms
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateSale persists every line of one submission in a single SQL
// transaction: either the whole buyer action lands or none of it does.
// Returned records carry their assigned ids.
func (r *SQLiteRepository) CreateSale(ctx context.Context, txs []core.Transaction) ([]core.Transaction, error) {
	if len(txs) == 0 {
		return nil, fmt.Errorf("create sale: no line items")
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin sale transaction: %w", err)
	}
	defer dbTx.Rollback()

	out := make([]core.Transaction, len(txs))
	for i, t := range txs {
		res, err := dbTx.ExecContext(ctx, insertTransactionSQL,
			t.GroupID, t.BuyerUsername, t.Date, t.Notes,
			t.ProductID, t.ProductCode, t.ProductName,
			t.Quantity, t.ActualQuantity, t.SellPrice, t.TotalSellPrice,
			t.ShopeeFeePercent, t.ShopeeDiscount, t.NetIncome,
			t.CostPrice, t.TotalCost, t.Profit, t.BluePack, t.CempakaPack,
			t.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("insert line %d: %w", i, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("line %d id: %w", i, err)
		}
		t.ID = id
		out[i] = t
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	slog.InfoContext(ctx, "Sale saved",
		"group_id", txs[0].GroupID,
		"lines", len(txs),
		"buyer", txs[0].BuyerUsername)
	return out, nil
}

// DeleteTransaction removes a single sale line by id.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

const selectTransactionsSQL = `
SELECT id, group_id, buyer_username, date, notes,
	product_id, product_code, product_name,
	quantity, actual_quantity, sell_price, total_sell_price,
	shopee_fee_percent, shopee_discount, net_income,
	cost_price, total_cost, profit, blue_pack, cempaka_pack,
	timestamp_ms
FROM transactions
ORDER BY timestamp_ms DESC, id DESC`

// Transactions reads the full snapshot, newest first.
func (r *SQLiteRepository) Transactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransactionsSQL)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(
			&t.ID, &t.GroupID, &t.BuyerUsername, &t.Date, &t.Notes,
			&t.ProductID, &t.ProductCode, &t.ProductName,
			&t.Quantity, &t.ActualQuantity, &t.SellPrice, &t.TotalSellPrice,
			&t.ShopeeFeePercent, &t.ShopeeDiscount, &t.NetIncome,
			&t.CostPrice, &t.TotalCost, &t.Profit, &t.BluePack, &t.CempakaPack,
			&t.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func withdrawalTable(stream core.Stream) (string, error) {
	switch stream {
	case core.StreamBlue:
		return "blue_withdrawals", nil
	case core.StreamCempaka:
		return "cempaka_withdrawals", nil
	default:
		return "", fmt.Errorf("unknown withdrawal stream %q", stream)
	}
}

// CreateWithdrawal appends one event to a partner's stream.
func (r *SQLiteRepository) CreateWithdrawal(ctx context.Context, stream core.Stream, w core.WithdrawalEvent) (core.WithdrawalEvent, error) {
	table, err := withdrawalTable(stream)
	if err != nil {
		return core.WithdrawalEvent{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO `+table+` (amount, date, notes, type, timestamp_ms) VALUES (?, ?, ?, ?, ?)`,
		w.Amount, w.Date, w.Notes, string(w.Type), w.Timestamp,
	)
	if err != nil {
		return core.WithdrawalEvent{}, fmt.Errorf("insert withdrawal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.WithdrawalEvent{}, fmt.Errorf("withdrawal id: %w", err)
	}
	w.ID = id

	slog.InfoContext(ctx, "Withdrawal saved",
		"stream", string(stream),
		"id", id,
		"amount", w.Amount,
		"type", string(w.Type))
	return w, nil
}

// DeleteWithdrawal removes one event from a partner's stream by id.
func (r *SQLiteRepository) DeleteWithdrawal(ctx context.Context, stream core.Stream, id int64) error {
	table, err := withdrawalTable(stream)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete withdrawal: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	slog.InfoContext(ctx, "Withdrawal deleted", "stream", string(stream), "id", id)
	return nil
}

// Withdrawals reads a stream's full snapshot, newest first.
func (r *SQLiteRepository) Withdrawals(ctx context.Context, stream core.Stream) ([]core.WithdrawalEvent, error) {
	table, err := withdrawalTable(stream)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, date, notes, type, timestamp_ms FROM `+table+` ORDER BY timestamp_ms DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query withdrawals: %w", err)
	}
	defer rows.Close()

	var out []core.WithdrawalEvent
	for rows.Next() {
		var w core.WithdrawalEvent
		var typ string
		if err := rows.Scan(&w.ID, &w.Amount, &w.Date, &w.Notes, &typ, &w.Timestamp); err != nil {
			return nil, fmt.Errorf("scan withdrawal: %w", err)
		}
		w.Type = core.WithdrawalType(typ)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate withdrawals: %w", err)
	}
	return out, nil
}
