package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/akashipov/feeservice/internal/fee"
	"github.com/akashipov/feeservice/internal/storage"
	"github.com/lib/pq"
)

//go:embed queries/init.sql
var initQuery string

const uniqueViolation = "23505"

var _ storage.Store = (*SqlWorker)(nil)

type SqlWorker struct {
	DB *sql.DB
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func NewSqlWorker(dsn string) (*SqlWorker, error) {
	DB, err := InitDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("Problem with init DB -> %w", err)
	}
	return &SqlWorker{DB: DB}, nil
}

func InitDB(dsn string) (*sql.DB, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("Problem with opening DB: %w", err)
	}
	err = DB.Ping()
	if err != nil {
		DB.Close()
		return nil, fmt.Errorf("Problem with pinging DB: %w", err)
	}
	return DB, nil
}

func (w *SqlWorker) CreateDefaultTables(ctx context.Context) error {
	_, err := w.DB.ExecContext(ctx, initQuery)
	if err != nil {
		return fmt.Errorf("Problem with execution of init query: %w", err)
	}
	return nil
}

func (w *SqlWorker) CountDocuments(ctx context.Context) (int64, error) {
	var n int64
	err := w.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM fee_specifications").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("Problem with execution of Count query: %w", err)
	}
	return n, nil
}

// Find mirrors fee.Filter.Matches in SQL. Rows come back in insertion order.
func (w *SqlWorker) Find(ctx context.Context, filter fee.Filter) ([]fee.Specification, error) {
	query := "SELECT fee_id, fee_entity, entity_property, fee_locale, fee_currency, fee_value, specificity_count " +
		"FROM fee_specifications WHERE fee_entity = ANY($1) AND entity_property && $2 " +
		"AND fee_locale = ANY($3) AND fee_currency = ANY($4) ORDER BY id"
	rows, err := w.DB.QueryContext(
		ctx, query,
		pq.Array(filter.FeeEntity.WithWildcard()),
		pq.Array(filter.EntityProperty.WithWildcard()),
		pq.Array(filter.FeeLocale.WithWildcard()),
		pq.Array(filter.FeeCurrency.WithWildcard()),
	)
	if err != nil {
		return nil, fmt.Errorf("Problem with execution of Find query: %w", err)
	}
	defer rows.Close()
	var specs []fee.Specification
	for rows.Next() {
		var spec fee.Specification
		var value string
		err = rows.Scan(
			&spec.FeeID, &spec.Entity.FeeEntity, pq.Array(&spec.Entity.EntityProperty),
			&spec.FeeLocale, &spec.FeeCurrency, &value, &spec.SpecificityCount,
		)
		if err != nil {
			return nil, fmt.Errorf("Problem with Find scan: %w", err)
		}
		spec.FeeValue, err = fee.ParseValue(value)
		if err != nil {
			return nil, fmt.Errorf("Problem with stored fee value of '%s': %w", spec.FeeID, err)
		}
		specs = append(specs, spec)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("Problem with Find rows.Err: %w", err)
	}
	return specs, nil
}

func (w *SqlWorker) Save(ctx context.Context, specs ...fee.Specification) error {
	return w.inTx(ctx, func(tx *sql.Tx) error {
		return w.AddSpecifications(ctx, tx, specs)
	})
}

func (w *SqlWorker) Replace(ctx context.Context, specs ...fee.Specification) error {
	return w.inTx(ctx, func(tx *sql.Tx) error {
		err := w.DeleteSpecifications(ctx, tx)
		if err != nil {
			return err
		}
		return w.AddSpecifications(ctx, tx, specs)
	})
}

func (w *SqlWorker) AddSpecifications(ctx context.Context, tx *sql.Tx, specs []fee.Specification) error {
	for _, spec := range specs {
		err := w.AddSpecification(ctx, tx, spec)
		if err != nil {
			return fmt.Errorf("Problem with execution of Add Specifications: %w", err)
		}
	}
	return nil
}

func (w *SqlWorker) AddSpecification(ctx context.Context, tx *sql.Tx, spec fee.Specification) error {
	query := "INSERT INTO fee_specifications(fee_id, fee_entity, entity_property, fee_locale, " +
		"fee_currency, fee_value, specificity_count) VALUES($1, $2, $3, $4, $5, $6, $7)"
	_, err := w.execer(tx).ExecContext(
		ctx, query, spec.FeeID, spec.Entity.FeeEntity, pq.Array(spec.Entity.EntityProperty),
		spec.FeeLocale, spec.FeeCurrency, spec.FeeValue.String(), spec.SpecificityCount,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: '%s'", storage.ErrDuplicateFeeID, spec.FeeID)
	}
	if err != nil {
		return fmt.Errorf("Problem with execution of Add Specification query: %w", err)
	}
	return nil
}

func (w *SqlWorker) DeleteSpecifications(ctx context.Context, tx *sql.Tx) error {
	_, err := w.execer(tx).ExecContext(ctx, "DELETE FROM fee_specifications")
	if err != nil {
		return fmt.Errorf("Problem with execution of Delete Specifications query: %w", err)
	}
	return nil
}

func (w *SqlWorker) CreateTx(ctx context.Context) (*sql.Tx, error) {
	return w.DB.BeginTx(ctx, nil)
}

func (w *SqlWorker) Close() error {
	return w.DB.Close()
}

func (w *SqlWorker) execer(tx *sql.Tx) execer {
	if tx == nil {
		return w.DB
	}
	return tx
}

func (w *SqlWorker) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := w.CreateTx(ctx)
	if err != nil {
		return fmt.Errorf("Couldn't create TX: %w", err)
	}
	err = fn(tx)
	if err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}
