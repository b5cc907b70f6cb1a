package company

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// companyColumns lists the columns scanned into a Company, in order.
var companyColumns = []string{
	"company_name",
	"num_approved",
	"num_cancelled",
	"reliability_score",
	"cancel_score",
	"category_score",
	"portfolio_score",
	"market_score",
	"time_bonus",
	"exp_penalty",
	"brand_age_years",
	"has_recent_products",
	"has_old_products",
}

// PostgresRepository is a Repository backed by PostgreSQL.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a Postgres-backed company repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// FindByName implements the Repository interface. The matcher chain runs
// exact, case-insensitive, then substring lookups; each strategy is a
// separate query so the cheapest possible match is used.
func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*Company, error) {
	if name == "" {
		return nil, ErrNotFound
	}

	strategies := []sq.Sqlizer{
		sq.Eq{"company_name": name},
		sq.Expr("LOWER(company_name) = LOWER(?)", name),
		sq.ILike{"company_name": "%" + name + "%"},
	}

	for _, where := range strategies {
		c, err := r.findOne(ctx, where)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find company %q: %w: %w", name, ErrStoreUnavailable, err)
		}
	}

	return nil, ErrNotFound
}

func (r *PostgresRepository) findOne(ctx context.Context, where sq.Sqlizer) (*Company, error) {
	query, args, err := r.builder.
		Select(companyColumns...).
		From("companies").
		Where(where).
		OrderBy("company_name").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	return scanCompany(row)
}

// ListStats implements the Repository interface.
func (r *PostgresRepository) ListStats(ctx context.Context) ([]BrandStats, error) {
	query, args, err := r.builder.
		Select(companyColumns...).
		From("companies").
		OrderBy("reliability_score DESC", "company_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var stats []BrandStats
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		stats = append(stats, c.Stats())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w: %w", ErrStoreUnavailable, err)
	}

	return stats, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*Company, error) {
	var c Company
	err := row.Scan(
		&c.CompanyName,
		&c.NumApproved,
		&c.NumCancelled,
		&c.ReliabilityScore,
		&c.CancelScore,
		&c.CategoryScore,
		&c.PortfolioScore,
		&c.MarketScore,
		&c.TimeBonus,
		&c.ExpPenalty,
		&c.BrandAgeYears,
		&c.HasRecentProducts,
		&c.HasOldProducts,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
