package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

// productColumns lists the joined columns scanned into a Product, in order.
var productColumns = []string{
	"p.notif_no",
	"p.date_notif",
	"p.status",
	"p.product",
	"p.category",
	"c.company_name AS company",
	"c.reliability_score",
}

// PostgresRepository is a Repository backed by PostgreSQL.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a Postgres-backed product repository.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// termPredicate builds the OR predicate for an expanded term set: each
// term matches by substring against product name, company name, or
// notification code.
func termPredicate(terms []string) sq.Or {
	or := make(sq.Or, 0, len(terms)*3)
	for _, term := range terms {
		pattern := "%" + term + "%"
		or = append(or,
			sq.ILike{"p.product": pattern},
			sq.ILike{"c.company_name": pattern},
			sq.ILike{"p.notif_no": pattern},
		)
	}
	return or
}

func (r *PostgresRepository) selectProducts() sq.SelectBuilder {
	return r.builder.
		Select(productColumns...).
		From("categorized_products p").
		Join("companies c ON p.company_id = c.company_id")
}

// SearchPage implements the Repository interface. It issues one COUNT and
// one paginated SELECT under the same predicate, then enriches cancelled
// rows on the page with substances and manufacturer.
func (r *PostgresRepository) SearchPage(ctx context.Context, terms []string, page, pageSize int) (*Page, error) {
	if len(terms) == 0 {
		return NewPage(nil, 0, page, pageSize), nil
	}
	pred := termPredicate(terms)

	countQuery, countArgs, err := r.builder.
		Select("COUNT(DISTINCT p.notif_no)").
		From("categorized_products p").
		Join("companies c ON p.company_id = c.company_id").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count search matches: %w: %w", ErrStoreUnavailable, err)
	}

	offset := (page - 1) * pageSize
	query, args, err := r.selectProducts().
		Where(pred).
		OrderBy("p.date_notif DESC", "p.notif_no DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.enrichCancelled(ctx, products); err != nil {
		return nil, err
	}

	return NewPage(products, total, page, pageSize), nil
}

// SearchFlat implements the Repository interface.
func (r *PostgresRepository) SearchFlat(ctx context.Context, terms []string, limit int) ([]Product, error) {
	if len(terms) == 0 {
		return []Product{}, nil
	}

	query, args, err := r.selectProducts().
		Where(termPredicate(terms)).
		OrderBy("p.date_notif DESC", "p.notif_no DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search query: %w", err)
	}

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.enrichCancelled(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Recent implements the Repository interface.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]Product, error) {
	query, args, err := r.selectProducts().
		Where(sq.Eq{"p.status": StatusApproved}).
		OrderBy("p.date_notif DESC", "p.notif_no DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	return r.queryProducts(ctx, query, args...)
}

// ByNotifNo implements the Repository interface.
func (r *PostgresRepository) ByNotifNo(ctx context.Context, notifNo string) (*Product, error) {
	query, args, err := r.selectProducts().
		Where(sq.Eq{"p.notif_no": notifNo}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}

	if err := r.enrichCancelled(ctx, products[:1]); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// Alternatives implements the Repository interface.
func (r *PostgresRepository) Alternatives(ctx context.Context, notifNo string, limit int) ([]Product, error) {
	var category string
	originalQuery, originalArgs, err := r.builder.
		Select("p.category").
		From("categorized_products p").
		Where(sq.Eq{"p.notif_no": notifNo}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build original lookup: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, originalQuery, originalArgs...).Scan(&category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup original product: %w: %w", ErrStoreUnavailable, err)
	}

	query, args, err := r.selectProducts().
		Where(sq.And{
			sq.Eq{"p.category": category},
			sq.Eq{"p.status": StatusApproved},
			sq.NotEq{"p.notif_no": notifNo},
		}).
		OrderBy("c.reliability_score DESC", "p.notif_no").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build alternatives query: %w", err)
	}

	return r.queryProducts(ctx, query, args...)
}

// Substances implements the Repository interface.
func (r *PostgresRepository) Substances(ctx context.Context) ([]Substance, error) {
	query, args, err := r.builder.
		Select(
			"substance_id",
			"substance",
			"COALESCE(common_name, '')",
			"COALESCE(risk_level, '')",
			"COALESCE(health_effect, '')",
			"COALESCE(simple_explain, '')",
			"COALESCE(short_risk, '')",
			"COALESCE(long_risk, '')",
			"COALESCE(risk_level_definition, '')",
			"COALESCE(international_ban_status, '')",
			"COALESCE(usage, '')",
			"COALESCE(alternative, '')",
			"COALESCE(banned_year, '')",
		).
		From("substances").
		OrderBy(riskTierOrder, "substance").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build substances query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list substances: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []Substance
	for rows.Next() {
		var s Substance
		if err := rows.Scan(
			&s.SubstanceID, &s.Substance, &s.CommonName, &s.RiskLevel,
			&s.HealthEffect, &s.SimpleExplain, &s.ShortRisk, &s.LongRisk,
			&s.RiskLevelDefinition, &s.InternationalBan, &s.Usage,
			&s.Alternative, &s.BannedYear,
		); err != nil {
			return nil, fmt.Errorf("scan substance: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate substances: %w: %w", ErrStoreUnavailable, err)
	}
	if out == nil {
		out = []Substance{}
	}
	return out, nil
}

// riskTierOrder sorts substance risk tiers HIGH, MEDIUM, LOW, then the rest.
const riskTierOrder = "CASE risk_level WHEN 'HIGH' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 3 ELSE 4 END"

// ProductSubstances implements the Repository interface.
func (r *PostgresRepository) ProductSubstances(ctx context.Context, notifNo string) ([]Substance, error) {
	query, args, err := r.builder.
		Select(
			"s.substance_id",
			"s.substance",
			"COALESCE(s.common_name, '')",
			"COALESCE(s.risk_level, '')",
			"COALESCE(s.health_effect, '')",
			"COALESCE(s.simple_explain, '')",
			"COALESCE(s.short_risk, '')",
			"COALESCE(s.long_risk, '')",
		).
		From("cancelled_product_substances cps").
		Join("substances s ON cps.substance_id = s.substance_id").
		Where(sq.Eq{"cps.notif_no": notifNo}).
		OrderBy("CASE s.risk_level WHEN 'HIGH' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 3 ELSE 4 END").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product substances query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list product substances: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	out := []Substance{}
	for rows.Next() {
		var s Substance
		if err := rows.Scan(
			&s.SubstanceID, &s.Substance, &s.CommonName, &s.RiskLevel,
			&s.HealthEffect, &s.SimpleExplain, &s.ShortRisk, &s.LongRisk,
		); err != nil {
			return nil, fmt.Errorf("scan product substance: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product substances: %w: %w", ErrStoreUnavailable, err)
	}
	return out, nil
}

func (r *PostgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.NotifNo, &p.DateNotif, &p.Status, &p.Product,
			&p.Category, &p.Company, &p.ReliabilityScore,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.HarmfulIngredients = []string{}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w: %w", ErrStoreUnavailable, err)
	}
	return products, nil
}

// enrichCancelled attaches harmful substances and manufacturer to the
// cancelled products in the slice, using two batched lookups. Substance
// names are de-duplicated per product.
func (r *PostgresRepository) enrichCancelled(ctx context.Context, products []Product) error {
	var codes []string
	for i := range products {
		if products[i].Status == StatusCancelled {
			codes = append(codes, products[i].NotifNo)
		}
	}
	if len(codes) == 0 {
		return nil
	}

	substanceRows, err := r.db.QueryContext(ctx,
		`SELECT cps.notif_no, s.substance
		 FROM cancelled_product_substances cps
		 JOIN substances s ON cps.substance_id = s.substance_id
		 WHERE cps.notif_no = ANY($1)`,
		pq.StringArray(codes))
	if err != nil {
		return fmt.Errorf("lookup substances: %w: %w", ErrStoreUnavailable, err)
	}
	defer substanceRows.Close()

	substancesByCode := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for substanceRows.Next() {
		var code, name string
		if err := substanceRows.Scan(&code, &name); err != nil {
			return fmt.Errorf("scan substance name: %w", err)
		}
		if seen[code] == nil {
			seen[code] = make(map[string]bool)
		}
		if seen[code][name] {
			continue
		}
		seen[code][name] = true
		substancesByCode[code] = append(substancesByCode[code], name)
	}
	if err := substanceRows.Err(); err != nil {
		return fmt.Errorf("iterate substance names: %w: %w", ErrStoreUnavailable, err)
	}

	manufacturerRows, err := r.db.QueryContext(ctx,
		`SELECT notif_no, COALESCE(manufacturer, '')
		 FROM cancelled_products
		 WHERE notif_no = ANY($1)`,
		pq.StringArray(codes))
	if err != nil {
		return fmt.Errorf("lookup manufacturers: %w: %w", ErrStoreUnavailable, err)
	}
	defer manufacturerRows.Close()

	manufacturerByCode := make(map[string]string)
	for manufacturerRows.Next() {
		var code, manufacturer string
		if err := manufacturerRows.Scan(&code, &manufacturer); err != nil {
			return fmt.Errorf("scan manufacturer: %w", err)
		}
		manufacturerByCode[code] = manufacturer
	}
	if err := manufacturerRows.Err(); err != nil {
		return fmt.Errorf("iterate manufacturers: %w: %w", ErrStoreUnavailable, err)
	}

	for i := range products {
		if products[i].Status != StatusCancelled {
			continue
		}
		if names, ok := substancesByCode[products[i].NotifNo]; ok {
			products[i].HarmfulIngredients = names
		}
		products[i].Manufacturer = manufacturerByCode[products[i].NotifNo]
	}
	return nil
}
