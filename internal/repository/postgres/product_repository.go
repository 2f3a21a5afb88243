// internal/repository/postgres/product_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/christianminimart/backend/internal/domain"
	"github.com/christianminimart/backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type productRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT
			p.id, p.barcode, p.name, p.brand, p.category,
			p.cost_price, p.retail_price,
			COALESCE(i.quantity, 0) AS current_stock,
			COALESCE(i.reorder_level, 0) AS reorder_level,
			p.created_at, p.updated_at
		FROM products p
		LEFT JOIN inventory i ON i.product_id = p.id
		WHERE p.id = $1
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting product %d: %w", id, err)
	}

	return &product, nil
}

func (r *productRepository) ListReorderCandidates(ctx context.Context) ([]int64, error) {
	query := `
		SELECT p.id
		FROM products p
		JOIN inventory i ON i.product_id = p.id
		WHERE i.reorder_level > 0
		  AND i.quantity <= i.reorder_level
		ORDER BY p.id
	`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("error listing reorder candidates: %w", err)
	}

	return ids, nil
}
