package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

var productColumns = []string{
	"product_name", "product_price", "product_status", "product_category",
	"type", "product_image_desktop",
}

// ProductRepository implements port.ProductRepository
type ProductRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) port.ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

// Save inserts or updates a product
func (r *ProductRepository) Save(ctx context.Context, p *entity.Product) error {
	if err := requireName(p.RecordKind(), p.Name); err != nil {
		return err
	}
	stamp(&p.Meta, time.Now())

	_, err := sqlite.Conn(ctx, r.db).ExecContext(ctx, upsertQuery("products", productColumns...),
		args(&p.Meta,
			p.ProductName, p.ProductPrice, p.ProductStatus, p.ProductCategory,
			p.Type, p.ProductImageDesktop,
		)...,
	)
	if err != nil {
		r.logger.Error("Failed to save product", zap.String("name", p.Name), zap.Error(err))
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// GetByName retrieves a product by name
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	row := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		selectQuery("products", productColumns...)+" WHERE name = ?", name)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get product", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// ListRecent returns the most recently modified products
func (r *ProductRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Product, error) {
	rows, err := sqlite.Conn(ctx, r.db).QueryContext(ctx,
		selectQuery("products", productColumns...)+" ORDER BY modified DESC, name DESC LIMIT ?", limit)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Count returns the number of products
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// CountByStatus counts products with the given stock status
func (r *ProductRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := sqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE product_status = ?", status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func scanProduct(s rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := s.Scan(
		&p.Name,
		&p.ProductName, &p.ProductPrice, &p.ProductStatus, &p.ProductCategory,
		&p.Type, &p.ProductImageDesktop,
		&p.Creation, &p.Modified,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var _ port.ProductRepository = (*ProductRepository)(nil)
