package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quote-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetQuotableFlag reads the quotable flag for a product. A product with no
// row, or one that never had the flag set, resolves to false.
func (s *Store) GetQuotableFlag(ctx context.Context, productID int64) (bool, error) {
	var quotable sql.NullBool
	err := s.db.GetContext(ctx, &quotable,
		"SELECT quotable FROM products WHERE id = $1", productID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return quotable.Valid && quotable.Bool, nil
}

// SetQuotableFlag updates the quotable flag for a single product
func (s *Store) SetQuotableFlag(ctx context.Context, productID int64, quotable bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET quotable = $1 WHERE id = $2", quotable, productID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("product %d: %w", productID, models.ErrNotFound)
	}
	return nil
}

// SetQuotableFlags updates the quotable flag for a batch of products
func (s *Store) SetQuotableFlags(ctx context.Context, productIDs []int64, quotable bool) error {
	if len(productIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In("UPDATE products SET quotable = ? WHERE id IN (?)", quotable, productIDs)
	if err != nil {
		return err
	}
	query = s.db.Rebind(query)

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// CountProducts returns the total number of products in the catalog
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}

// ListProductIDs returns one fixed-size page of product IDs in stable order
func (s *Store) ListProductIDs(ctx context.Context, limit, offset int) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids,
		"SELECT id FROM products ORDER BY id LIMIT $1 OFFSET $2", limit, offset)
	return ids, err
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}
