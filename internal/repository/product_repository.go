package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tezbazar/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugTaken       = errors.New("product with this slug already exists")
)

// productColumns is the select list shared by every product query. Order
// must match scanProduct.
const productColumns = `id, slug, title, description, short_description, category, brand,
	tags, price, image_url, stock, is_flash_sale, flash_sale_price,
	flash_sale_ends, flash_sale_text, created_at`

// ProductRepository defines the interface for product data access. Read
// methods return products in store default order: created_at descending.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int) error
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindFiltered(ctx context.Context, category, brand string, minPrice, maxPrice *int) ([]*domain.Product, error)
	SetFlashSale(ctx context.Context, id, salePrice int, endsAt time.Time, marketingText string) error
	ClearFlashSale(ctx context.Context, id int) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product and fills in its generated ID
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (slug, title, description, short_description, category, brand,
		                      tags, price, image_url, stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	tags, err := json.Marshal(tagsOrEmpty(product.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	err = r.db.QueryRowContext(
		ctx,
		query,
		product.Slug,
		product.Title,
		product.Description,
		nullString(product.ShortDescription),
		product.Category,
		nullString(product.Brand),
		tags,
		product.Price,
		product.ImageURL,
		product.Stock,
		product.CreatedAt,
	).Scan(&product.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces the editable fields of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET slug = $2, title = $3, description = $4, short_description = $5,
		    category = $6, brand = $7, tags = $8, price = $9, image_url = $10, stock = $11
		WHERE id = $1
	`

	tags, err := json.Marshal(tagsOrEmpty(product.Tags))
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Slug,
		product.Title,
		product.Description,
		nullString(product.ShortDescription),
		product.Category,
		nullString(product.Brand),
		tags,
		product.Price,
		product.ImageURL,
		product.Stock,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return requireRowsAffected(result)
}

// Delete removes a product from the database
func (r *productRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return requireRowsAffected(result)
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindBySlug retrieves a product by its URL slug
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by slug: %w", err)
	}

	return product, nil
}

// FindAll retrieves the full catalog, newest first
func (r *productRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// FindFiltered retrieves products narrowed by the structured criteria that
// can be pushed into SQL: category and brand (case-insensitive exact match)
// and inclusive price bounds. Empty or nil arguments impose no constraint.
// Products without a brand never match a brand filter.
func (r *productRepository) FindFiltered(ctx context.Context, category, brand string, minPrice, maxPrice *int) ([]*domain.Product, error) {
	where := ""
	args := []interface{}{}
	argIndex := 1

	addClause := func(clause string, arg interface{}) {
		if where == "" {
			where = "WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, argIndex)
		args = append(args, arg)
		argIndex++
	}

	if category != "" {
		addClause("LOWER(category) = LOWER($%d)", category)
	}
	if brand != "" {
		addClause("brand IS NOT NULL AND LOWER(brand) = LOWER($%d)", brand)
	}
	if minPrice != nil {
		addClause("price >= $%d", *minPrice)
	}
	if maxPrice != nil {
		addClause("price <= $%d", *maxPrice)
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_at DESC`, productColumns, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// SetFlashSale marks a product as on flash sale with the promotional price,
// end time and optional marketing text
func (r *productRepository) SetFlashSale(ctx context.Context, id, salePrice int, endsAt time.Time, marketingText string) error {
	query := `
		UPDATE products
		SET is_flash_sale = TRUE, flash_sale_price = $2, flash_sale_ends = $3, flash_sale_text = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, salePrice, endsAt, nullString(marketingText))
	if err != nil {
		return fmt.Errorf("failed to set flash sale: %w", err)
	}

	return requireRowsAffected(result)
}

// ClearFlashSale removes the flash-sale flag and its companion fields
func (r *productRepository) ClearFlashSale(ctx context.Context, id int) error {
	query := `
		UPDATE products
		SET is_flash_sale = FALSE, flash_sale_price = NULL, flash_sale_ends = NULL, flash_sale_text = NULL
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear flash sale: %w", err)
	}

	return requireRowsAffected(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product        domain.Product
		shortDesc      sql.NullString
		brand          sql.NullString
		tags           []byte
		flashSalePrice sql.NullInt64
		flashSaleEnds  sql.NullTime
		flashSaleText  sql.NullString
	)

	err := row.Scan(
		&product.ID,
		&product.Slug,
		&product.Title,
		&product.Description,
		&shortDesc,
		&product.Category,
		&brand,
		&tags,
		&product.Price,
		&product.ImageURL,
		&product.Stock,
		&product.IsFlashSale,
		&flashSalePrice,
		&flashSaleEnds,
		&flashSaleText,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.ShortDescription = shortDesc.String
	product.Brand = brand.String
	product.FlashSaleText = flashSaleText.String

	if flashSalePrice.Valid {
		price := int(flashSalePrice.Int64)
		product.FlashSalePrice = &price
	}
	if flashSaleEnds.Valid {
		ends := flashSaleEnds.Time
		product.FlashSaleEnds = &ends
	}

	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &product.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}

	return &product, nil
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// isUniqueViolation matches the SQLSTATE postgres reports for duplicate keys
func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
