package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tezbazar/internal/domain"
	"tezbazar/internal/repository"
	"tezbazar/internal/search"
)

const (
	// FuzzyMatchDistance is the maximum edit distance the free-text stage
	// tolerates between a query and a word of a product's searchable text
	FuzzyMatchDistance = 2

	// DefaultRelatedLimit caps related-product listings when the caller
	// does not supply a limit
	DefaultRelatedLimit = 4
)

// CatalogService defines the business operations over the product catalog
type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int) error

	SearchProducts(ctx context.Context, query string) ([]*domain.Product, error)
	AdvancedSearch(ctx context.Context, filters domain.SearchFilters) ([]*domain.Product, error)
	GetRelatedProducts(ctx context.Context, id, limit int) ([]*domain.Product, error)
	GetFlashSaleProducts(ctx context.Context) ([]*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListBrands(ctx context.Context) ([]string, error)

	SetFlashSale(ctx context.Context, id, salePrice int, endsAt time.Time, marketingText string) (*domain.Product, error)
	ClearFlashSale(ctx context.Context, id int) (*domain.Product, error)
}

type catalogService struct {
	products repository.ProductRepository
}

// NewCatalogService creates a new CatalogService backed by the given repository
func NewCatalogService(products repository.ProductRepository) CatalogService {
	return &catalogService{products: products}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *catalogService) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

// CreateProduct stores a new product, deriving a unique slug from the title
// when the caller did not supply one
func (s *catalogService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	slug := product.Slug
	if slug == "" {
		slug = Slugify(product.Title)
	}

	if _, err := s.products.FindBySlug(ctx, slug); err == nil {
		slug = slug + "-" + slugSuffix()
	} else if !errors.Is(err, repository.ErrProductNotFound) {
		return err
	}

	product.Slug = slug
	return s.products.Create(ctx, product)
}

func (s *catalogService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	return s.products.Update(ctx, product)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int) error {
	return s.products.Delete(ctx, id)
}

// SearchProducts is the plain substring search: case-insensitive containment
// over title, description, category, brand and short description.
func (s *catalogService) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	all, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	matched := []*domain.Product{}
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			(p.Brand != "" && strings.Contains(strings.ToLower(p.Brand), q)) ||
			(p.ShortDescription != "" && strings.Contains(strings.ToLower(p.ShortDescription), q)) {
			matched = append(matched, p)
		}
	}

	return matched, nil
}

// AdvancedSearch combines the typo-tolerant free-text stage with the
// structured filters. Results keep the store's default ordering (newest
// first); there is no relevance re-ranking. Searches without a free-text
// query are answered by the store's indexed filters directly, so the full
// catalog is only pulled into memory when the text pipeline must run.
func (s *catalogService) AdvancedSearch(ctx context.Context, filters domain.SearchFilters) ([]*domain.Product, error) {
	if filters.Query == "" {
		products, err := s.products.FindFiltered(ctx, filters.Category, filters.Brand, filters.MinPrice, filters.MaxPrice)
		if err != nil {
			return nil, err
		}
		if len(filters.Tags) > 0 {
			tagsOnly := domain.SearchFilters{Tags: filters.Tags}
			products = applyStructuredFilters(products, tagsOnly)
		}
		return products, nil
	}

	all, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filters.Query))
	variants := search.TypoVariants(query)

	matched := []*domain.Product{}
	for _, p := range all {
		if matchesFreeText(p, query, variants) {
			matched = append(matched, p)
		}
	}

	return applyStructuredFilters(matched, filters), nil
}

// GetRelatedProducts returns up to limit other products sharing the given
// product's category or, when it has one, its brand. An unknown id yields an
// empty list: no product, no relations. Candidates keep store order; there
// is no scoring between category and brand matches.
func (s *catalogService) GetRelatedProducts(ctx context.Context, id, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return []*domain.Product{}, nil
		}
		return nil, err
	}

	all, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	related := []*domain.Product{}
	for _, candidate := range all {
		if candidate.ID == product.ID {
			continue
		}
		if candidate.Category != product.Category &&
			(product.Brand == "" || candidate.Brand != product.Brand) {
			continue
		}
		related = append(related, candidate)
		if len(related) == limit {
			break
		}
	}

	return related, nil
}

// GetFlashSaleProducts returns every product currently flagged as on flash
// sale. The flash_sale_ends timestamp is not consulted: a sale lasts until
// an admin clears the flag, even past its advertised end.
func (s *catalogService) GetFlashSaleProducts(ctx context.Context) ([]*domain.Product, error) {
	all, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	onSale := []*domain.Product{}
	for _, p := range all {
		if p.IsFlashSale {
			onSale = append(onSale, p)
		}
	}

	return onSale, nil
}

// ListCategories returns the distinct categories in catalog order
func (s *catalogService) ListCategories(ctx context.Context) ([]string, error) {
	all, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	categories := []string{}
	for _, p := range all {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}

	return categories, nil
}

// ListBrands returns the distinct brands in catalog order, skipping
// brandless products
func (s *catalogService) ListBrands(ctx context.Context) ([]string, error) {
	all, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	brands := []string{}
	for _, p := range all {
		if p.Brand != "" && !seen[p.Brand] {
			seen[p.Brand] = true
			brands = append(brands, p.Brand)
		}
	}

	return brands, nil
}

func (s *catalogService) SetFlashSale(ctx context.Context, id, salePrice int, endsAt time.Time, marketingText string) (*domain.Product, error) {
	if err := s.products.SetFlashSale(ctx, id, salePrice, endsAt, marketingText); err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, id)
}

func (s *catalogService) ClearFlashSale(ctx context.Context, id int) (*domain.Product, error) {
	if err := s.products.ClearFlashSale(ctx, id); err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, id)
}
