package transport

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tezbazar/internal/domain"
	"tezbazar/internal/middleware"
	"tezbazar/internal/repository"
	"tezbazar/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductRequest is the payload for creating or updating a product
type ProductRequest struct {
	Slug             string   `json:"slug"`
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	ShortDescription string   `json:"short_description"`
	Category         string   `json:"category" validate:"required"`
	Brand            string   `json:"brand"`
	Tags             []string `json:"tags"`
	Price            int      `json:"price" validate:"gte=0"`
	ImageURL         string   `json:"image_url"`
	Stock            int      `json:"stock" validate:"gte=0"`
}

// FlashSaleRequest is the payload for putting a product on flash sale
type FlashSaleRequest struct {
	SalePrice     int       `json:"sale_price" validate:"required,gt=0"`
	EndsAt        time.Time `json:"ends_at" validate:"required"`
	MarketingText string    `json:"marketing_text"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RouteMiddlewares bundles the cross-cutting handlers the routes need.
// SearchLimiter is optional; the others are required.
type RouteMiddlewares struct {
	Auth          func(http.Handler) http.Handler
	RequireAdmin  func(http.Handler) http.Handler
	SearchLimiter func(http.Handler) http.Handler
}

// RegisterRoutes registers all catalog routes. Write operations sit behind
// the auth and admin middlewares; the search endpoint gets the rate limiter.
func (h *ProductHandler) RegisterRoutes(r chi.Router, mw RouteMiddlewares) {
	searchHandler := http.Handler(http.HandlerFunc(h.Search))
	if mw.SearchLimiter != nil {
		searchHandler = mw.SearchLimiter(searchHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/flash-sales", h.ListFlashSales)
		r.Get("/categories", h.ListCategories)
		r.Get("/brands", h.ListBrands)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Method(http.MethodGet, "/search", searchHandler)
			r.Get("/{idOrSlug}", h.GetProduct)
			r.Get("/{id}/related", h.GetRelated)

			r.Group(func(r chi.Router) {
				r.Use(mw.Auth)
				r.Use(mw.RequireAdmin)
				r.Post("/", h.CreateProduct)
				r.Put("/{id}", h.UpdateProduct)
				r.Delete("/{id}", h.DeleteProduct)
				r.Post("/{id}/flash-sale", h.SetFlashSale)
				r.Delete("/{id}/flash-sale", h.ClearFlashSale)
			})
		})
	})
}

// ListProducts returns the full catalog, newest first
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Search runs the typo-tolerant advanced search from query parameters:
// q, category, brand, minPrice, maxPrice and a comma-separated tags list
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	filters := domain.SearchFilters{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Brand:    r.URL.Query().Get("brand"),
	}

	if raw := r.URL.Query().Get("tags"); raw != "" {
		filters.Tags = strings.Split(raw, ",")
	}

	minPrice, ok := parseOptionalInt(w, r, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := parseOptionalInt(w, r, "maxPrice")
	if !ok {
		return
	}
	filters.MinPrice = minPrice
	filters.MaxPrice = maxPrice

	products, err := h.catalog.AdvancedSearch(r.Context(), filters)
	if err != nil {
		h.logger.Error("Search failed", zap.Error(err), zap.String("query", filters.Query))
		middleware.RespondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

var trailingID = regexp.MustCompile(`-(\d+)$`)

// GetProduct resolves the path parameter as a numeric ID first, then as a
// slug, then as a slug with a trailing -<id> suffix
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "idOrSlug")

	var (
		product *domain.Product
		err     error
	)

	if id, convErr := strconv.Atoi(param); convErr == nil {
		product, err = h.catalog.GetProduct(r.Context(), id)
	} else {
		product, err = h.catalog.GetProductBySlug(r.Context(), param)
		if errors.Is(err, repository.ErrProductNotFound) {
			if m := trailingID.FindStringSubmatch(param); m != nil {
				id, _ := strconv.Atoi(m[1])
				product, err = h.catalog.GetProduct(r.Context(), id)
			}
		}
	}

	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err), zap.String("param", param))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// GetRelated returns cross-sell candidates for a product
func (h *ProductHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	products, err := h.catalog.GetRelatedProducts(r.Context(), id, limit)
	if err != nil {
		h.logger.Error("Failed to get related products", zap.Error(err), zap.Int("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get related products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListFlashSales returns all products currently flagged as on flash sale
func (h *ProductHandler) ListFlashSales(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.GetFlashSaleProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list flash sales", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list flash sales")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListCategories returns the distinct categories in the catalog
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// ListBrands returns the distinct brands in the catalog
func (h *ProductHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.ListBrands(r.Context())
	if err != nil {
		h.logger.Error("Failed to list brands", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list brands")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, brands)
}

// CreateProduct handles admin product creation
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product := req.toDomain()
	if err := h.catalog.CreateProduct(r.Context(), product); err != nil {
		if errors.Is(err, repository.ErrSlugTaken) {
			middleware.RespondWithError(w, http.StatusConflict, "product with this slug already exists")
			return
		}
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.Int("product_id", product.ID), zap.String("slug", product.Slug))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles admin product updates
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product := req.toDomain()
	product.ID = id

	if err := h.catalog.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err), zap.Int("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles admin product deletion
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err), zap.Int("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// SetFlashSale puts a product on flash sale
func (h *ProductHandler) SetFlashSale(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req FlashSaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.SetFlashSale(r.Context(), id, req.SalePrice, req.EndsAt, req.MarketingText)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to set flash sale", zap.Error(err), zap.Int("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to set flash sale")
		return
	}

	h.logger.Info("Flash sale set", zap.Int("product_id", id), zap.Int("sale_price", req.SalePrice))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ClearFlashSale ends a product's flash sale
func (h *ProductHandler) ClearFlashSale(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.ClearFlashSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to clear flash sale", zap.Error(err), zap.Int("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear flash sale")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) decodeProduct(w http.ResponseWriter, r *http.Request) (*ProductRequest, bool) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return nil, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return &req, true
}

func (req *ProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Slug:             req.Slug,
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Category:         req.Category,
		Brand:            req.Brand,
		Tags:             req.Tags,
		Price:            req.Price,
		ImageURL:         req.ImageURL,
		Stock:            req.Stock,
	}
}

// parseOptionalInt reads an optional integer query parameter, writing a 400
// and returning ok=false when the value is present but malformed
func parseOptionalInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}

	return &value, true
}
