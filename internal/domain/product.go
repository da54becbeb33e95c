package domain

import (
	"time"
)

// Product represents an item in the storefront catalog. Brand and
// ShortDescription are optional; an empty string means the field is absent.
type Product struct {
	ID               int        `json:"id" db:"id"`
	Slug             string     `json:"slug" db:"slug"`
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	ShortDescription string     `json:"short_description,omitempty" db:"short_description"`
	Category         string     `json:"category" db:"category"`
	Brand            string     `json:"brand,omitempty" db:"brand"`
	Tags             []string   `json:"tags" db:"tags"`
	Price            int        `json:"price" db:"price"`
	ImageURL         string     `json:"image_url" db:"image_url"`
	Stock            int        `json:"stock" db:"stock"`
	IsFlashSale      bool       `json:"is_flash_sale" db:"is_flash_sale"`
	FlashSalePrice   *int       `json:"flash_sale_price,omitempty" db:"flash_sale_price"`
	FlashSaleEnds    *time.Time `json:"flash_sale_ends,omitempty" db:"flash_sale_ends"`
	FlashSaleText    string     `json:"flash_sale_text,omitempty" db:"flash_sale_text"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
}

// SearchFilters carries the optional criteria of one catalog search. Every
// field is independent; the zero value of a field means no constraint from
// that dimension. Price bounds are pointers because 0 is a valid bound.
type SearchFilters struct {
	Query    string
	Category string
	Brand    string
	Tags     []string
	MinPrice *int
	MaxPrice *int
}
