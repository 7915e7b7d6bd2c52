package domain

import "time"

type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Price          int64             `json:"price"`
	OriginalPrice  *int64            `json:"originalPrice,omitempty"`
	Image          string            `json:"image"`
	Images         []string          `json:"images,omitempty"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory"`
	Brand          string            `json:"brand"`
	Rating         float64           `json:"rating"`
	Reviews        int               `json:"reviews"`
	InStock        bool              `json:"inStock"`
	Featured       bool              `json:"featured"`
	IsNew          bool              `json:"isNew"`
	IsOnSale       bool              `json:"isOnSale"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Colors         []string          `json:"colors,omitempty"`
	Sizes          []string          `json:"sizes,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}
