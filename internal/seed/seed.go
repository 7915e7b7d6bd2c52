package seed

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"falcon-storefront/internal/domain"
	productrepo "falcon-storefront/internal/repository/product"
)

// Apply inserts catalog and admin seed data for manual testing. It is
// idempotent: products upsert by id, the admin account is created once.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := productrepo.NewPostgres(pool, log.New(io.Discard, "", 0))
	for _, p := range catalog() {
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	if err := ensureAdmin(ctx, pool, "admin@falcon.shop", "Admin123"); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	return nil
}

func ensureAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (first_name, last_name, email, password_hash, is_admin)
VALUES ('Store', 'Admin', $1, $2, true)
ON CONFLICT (lower(email)) DO NOTHING
`
	_, err = pool.Exec(ctx, q, email, string(hash))
	return err
}

func int64Ptr(v int64) *int64 { return &v }

func catalog() []domain.Product {
	return []domain.Product{
		{
			ID:            "1",
			Name:          "Premium Leather iPhone Case",
			Price:         1299,
			OriginalPrice: int64Ptr(1599),
			Image:         "https://images.pexels.com/photos/3831796/pexels-photo-3831796.jpeg?auto=compress&cs=tinysrgb&w=400",
			Description:   "Handcrafted premium leather case with perfect fit and wireless charging compatibility.",
			Category:      "accessories",
			Subcategory:   "phone-cases",
			Brand:         "Falcon Premium",
			Rating:        4.8,
			Reviews:       245,
			InStock:       true,
			Featured:      true,
			IsOnSale:      true,
			Specifications: map[string]string{
				"Material":          "Genuine Leather",
				"Compatibility":     "iPhone 14/15 Series",
				"Wireless Charging": "Yes",
				"Drop Protection":   "Up to 6 feet",
			},
			Colors: []string{"Black", "Brown", "Navy"},
			Sizes:  []string{"iPhone 14", "iPhone 14 Pro", "iPhone 15", "iPhone 15 Pro"},
		},
		{
			ID:            "2",
			Name:          "Rugged Armor Phone Case",
			Price:         899,
			OriginalPrice: int64Ptr(1199),
			Image:         "https://images.pexels.com/photos/4316843/pexels-photo-4316843.jpeg?auto=compress&cs=tinysrgb&w=400",
			Description:   "Military-grade protection with shock-absorbing corners and raised edges.",
			Category:      "accessories",
			Subcategory:   "phone-cases",
			Brand:         "Falcon Defense",
			Rating:        4.7,
			Reviews:       189,
			InStock:       true,
			IsNew:         true,
			IsOnSale:      true,
			Specifications: map[string]string{
				"Material":          "TPU + PC",
				"Drop Protection":   "Military Grade",
				"Screen Protection": "Raised Edges",
				"Port Access":       "Precise Cutouts",
			},
			Colors: []string{"Black", "Blue", "Red"},
			Sizes:  []string{"iPhone 13", "iPhone 14", "Samsung S23", "Samsung S24"},
		},
		{
			ID:          "3",
			Name:        "Clear Crystal Case",
			Price:       599,
			Image:       "https://images.pexels.com/photos/3825586/pexels-photo-3825586.jpeg?auto=compress&cs=tinysrgb&w=400",
			Description: "Ultra-clear transparent case that showcases your phone's original design.",
			Category:    "accessories",
			Subcategory: "phone-cases",
			Brand:       "Falcon Clear",
			Rating:      4.5,
			Reviews:     156,
			InStock:     true,
			Specifications: map[string]string{
				"Material":       "Premium TPU",
				"Transparency":   "99% Clear",
				"Anti-Yellowing": "Yes",
				"Thickness":      "1.2mm",
			},
			Colors: []string{"Clear", "Clear Blue", "Clear Pink"},
			Sizes:  []string{"iPhone 13", "iPhone 14", "iPhone 15"},
		},
		{
			ID:            "4",
			Name:          "Wallet Flip Case",
			Price:         1599,
			OriginalPrice: int64Ptr(1999),
			Image:         "https://images.pexels.com/photos/163945/car-vehicle-interior-vehicle-interior-163945.jpeg?auto=compress&cs=tinysrgb&w=400",
			Description:   "Premium leather wallet case with card slots and stand functionality.",
			Category:      "accessories",
			Subcategory:   "phone-cases",
			Brand:         "Falcon Wallet",
			Rating:        4.6,
			Reviews:       203,
			InStock:       true,
			Featured:      true,
			IsOnSale:      true,
			Specifications: map[string]string{
				"Material":         "PU Leather",
				"Card Slots":       "3 Slots",
				"Stand Function":   "Yes",
				"Magnetic Closure": "Yes",
			},
			Colors: []string{"Black", "Brown", "Navy", "Red"},
			Sizes:  []string{"iPhone 14", "iPhone 15", "Samsung S23"},
		},
		{
			ID:          "5",
			Name:        "Wireless Fast Charging Pad",
			Price:       899,
			Image:       "https://images.pexels.com/photos/4316843/pexels-photo-4316843.jpeg?auto=compress&cs=tinysrgb&w=400",
			Description: "Universal wireless charging pad with 15W fast charging for all Qi-enabled devices.",
			Category:    "accessories",
			Subcategory: "chargers",
			Brand:       "Falcon Tech",
			Rating:      4.6,
			Reviews:     189,
			InStock:     true,
			Featured:    true,
			IsNew:       true,
			Specifications: map[string]string{
				"Output":        "15W Fast Charging",
				"Compatibility": "All Qi-enabled devices",
				"Cable Length":  "1.5m USB-C",
				"Safety":        "Over-voltage & temperature protection",
			},
			Colors: []string{"Black", "White"},
		},
		{
			ID:            "6",
			Name:          "USB-C Fast Charger 65W",
			Price:         1299,
			OriginalPrice: int64Ptr(1599),
			Image:         "https://images.pexels.com/photos/3825586/pexels-photo-3825586.jpeg?auto=compress&cs=tinysrgb&w=400",
			Description:   "High-speed 65W USB-C charger compatible with phones, tablets, and laptops.",
			Category:      "accessories",
			Subcategory:   "chargers",
			Brand:         "Falcon Power",
			Rating:        4.8,
			Reviews:       267,
			InStock:       true,
			IsOnSale:      true,
			Specifications: map[string]string{
				"Power Output": "65W",
				"Ports":        "USB-C Power Delivery",
			},
			Colors: []string{"White", "Black"},
		},
	}
}
