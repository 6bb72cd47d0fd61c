package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velmarket/storefront-backend/pkg/config"
	"github.com/velmarket/storefront-backend/pkg/db"
	"github.com/velmarket/storefront-backend/pkg/db/models"
	"github.com/velmarket/storefront-backend/pkg/enums"
	"github.com/velmarket/storefront-backend/pkg/logger"
	"github.com/velmarket/storefront-backend/pkg/security"
)

// seedProduct is one catalog row in the sample data set.
type seedProduct struct {
	name        string
	slug        string
	description string
	price       string
	stock       int
	featured    bool
}

var seedCatalog = map[string][]seedProduct{
	"Electronics": {
		{"Wireless Earbuds", "wireless-earbuds", "Compact earbuds with active noise cancelling.", "79.99", 120, true},
		{"Smart Speaker", "smart-speaker", "Voice assistant speaker with room-filling sound.", "49.99", 60, false},
		{"4K Action Camera", "4k-action-camera", "Waterproof camera for sports footage.", "149.00", 25, true},
	},
	"Home & Kitchen": {
		{"French Press", "french-press", "Borosilicate glass press for rich coffee.", "24.50", 80, false},
		{"Chef Knife", "chef-knife", "High-carbon steel 8 inch chef knife.", "59.00", 40, true},
		{"Cast Iron Skillet", "cast-iron-skillet", "Pre-seasoned 12 inch skillet.", "34.99", 0, false},
	},
	"Books": {
		{"The Silent Orchard", "the-silent-orchard", "A slow-burn mystery set in rural Vermont.", "14.99", 200, false},
		{"Practical Gardening", "practical-gardening", "Season-by-season guide for small plots.", "21.00", 90, true},
	},
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to seed a production database")
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	if err := seed(ctx, dbClient.DB(), cfg); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "sample data seeded")
}

func seed(ctx context.Context, gdb *gorm.DB, cfg *config.Config) error {
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviewer, err := seedReviewer(tx, cfg)
		if err != nil {
			return err
		}

		for categoryName, items := range seedCatalog {
			category := models.Category{
				Name: categoryName,
				Slug: slugify(categoryName),
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoNothing: true,
			}).Create(&category).Error; err != nil {
				return fmt.Errorf("seeding category %q: %w", categoryName, err)
			}
			if err := tx.Where("slug = ?", category.Slug).First(&category).Error; err != nil {
				return fmt.Errorf("loading category %q: %w", categoryName, err)
			}

			for _, item := range items {
				price, err := decimal.NewFromString(item.price)
				if err != nil {
					return fmt.Errorf("parsing price for %q: %w", item.name, err)
				}
				status := enums.StockStatusInStock
				if item.stock == 0 {
					status = enums.StockStatusOutOfStock
				}
				product := models.Product{
					CategoryID:  category.ID,
					Name:        item.name,
					Slug:        item.slug,
					Description: item.description,
					Price:       price,
					Stock:       item.stock,
					StockStatus: status,
					IsActive:    true,
					IsFeatured:  item.featured,
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "slug"}},
					DoNothing: true,
				}).Create(&product).Error; err != nil {
					return fmt.Errorf("seeding product %q: %w", item.name, err)
				}
				if err := tx.Where("slug = ?", product.Slug).First(&product).Error; err != nil {
					return fmt.Errorf("loading product %q: %w", item.name, err)
				}

				if product.IsFeatured {
					review := models.ProductReview{
						ProductID: product.ID,
						UserID:    reviewer.ID,
						Rating:    5,
						Comment:   "Great value, would buy again.",
					}
					if err := tx.Where("product_id = ? AND user_id = ?", product.ID, reviewer.ID).
						FirstOrCreate(&review).Error; err != nil {
						return fmt.Errorf("seeding review for %q: %w", item.name, err)
					}
				}
			}
		}
		return nil
	})
}

func seedReviewer(tx *gorm.DB, cfg *config.Config) (*models.User, error) {
	const email = "sample.shopper@example.com"

	var existing models.User
	if err := tx.Where("email = ?", email).First(&existing).Error; err == nil {
		return &existing, nil
	}

	hash, err := security.HashPassword("sample-password-1", cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing sample password: %w", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Sample",
		LastName:     "Shopper",
		IsActive:     true,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("seeding sample user: %w", err)
	}
	return &user, nil
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	lastDash := true
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			lastDash = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			out = append(out, r)
			lastDash = false
		default:
			if !lastDash {
				out = append(out, '-')
				lastDash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
