package products

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/velmarket/storefront-backend/pkg/db/models"
	"github.com/velmarket/storefront-backend/pkg/enums"
	"github.com/velmarket/storefront-backend/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads an active product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads an active product with its category preloaded.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true).
		First(&product, "slug = ?", slug).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

type summaryRecord struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	Price        decimal.Decimal
	CategoryName string
	CategorySlug string
	Stock        int
	StockStatus  enums.StockStatus
	IsFeatured   bool
	CreatedAt    sql.NullTime
}

// ListSummaries serves one clamped catalog page. The caller never sees an
// out-of-range error; the requested page snaps into the valid range.
func (r *Repository) ListSummaries(ctx context.Context, input ListInput) (*ListResult, error) {
	base := r.browseQuery(ctx, input.Filters)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	meta := pagination.MetaFor(input.Pagination, total)

	qb := base.Session(&gorm.Session{}).
		Select(strings.Join([]string{
			"p.id",
			"p.name",
			"p.slug",
			"p.price",
			"p.stock",
			"p.stock_status",
			"p.is_featured",
			"p.created_at",
			"c.name AS category_name",
			"c.slug AS category_slug",
		}, ", ")).
		Offset(meta.Offset()).
		Limit(meta.PageSize)

	switch input.Filters.Sort {
	case enums.ProductSortPriceLow:
		qb = qb.Order("p.price ASC").Order("p.id ASC")
	case enums.ProductSortPriceHigh:
		qb = qb.Order("p.price DESC").Order("p.id ASC")
	case enums.ProductSortNewest:
		qb = qb.Order("p.created_at DESC").Order("p.id DESC")
	default:
		qb = qb.Order("p.name ASC").Order("p.id ASC")
	}

	var records []summaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, record.toSummary())
	}

	return &ListResult{Products: summaries, Meta: meta}, nil
}

func (r *Repository) browseQuery(ctx context.Context, filters ListFilters) *gorm.DB {
	qb := r.db.WithContext(ctx).
		Table("products p").
		Joins("JOIN categories c ON c.id = p.category_id").
		Where("p.is_active = ?", true)

	if slug := strings.TrimSpace(filters.CategorySlug); slug != "" {
		qb = qb.Where("c.slug = ?", slug)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(c.name) LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	return qb
}

// ListRelated returns up to limit active products sharing the category,
// excluding the product itself.
func (r *Repository) ListRelated(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]Summary, error) {
	var records []summaryRecord
	err := r.db.WithContext(ctx).
		Table("products p").
		Joins("JOIN categories c ON c.id = p.category_id").
		Select("p.id, p.name, p.slug, p.price, p.stock, p.stock_status, p.is_featured, p.created_at, c.name AS category_name, c.slug AS category_slug").
		Where("p.is_active = ?", true).
		Where("p.category_id = ?", categoryID).
		Where("p.id <> ?", excludeID).
		Order("p.created_at DESC").
		Limit(limit).
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}
	return toSummaries(records), nil
}

// ListFeatured returns up to limit active featured products, newest first.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]Summary, error) {
	var records []summaryRecord
	err := r.db.WithContext(ctx).
		Table("products p").
		Joins("JOIN categories c ON c.id = p.category_id").
		Select("p.id, p.name, p.slug, p.price, p.stock, p.stock_status, p.is_featured, p.created_at, c.name AS category_name, c.slug AS category_slug").
		Where("p.is_active = ?", true).
		Where("p.is_featured = ?", true).
		Order("p.created_at DESC").
		Limit(limit).
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}
	return toSummaries(records), nil
}

// ListReviews returns all reviews for the product, newest first, with the
// reviewer's display name joined in.
func (r *Repository) ListReviews(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	type reviewRecord struct {
		ID        uuid.UUID
		Rating    int
		Comment   string
		FirstName string
		LastName  string
		CreatedAt sql.NullTime
	}

	var records []reviewRecord
	err := r.db.WithContext(ctx).
		Table("product_reviews pr").
		Joins("JOIN users u ON u.id = pr.user_id").
		Select("pr.id, pr.rating, pr.comment, pr.created_at, u.first_name, u.last_name").
		Where("pr.product_id = ?", productID).
		Order("pr.created_at DESC").
		Scan(&records).
		Error
	if err != nil {
		return nil, err
	}

	reviews := make([]ReviewDTO, 0, len(records))
	for _, record := range records {
		review := ReviewDTO{
			ID:       record.ID,
			Rating:   record.Rating,
			Comment:  record.Comment,
			Reviewer: strings.TrimSpace(record.FirstName + " " + record.LastName),
		}
		if record.CreatedAt.Valid {
			review.CreatedAt = record.CreatedAt.Time
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// AverageRating computes the mean rating for the product. The pointer is
// nil when no reviews exist.
func (r *Repository) AverageRating(ctx context.Context, productID uuid.UUID) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&models.ProductReview{}).
		Where("product_id = ?", productID).
		Select("AVG(rating)").
		Scan(&avg).
		Error
	if err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	value := avg.Float64
	return &value, nil
}

// ListCategories returns all categories with their active product counts.
func (r *Repository) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	var rows []CategoryDTO
	err := r.db.WithContext(ctx).
		Table("categories c").
		Select("c.id, c.name, c.slug, c.description, COUNT(p.id) AS product_count").
		Joins("LEFT JOIN products p ON p.category_id = c.id AND p.is_active = ?", true).
		Group("c.id, c.name, c.slug, c.description").
		Order("c.name ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCategoryBySlug loads a single category.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r summaryRecord) toSummary() Summary {
	summary := Summary{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		Price:        r.Price,
		CategoryName: r.CategoryName,
		CategorySlug: r.CategorySlug,
		StockStatus:  r.StockStatus,
		InStock:      r.StockStatus == enums.StockStatusInStock && r.Stock > 0,
		IsFeatured:   r.IsFeatured,
	}
	if r.CreatedAt.Valid {
		summary.CreatedAt = r.CreatedAt.Time
	}
	return summary
}

func toSummaries(records []summaryRecord) []Summary {
	summaries := make([]Summary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, record.toSummary())
	}
	return summaries
}
