package repository

import (
	"fmt"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortViewCount ProductSort = "view_count"
)

type ProductFilter struct {
	CategoryID     *uint
	CategorySlug   string
	Status         *model.ProductStatus
	Search         string
	MinPrice       *float64
	MaxPrice       *float64
	SortBy         ProductSort
	SortAscending  bool
	Limit          int
	Offset         int
	IncludeOptions bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindByIDs(ids []uint) ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	UpdateStock(id uint, delta int) error
	IncrementViewCount(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) baseQuery(includeOptions bool) *gorm.DB {
	query := r.db.Model(&model.Product{}).Preload("Category")
	if includeOptions {
		query = query.Preload("Options")
	}
	return query
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, logger.Fields{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}
	return nil
}

// FindWithFilter returns the matching page plus the unpaginated count.
func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", logger.Fields{
		"category_id":   filter.CategoryID,
		"category_slug": filter.CategorySlug,
		"search":        filter.Search,
		"sort_by":       filter.SortBy,
		"limit":         filter.Limit,
		"offset":        filter.Offset,
	})

	query := r.baseQuery(filter.IncludeOptions)

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Status != nil {
		query = query.Where("products.status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.description LIKE ?", like, like)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.total_rs >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.total_rs <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.total_rs " + direction)
	case ProductSortViewCount:
		query = query.Order("products.view_count " + direction).
			Order("products.created_at DESC")
	case ProductSortCreatedAt:
		fallthrough
	default:
		query = query.Order("products.created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, logger.Fields{
			"search": filter.Search,
		})
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery(true).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery(true).Where("products.slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs batch-loads products with their options. Missing IDs are
// simply absent from the result; the caller decides whether that is an
// error.
func (r *productRepository) FindByIDs(ids []uint) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []model.Product
	if err := r.baseQuery(true).Where("products.id IN ?", ids).Find(&products).Error; err != nil {
		logger.Error("Failed to batch-load products", err, logger.Fields{
			"count": len(ids),
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, logger.Fields{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&model.Product{}, id).Error
}

func (r *productRepository) UpdateStock(id uint, delta int) error {
	return r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta)).Error
}

func (r *productRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&model.Product{}).Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + ?", 1)).Error
}
