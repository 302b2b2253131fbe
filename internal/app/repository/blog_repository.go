package repository

import (
	"fmt"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"gorm.io/gorm"
)

type BlogFilter struct {
	PublishedOnly bool
	Search        string
	Tag           string
	Limit         int
	Offset        int
}

type BlogRepository interface {
	Create(blog *model.Blog) error
	FindWithFilter(filter BlogFilter) ([]model.Blog, int64, error)
	FindByID(id uint) (*model.Blog, error)
	FindBySlug(slug string) (*model.Blog, error)
	Update(blog *model.Blog) error
	Delete(id uint) error
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(blog *model.Blog) error {
	return r.db.Create(blog).Error
}

func (r *blogRepository) FindWithFilter(filter BlogFilter) ([]model.Blog, int64, error) {
	query := r.db.Model(&model.Blog{})

	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("title LIKE ? OR excerpt LIKE ?", like, like)
	}
	if filter.Tag != "" {
		// Tags are stored as a text array; a LIKE over the serialized value
		// works on both postgres and sqlite.
		query = query.Where("tags LIKE ?", fmt.Sprintf("%%%s%%", filter.Tag))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("published_at DESC, created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var blogs []model.Blog
	if err := query.Find(&blogs).Error; err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (r *blogRepository) FindByID(id uint) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.First(&blog, id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) FindBySlug(slug string) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.Where("slug = ?", slug).First(&blog).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) Update(blog *model.Blog) error {
	return r.db.Save(blog).Error
}

func (r *blogRepository) Delete(id uint) error {
	return r.db.Delete(&model.Blog{}, id).Error
}
