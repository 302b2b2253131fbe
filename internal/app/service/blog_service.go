package service

import (
	"errors"
	"time"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"gorm.io/gorm"
)

var ErrBlogNotFound = errors.New("blog post not found")

type BlogService interface {
	CreateBlog(blog *model.Blog) error
	GetBlogs(filter repository.BlogFilter) ([]model.Blog, int64, error)
	GetBlogByID(id uint) (*model.Blog, error)
	GetBlogBySlug(slug string) (*model.Blog, error)
	UpdateBlog(blog *model.Blog) error
	DeleteBlog(id uint) error
}

type blogService struct {
	blogRepo repository.BlogRepository
}

func NewBlogService(blogRepo repository.BlogRepository) BlogService {
	return &blogService{blogRepo: blogRepo}
}

func (s *blogService) CreateBlog(blog *model.Blog) error {
	if blog.Published && blog.PublishedAt == nil {
		now := time.Now()
		blog.PublishedAt = &now
	}
	if err := s.blogRepo.Create(blog); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *blogService) GetBlogs(filter repository.BlogFilter) ([]model.Blog, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 50 {
		filter.Limit = 10
	}
	return s.blogRepo.FindWithFilter(filter)
}

func (s *blogService) GetBlogByID(id uint) (*model.Blog, error) {
	blog, err := s.blogRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return blog, nil
}

func (s *blogService) GetBlogBySlug(slug string) (*model.Blog, error) {
	blog, err := s.blogRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return blog, nil
}

func (s *blogService) UpdateBlog(blog *model.Blog) error {
	existing, err := s.GetBlogByID(blog.ID)
	if err != nil {
		return err
	}
	// First publish stamps the publication time.
	if blog.Published && !existing.Published && blog.PublishedAt == nil {
		now := time.Now()
		blog.PublishedAt = &now
	}
	if err := s.blogRepo.Update(blog); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *blogService) DeleteBlog(id uint) error {
	if _, err := s.GetBlogByID(id); err != nil {
		return err
	}
	return s.blogRepo.Delete(id)
}
