package service

import (
	"errors"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryService interface {
	CreateCategory(category *model.Category) error
	GetCategories(activeOnly bool) ([]model.Category, error)
	GetCategoryByID(id uint) (*model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	UpdateCategory(category *model.Category) error
	DeleteCategory(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(category *model.Category) error {
	if err := s.categoryRepo.Create(category); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *categoryService) GetCategories(activeOnly bool) ([]model.Category, error) {
	return s.categoryRepo.FindAll(activeOnly)
}

func (s *categoryService) GetCategoryByID(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(category *model.Category) error {
	if _, err := s.GetCategoryByID(category.ID); err != nil {
		return err
	}
	if err := s.categoryRepo.Update(category); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *categoryService) DeleteCategory(id uint) error {
	if _, err := s.GetCategoryByID(id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(id)
}
