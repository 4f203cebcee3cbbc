package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/repository"
	"context"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req *dto.CategoryCreateDTO) (*dto.CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uint64, req *dto.CategoryCreateDTO) error
	DeleteCategory(ctx context.Context, id uint64) error
	GetCategories(ctx context.Context) ([]*dto.CategoryDTO, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*dto.CategoryDTO, error)
}

type CategoryServiceImpl struct {
	categoryRepo repository.CategoryRepo
}

func NewCategoryService(categoryRepo repository.CategoryRepo) CategoryService {
	return &CategoryServiceImpl{categoryRepo: categoryRepo}
}

func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, req *dto.CategoryCreateDTO) (*dto.CategoryDTO, error) {
	slug := util.Slugify(req.Name)
	if slug == "" {
		return nil, ErrParamInvalid
	}

	exist, err := s.categoryRepo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrCategoryExist
	}

	category := &model.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
	}
	if err = s.categoryRepo.CreateCategory(ctx, category); err != nil {
		if isDuplicateError(err) {
			return nil, ErrCategoryExist
		}
		return nil, err
	}
	return s.toCategoryDTO(ctx, category), nil
}

func (s *CategoryServiceImpl) UpdateCategory(ctx context.Context, id uint64, req *dto.CategoryCreateDTO) error {
	category, err := s.categoryRepo.GetCategoryById(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	category.Name = req.Name
	if req.Description != nil {
		category.Description = req.Description
	}
	if err = s.categoryRepo.UpdateCategory(ctx, category); err != nil {
		if isDuplicateError(err) {
			return ErrCategoryExist
		}
		return err
	}
	return nil
}

func (s *CategoryServiceImpl) DeleteCategory(ctx context.Context, id uint64) error {
	category, err := s.categoryRepo.GetCategoryById(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	count, err := s.categoryRepo.CountArticlesByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.categoryRepo.DeleteCategory(ctx, id)
}

func (s *CategoryServiceImpl) GetCategories(ctx context.Context) ([]*dto.CategoryDTO, error) {
	categories, err := s.categoryRepo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.CategoryDTO, 0, len(categories))
	for _, category := range categories {
		res = append(res, s.toCategoryDTO(ctx, category))
	}
	return res, nil
}

func (s *CategoryServiceImpl) GetCategoryBySlug(ctx context.Context, slug string) (*dto.CategoryDTO, error) {
	category, err := s.categoryRepo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return s.toCategoryDTO(ctx, category), nil
}

func (s *CategoryServiceImpl) toCategoryDTO(ctx context.Context, category *model.Category) *dto.CategoryDTO {
	count, _ := s.categoryRepo.CountArticlesByCategory(ctx, category.ID)
	return &dto.CategoryDTO{
		ID:           category.ID,
		Name:         category.Name,
		Slug:         category.Slug,
		Description:  category.Description,
		ArticleCount: count,
	}
}
