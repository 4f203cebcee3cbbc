package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categorySvc service.CategoryService
}

func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categorySvc: categorySvc,
	}
}

func (s *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := s.categorySvc.GetCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, categories)
}

func (s *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	category, err := s.categorySvc.GetCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

// CreateCategory 仅管理员
func (s *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	category, err := s.categorySvc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category)
}

// UpdateCategory 仅管理员
func (s *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("category_id"), 10, 64)
	if err != nil || categoryID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.CategoryCreateDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	err = s.categorySvc.UpdateCategory(c.Request.Context(), categoryID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteCategory 仅管理员，分类下存在文章时拒绝
func (s *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("category_id"), 10, 64)
	if err != nil || categoryID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	err = s.categorySvc.DeleteCategory(c.Request.Context(), categoryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
