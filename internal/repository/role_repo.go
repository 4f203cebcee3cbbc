package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type RoleRepo interface {
	GetRoles(ctx context.Context) ([]*model.Role, error)
	GetRoleByName(ctx context.Context, name string) (*model.Role, error)
	GetUserRoles(ctx context.Context, userId uint64) ([]*model.Role, error)
	AddRoleToUser(ctx context.Context, userId uint64, roleId uint64) error
	DeleteRoleFromUser(ctx context.Context, userId uint64, roleId uint64) error
}

type RoleRepoImpl struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepo {
	return &RoleRepoImpl{db: db}
}

func (s *RoleRepoImpl) GetRoles(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	err := s.db.WithContext(ctx).Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *RoleRepoImpl) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	role := &model.Role{}
	result := s.db.WithContext(ctx).Where("name = ?", name).First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return role, nil
}

func (s *RoleRepoImpl) GetUserRoles(ctx context.Context, userId uint64) ([]*model.Role, error) {
	var roles []*model.Role
	err := s.db.WithContext(ctx).
		Table("roles").
		Select("roles.*").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userId).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *RoleRepoImpl) AddRoleToUser(ctx context.Context, userId uint64, roleId uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Create(&model.UserRole{
			UserID: userId,
			RoleID: roleId,
		}).Error
}

func (s *RoleRepoImpl) DeleteRoleFromUser(ctx context.Context, userId uint64, roleId uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ?", userId).
		Where("role_id = ?", roleId).
		Delete(&model.UserRole{}).Error
}
