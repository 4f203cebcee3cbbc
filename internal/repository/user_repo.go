package repository

import (
	"Inkwell/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetProfileById(ctx context.Context, id uint64) (*model.UserProfile, error)
	GetProfileByIds(ctx context.Context, ids []uint64) ([]*model.UserProfile, error)
	CreateUser(ctx context.Context, user *model.User, profile *model.UserProfile, roles *[]*model.UserRole) error
	UpdateUser(ctx context.Context, user *model.User) error
	UpdateUserIsBan(ctx context.Context, id uint64, isBan bool) (int64, error)
	UpdateProfile(ctx context.Context, profile *model.UserProfile) error
	DeleteUser(ctx context.Context, id uint64) error
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("UserRoles").
		First(user, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return user, nil
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0)
	result := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("UserRoles").
		Where("id IN ?", ids).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserRepoImpl) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Preload("Profile").
		Preload("UserRoles").
		Where("username = ?", username).
		First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return user, nil
}

func (s *UserRepoImpl) GetProfileById(ctx context.Context, id uint64) (*model.UserProfile, error) {
	profile := &model.UserProfile{}
	result := s.db.WithContext(ctx).
		Where("user_id = ?", id).
		First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return profile, nil
}

func (s *UserRepoImpl) GetProfileByIds(ctx context.Context, ids []uint64) ([]*model.UserProfile, error) {
	profiles := make([]*model.UserProfile, 0)
	result := s.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Find(&profiles)
	if result.Error != nil {
		return nil, result.Error
	}
	return profiles, nil
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User, profile *model.UserProfile, roles *[]*model.UserRole) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(user); result.Error != nil {
			return result.Error
		}

		profile.UserID = user.ID
		if result := tx.Create(profile); result.Error != nil {
			return result.Error
		}

		for _, role := range *roles {
			role.UserID = user.ID
		}
		if result := tx.Create(roles); result.Error != nil {
			return result.Error
		}

		return nil
	})
}

func (s *UserRepoImpl) UpdateUser(ctx context.Context, user *model.User) error {
	result := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(user)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (s *UserRepoImpl) UpdateUserIsBan(ctx context.Context, id uint64, isBan bool) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("is_ban", isBan)

	return result.RowsAffected, result.Error
}

func (s *UserRepoImpl) UpdateProfile(ctx context.Context, profile *model.UserProfile) error {
	result := s.db.WithContext(ctx).Model(&model.UserProfile{}).Where("user_id = ?", profile.UserID).Updates(profile)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// DeleteUser 注销用户：抹除登录凭证与资料，保留文章与评论的归属行
func (s *UserRepoImpl) DeleteUser(ctx context.Context, id uint64) error {
	usernamePlaceholder := fmt.Sprintf("deleted_%d_%d", id, time.Now().Unix())

	bio := ""
	profileUpdate := model.UserProfile{
		DisplayName: "已注销用户",
		Bio:         &bio,
		AvatarURL:   "default_avatar.png",
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userFields := []string{"is_delete", "username", "password"}
		userUpdate := map[string]interface{}{
			"is_delete": true,
			"username":  usernamePlaceholder,
			"password":  nil,
		}
		if result := tx.Model(&model.User{}).Where("id = ?", id).Select(userFields).Updates(userUpdate); result.Error != nil {
			return result.Error
		}

		profileFields := []string{"display_name", "bio", "avatar_url"}
		if result := tx.Model(&model.UserProfile{}).Where("user_id = ?", id).Select(profileFields).Updates(profileUpdate); result.Error != nil {
			return result.Error
		}

		if result := tx.Where("user_id = ?", id).Delete(&model.UserRole{}); result.Error != nil {
			return result.Error
		}

		return nil
	})
}
