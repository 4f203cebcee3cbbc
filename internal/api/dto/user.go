package dto

import "time"

// RegisterDTO 注册
type RegisterDTO struct {
	Username    string  `json:"username" binding:"required" validate:"min=3,max=50"`
	Password    string  `json:"password" binding:"required" validate:"min=6,max=72"`
	DisplayName string  `json:"display_name" validate:"omitempty,min=1,max=50"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=200"`
}

// CredentialDTO 登录凭证
type CredentialDTO struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UserDTO 用户
type UserDTO struct {
	UserID      *uint64    `json:"user_id,omitempty"`
	Username    *string    `json:"username,omitempty"`
	DisplayName *string    `json:"display_name,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	Bio         *string    `json:"bio,omitempty" validate:"omitempty,max=200"`
	Roles       []string   `json:"roles,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// ChangePasswordDTO 修改密码
type ChangePasswordDTO struct {
	OldPassword *string `json:"old_password" binding:"required" validate:"min=6,max=72"`
	NewPassword *string `json:"new_password" binding:"required" validate:"min=6,max=72"`
}
