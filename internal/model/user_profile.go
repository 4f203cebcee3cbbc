package model

type UserProfile struct {
	UserID      uint64  `gorm:"primaryKey"`
	DisplayName string  `gorm:"type:varchar(50);not null"`
	AvatarURL   string  `gorm:"type:varchar(512);column:avatar_url;default:'default_avatar.png'"`
	Bio         *string `gorm:"type:varchar(255);default:''"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
