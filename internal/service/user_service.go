package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"Inkwell/internal/pkg/consts"
	esrepo "Inkwell/internal/pkg/es"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/security"
	"Inkwell/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) error
	Login(ctx context.Context, dto *dto.CredentialDTO) (string, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetPublicProfile(ctx context.Context, username string) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, id uint64, dto *dto.UserDTO) error
	UpdatePassword(ctx context.Context, id uint64, dto *dto.ChangePasswordDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
	GrantRole(ctx context.Context, userID uint64, roleName string) error
	BanUser(ctx context.Context, operatorID, id uint64) error
	UnBanUser(ctx context.Context, operatorID, id uint64) error
	CancelUser(ctx context.Context, id uint64) error
}

type UserServiceImpl struct {
	userRepo      repository.UserRepo
	roleRepo      repository.RoleRepo
	articleESRepo esrepo.ArticleRepo
}

func NewUserService(userRepo repository.UserRepo, roleRepo repository.RoleRepo, articleESRepo esrepo.ArticleRepo) UserService {
	return &UserServiceImpl{
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		articleESRepo: articleESRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	findUser, err := s.userRepo.GetUserByUsername(ctx, regDTO.Username)
	if err != nil {
		return err
	}
	if findUser != nil {
		return ErrUserUsernameExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: regDTO.Username,
		Password: &passwordHash,
	}

	displayName := regDTO.DisplayName
	if displayName == "" {
		displayName = regDTO.Username
	}

	profile := &model.UserProfile{
		DisplayName: displayName,
		AvatarURL:   consts.DefaultAvatarURL,
		Bio:         regDTO.Bio,
	}

	userRole, err := s.roleRepo.GetRoleByName(ctx, consts.RoleUser)
	if err != nil {
		return err
	}
	if userRole == nil {
		return UnExpectedError
	}

	roles := []*model.UserRole{{RoleID: userRole.ID}}

	return s.userRepo.CreateUser(ctx, user, profile, &roles)
}

func (s *UserServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO) (string, error) {
	if credDTO.Username == nil || *credDTO.Username == "" {
		return "", ErrMissingLoginCredentials
	}
	user, err := s.userRepo.GetUserByUsername(ctx, *credDTO.Username)
	if err != nil {
		return "", err
	}
	if user == nil || user.IsDelete {
		return "", ErrUserNotFound
	}
	if user.IsBan {
		return "", ErrUserBan
	}
	if credDTO.Password == nil || user.Password == nil {
		return "", ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(*credDTO.Password, *user.Password); err != nil {
		return "", ErrPasswordIncorrect
	}

	roleNames, err := s.getRoleNamesForUser(ctx, user.ID)
	if err != nil {
		return "", err
	}
	token, err := security.GenerateToken(user.ID, roleNames)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Hour*24)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	roleNames, err := s.getRoleNamesForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.toUserDTO(user, roleNames), nil
}

func (s *UserServiceImpl) GetPublicProfile(ctx context.Context, username string) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDelete {
		return nil, ErrUserNotFound
	}
	return s.toUserDTO(user, nil), nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id uint64, userDTO *dto.UserDTO) error {
	profile, err := s.userRepo.GetProfileById(ctx, id)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrUserNotFound
	}
	oldName := profile.DisplayName
	err = copier.CopyWithOption(profile, userDTO, copier.Option{IgnoreEmpty: true})
	if err != nil {
		return err
	}
	profile.UserID = id
	if err = s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return err
	}

	// 昵称变更后同步到文章索引，失败不阻塞，等待下次变更修正
	if profile.DisplayName != oldName {
		if err := s.articleESRepo.UpdateAuthorDetail(ctx, id, profile.DisplayName); err != nil {
			log.WarnContext(ctx, "sync author display name to index failed", "userID", id, "err", err)
		}
	}
	return nil
}

func (s *UserServiceImpl) UpdatePassword(ctx context.Context, id uint64, pwDTO *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil || user.Password == nil {
		return ErrUserNotFound
	}
	if err = security.CheckPasswordHash(*pwDTO.OldPassword, *user.Password); err != nil {
		return ErrPasswordIncorrect
	}
	passwordHash, err := security.HashPassword(*pwDTO.NewPassword)
	if err != nil {
		return err
	}
	user.Password = &passwordHash
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	profile, err := s.userRepo.GetProfileById(ctx, id)
	if err != nil {
		return err
	}
	if profile == nil {
		return ErrUserNotFound
	}
	oldObject := profile.AvatarURL
	profile.AvatarURL = objectName
	if err = s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return err
	}

	// 替换成功后清理旧头像对象
	if oldObject != "" && oldObject != objectName {
		go func() {
			if err := minio.DeleteFile(context.Background(), oldObject); err != nil {
				log.Warn("delete old avatar failed", "object", oldObject, "err", err)
			}
		}()
	}
	return nil
}

func (s *UserServiceImpl) GrantRole(ctx context.Context, userID uint64, roleName string) error {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	role, err := s.roleRepo.GetRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrParamInvalid
	}
	for _, ur := range user.UserRoles {
		if ur.RoleID == role.ID {
			return ErrUserHasRole
		}
	}
	return s.roleRepo.AddRoleToUser(ctx, userID, role.ID)
}

func (s *UserServiceImpl) BanUser(ctx context.Context, operatorID, id uint64) error {
	if operatorID == id {
		return ErrUserBanSelf
	}
	roleNames, err := s.getRoleNamesForUser(ctx, id)
	if err != nil {
		return err
	}
	for _, name := range roleNames {
		if name == consts.RoleAdmin {
			return ErrUserBanAdmin
		}
	}
	return s.changeUserIsBanStatus(ctx, id, true)
}

func (s *UserServiceImpl) UnBanUser(ctx context.Context, operatorID, id uint64) error {
	return s.changeUserIsBanStatus(ctx, id, false)
}

func (s *UserServiceImpl) CancelUser(ctx context.Context, id uint64) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.DeleteUser(ctx, id)
}

func (s *UserServiceImpl) toUserDTO(user *model.User, roleNames []string) *dto.UserDTO {
	url := minio.GetPublicURL(user.Profile.AvatarURL)
	createdAt := user.CreatedAt
	return &dto.UserDTO{
		UserID:      &user.ID,
		Username:    &user.Username,
		DisplayName: &user.Profile.DisplayName,
		AvatarURL:   &url,
		Bio:         user.Profile.Bio,
		Roles:       roleNames,
		CreatedAt:   &createdAt,
	}
}

func (s *UserServiceImpl) getRoleNamesForUser(ctx context.Context, userID uint64) ([]string, error) {
	roles, err := s.roleRepo.GetUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, role.Name)
	}
	return roleNames, nil
}

func (s *UserServiceImpl) changeUserIsBanStatus(ctx context.Context, id uint64, isBan bool) error {
	rows, err := s.userRepo.UpdateUserIsBan(ctx, id, isBan)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
