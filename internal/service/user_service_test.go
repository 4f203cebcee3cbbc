package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	users    map[uint64]*model.User
	profiles map[uint64]*model.UserProfile
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users:    make(map[uint64]*model.User),
		profiles: make(map[uint64]*model.UserProfile),
	}
}

func (f *memUserRepo) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	return f.users[id], nil
}
func (f *memUserRepo) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	return nil, nil
}
func (f *memUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}
func (f *memUserRepo) GetProfileById(ctx context.Context, id uint64) (*model.UserProfile, error) {
	return f.profiles[id], nil
}
func (f *memUserRepo) GetProfileByIds(ctx context.Context, ids []uint64) ([]*model.UserProfile, error) {
	return nil, nil
}
func (f *memUserRepo) CreateUser(ctx context.Context, user *model.User, profile *model.UserProfile, roles *[]*model.UserRole) error {
	f.users[user.ID] = user
	f.profiles[profile.UserID] = profile
	return nil
}
func (f *memUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}
func (f *memUserRepo) UpdateUserIsBan(ctx context.Context, id uint64, isBan bool) (int64, error) {
	return 1, nil
}
func (f *memUserRepo) UpdateProfile(ctx context.Context, profile *model.UserProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}
func (f *memUserRepo) DeleteUser(ctx context.Context, id uint64) error { return nil }

type noopRoleRepo struct{}

func (f *noopRoleRepo) GetRoles(ctx context.Context) ([]*model.Role, error) { return nil, nil }
func (f *noopRoleRepo) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return nil, nil
}
func (f *noopRoleRepo) GetUserRoles(ctx context.Context, userId uint64) ([]*model.Role, error) {
	return nil, nil
}
func (f *noopRoleRepo) AddRoleToUser(ctx context.Context, userId uint64, roleId uint64) error {
	return nil
}
func (f *noopRoleRepo) DeleteRoleFromUser(ctx context.Context, userId uint64, roleId uint64) error {
	return nil
}

func strPtr(s string) *string { return &s }

func TestUpdateProfileSyncsAuthorNameToIndex(t *testing.T) {
	userRepo := newMemUserRepo()
	userRepo.profiles[7] = &model.UserProfile{UserID: 7, DisplayName: "Ada"}
	esRepo := &fakeESRepo{}
	svc := NewUserService(userRepo, &noopRoleRepo{}, esRepo)
	ctx := context.Background()

	// 昵称变了，索引里的作者名跟着改
	require.NoError(t, svc.UpdateProfile(ctx, 7, &dto.UserDTO{DisplayName: strPtr("Ada L.")}))
	assert.Equal(t, "Ada L.", userRepo.profiles[7].DisplayName)
	assert.Equal(t, "Ada L.", esRepo.authorUpdates[7])

	// 只改签名不动昵称，不触发索引更新
	esRepo.authorUpdates = nil
	require.NoError(t, svc.UpdateProfile(ctx, 7, &dto.UserDTO{Bio: strPtr("hello")}))
	assert.Empty(t, esRepo.authorUpdates)

	err := svc.UpdateProfile(ctx, 404, &dto.UserDTO{DisplayName: strPtr("nobody")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
