package handler

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/response"
	"Inkwell/internal/pkg/util"
	"Inkwell/internal/service"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	err := c.ShouldBind(&registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&registerDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	err := c.ShouldBind(&loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if loginDTO.Username == nil || loginDTO.Password == nil {
		response.Fail(c, response.BadRequest, service.ErrMissingLoginCredentials.Error())
		return
	}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]string{
		"token": token,
	})
}

func (s *UserHandler) Logout(c *gin.Context) {
	token := c.Request.Header.Get("Authorization")
	token = strings.Replace(token, "Bearer ", "", 1)
	err := s.userSvc.Logout(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	userDTO, err := s.userSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

// GetPublicProfile 按用户名查看公开主页，无需登录
func (s *UserHandler) GetPublicProfile(c *gin.Context) {
	username := c.Param("username")
	userDTO, err := s.userSvc.GetPublicProfile(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

func (s *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var userDTO dto.UserDTO
	err := c.ShouldBind(&userDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	// 只允许修改资料字段
	userDTO.UserID = nil
	userDTO.Username = nil
	userDTO.AvatarURL = nil
	userDTO.Roles = nil
	userDTO.CreatedAt = nil
	if err = util.ValidateDTO(&userDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.UpdateProfile(c.Request.Context(), userID, &userDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ChangePassword(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var changePasswordDTO dto.ChangePasswordDTO
	err := c.ShouldBind(&changePasswordDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&changePasswordDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.UpdatePassword(c.Request.Context(), userID, &changePasswordDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UpdateAvatar(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var req struct {
		ObjectName string `json:"object_name" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	err := s.userSvc.UpdateAvatar(c.Request.Context(), userID, req.ObjectName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) CancelUser(c *gin.Context) {
	userID := c.GetUint64("user_id")
	err := s.userSvc.CancelUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) BanUser(c *gin.Context) {
	operatorID := c.GetUint64("user_id")
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.userSvc.BanUser(c.Request.Context(), operatorID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UnBanUser(c *gin.Context) {
	operatorID := c.GetUint64("user_id")
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.userSvc.UnBanUser(c.Request.Context(), operatorID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GrantRole(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err = c.ShouldBind(&req); err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.GrantRole(c.Request.Context(), targetID, req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
