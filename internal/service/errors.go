package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserBan                 = errors.New("用户已被封禁")
	ErrUserBanSelf             = errors.New("不能封禁自己")
	ErrUserBanAdmin            = errors.New("不能封禁管理员")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrFileNotExist            = errors.New("文件不存在")
	ErrUserHasRole             = errors.New("用户已拥有此角色")
	ErrArticleNotFound         = errors.New("文章不存在")
	ErrSlugExist               = errors.New("slug已被占用")
	ErrStatusTransition        = errors.New("当前状态不允许此操作")
	ErrArticleNotVisible       = errors.New("文章不可见")
	ErrCategoryNotFound        = errors.New("分类不存在")
	ErrCategoryExist           = errors.New("分类已存在")
	ErrCategoryNotEmpty        = errors.New("分类下仍有文章")
	ErrCommentNotFound         = errors.New("评论不存在")
	ErrCommentParentInvalid    = errors.New("只能回复本文下的顶级评论")
	ErrCommentNotApproved      = errors.New("评论尚未过审")
	ErrActionDuplicate         = errors.New("重复操作")
	ErrNotificationNotFound    = errors.New("通知不存在")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserBan:                 Unauthorized,
	ErrUserBanSelf:             Unauthorized,
	ErrUserBanAdmin:            Unauthorized,
	ErrUserUsernameExist:       BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrFileNotSupported:        BadRequest,
	ErrFileNotExist:            NotFound,
	ErrUserHasRole:             BadRequest,
	ErrArticleNotFound:         NotFound,
	ErrSlugExist:               BadRequest,
	ErrStatusTransition:        BadRequest,
	ErrArticleNotVisible:       NotFound,
	ErrCategoryNotFound:        NotFound,
	ErrCategoryExist:           BadRequest,
	ErrCategoryNotEmpty:        BadRequest,
	ErrCommentNotFound:         NotFound,
	ErrCommentParentInvalid:    BadRequest,
	ErrCommentNotApproved:      BadRequest,
	ErrActionDuplicate:         BadRequest,
	ErrNotificationNotFound:    NotFound,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
