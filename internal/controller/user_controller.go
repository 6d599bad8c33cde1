package controller

import (
	"skillup_backend/internal/service"
	"skillup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary 获取个人档案
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// @Summary 创建个人档案
// @Description 每个身份只能有一份档案，重复创建返回409
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateProfileRequest true "档案内容"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/profile [post]
func (c *UserController) CreateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.CreateProfile(user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, profile)
}

// @Summary 更新个人档案
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateProfileRequest true "更新内容"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.UpdateProfile(user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}
