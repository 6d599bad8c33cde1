package controller

import (
	"strconv"

	"skillup_backend/internal/service"
	"skillup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type JobSearchController struct {
	JobSearchService *service.JobSearchService
}

func NewJobSearchController(jobSearchService *service.JobSearchService) *JobSearchController {
	return &JobSearchController{JobSearchService: jobSearchService}
}

type jobSearchRequest struct {
	JobTitle string `json:"jobTitle"`
}

// @Summary 岗位搜索
// @Description 查询岗位洞察数据并记录搜索历史；同一职位名（忽略大小写）重复搜索会刷新已有记录
// @Tags 岗位
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body jobSearchRequest true "职位名"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/job-searches/search [post]
func (c *JobSearchController) Search(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req jobSearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	search, err := c.JobSearchService.Search(ctx.Request.Context(), user.UserID, req.JobTitle)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, search)
}

// @Summary 搜索历史
// @Tags 岗位
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/job-searches [get]
func (c *JobSearchController) ListSearches(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	searches, total, err := c.JobSearchService.List(user.UserID, page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  searches,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 搜索记录详情
// @Tags 岗位
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/job-searches/{id} [get]
func (c *JobSearchController) GetSearch(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	search, err := c.JobSearchService.Get(user.UserID, ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, search)
}

// @Summary 删除搜索记录
// @Tags 岗位
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/job-searches/{id} [delete]
func (c *JobSearchController) DeleteSearch(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.JobSearchService.Delete(user.UserID, ctx.Param("id")); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Job search deleted successfully"})
}
