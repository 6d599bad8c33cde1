package controller

import (
	"path/filepath"
	"strconv"

	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/service"
	"skillup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService  *service.CourseService
	StorageService *service.StorageService
}

func NewCourseController(courseService *service.CourseService, storageService *service.StorageService) *CourseController {
	return &CourseController{
		CourseService:  courseService,
		StorageService: storageService,
	}
}

// @Summary 课程列表
// @Description 获取当前用户的课程，支持按难度/主题/完成状态过滤
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param difficulty query string false "难度" Enums(beginner, intermediate, advanced)
// @Param topic query string false "主题（子串匹配，不区分大小写）"
// @Param completed query bool false "是否已完成"
// @Success 200 {object} util.Response
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	filter := repository.CourseFilter{
		Difficulty: ctx.Query("difficulty"),
		Topic:      ctx.Query("topic"),
	}
	if completedStr := ctx.Query("completed"); completedStr != "" {
		completed := completedStr == "true"
		filter.Completed = &completed
	}

	courses, total, err := c.CourseService.ListCourses(user.UserID, filter, page, limit)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 课程详情
// @Description 获取单个课程并更新最后访问时间
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	course, err := c.CourseService.GetCourse(user.UserID, ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary 创建课程
// @Description 创建新课程，至少包含一个课时；总时长按课时时长求和
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateCourseRequest true "课程内容"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(user.UserID, req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// @Summary 更新课程
// @Description 部分更新，只动请求里出现的字段；课时整体替换时重算总时长
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Param request body service.UpdateCourseRequest true "更新内容"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(user.UserID, ctx.Param("id"), req)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// @Summary 删除课程
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CourseService.DeleteCourse(user.UserID, ctx.Param("id")); err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Course deleted successfully"})
}

// @Summary 更新课时进度
// @Description 对单个课时的进度做upsert；全部课时完成后课程标记为已完成
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Param lessonId path string true "课时ID"
// @Param request body model.LessonProgressPatch true "进度"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/progress/{lessonId} [put]
func (c *CourseController) UpdateLessonProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var patch model.LessonProgressPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateLessonProgress(user.UserID, ctx.Param("id"), ctx.Param("lessonId"), patch)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"progressPercentage": course.ProgressPercentage(),
		"isCompleted":        course.IsCompleted,
	})
}

// @Summary 课程进度
// @Description 获取课程的整体进度和每个课时的进度明细
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/progress [get]
func (c *CourseController) GetCourseProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.CourseService.CourseProgress(user.UserID, ctx.Param("id"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// @Summary 学习统计
// @Description 仪表盘聚合：课程总数/完成数/进行中数、累计学习时长、最近访问
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/courses/stats/dashboard [get]
func (c *CourseController) Dashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.CourseService.Dashboard(user.UserID)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// @Summary 上传课程缩略图
// @Tags 课程
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/courses/{id}/thumbnail [post]
func (c *CourseController) UploadThumbnail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := "thumbnails/" + model.GenerateUUID() + filepath.Ext(fileHeader.Filename)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	course, err := c.CourseService.SetThumbnail(user.UserID, ctx.Param("id"), url)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"thumbnail": course.Thumbnail})
}
