package app

import (
	"skillup_backend/docs"
	"skillup_backend/internal/config"
	"skillup_backend/internal/middleware"
	"skillup_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 课程与学习进度
		courses := authGroup.Group("/courses")
		{
			courses.GET("", c.course.ListCourses)
			courses.POST("", c.course.CreateCourse)
			courses.GET("/stats/dashboard", c.course.Dashboard)
			courses.GET("/:id", c.course.GetCourse)
			courses.PUT("/:id", c.course.UpdateCourse)
			courses.DELETE("/:id", c.course.DeleteCourse)
			courses.GET("/:id/progress", c.course.GetCourseProgress)
			courses.PUT("/:id/progress/:lessonId", c.course.UpdateLessonProgress)
			courses.POST("/:id/thumbnail", c.course.UploadThumbnail)
		}

		// 岗位搜索
		jobSearches := authGroup.Group("/job-searches")
		{
			jobSearches.GET("", c.jobSearch.ListSearches)
			jobSearches.POST("/search", c.jobSearch.Search)
			jobSearches.GET("/:id", c.jobSearch.GetSearch)
			jobSearches.DELETE("/:id", c.jobSearch.DeleteSearch)
		}

		// 个人档案
		authGroup.GET("/profile", c.user.GetProfile)
		authGroup.POST("/profile", c.user.CreateProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
	}
}
