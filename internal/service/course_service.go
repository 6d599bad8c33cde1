package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/util"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

type CreateCourseRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Topic       string           `json:"topic" binding:"required"`
	Lessons     []model.Lesson   `json:"lessons" binding:"required"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Tags        []string         `json:"tags"`
}

// UpdateCourseRequest 可更新字段的封闭集合，未出现的字段不动。
// 未知字段在绑定层被拒绝，不会悄悄合并进存储
type UpdateCourseRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Lessons     *[]model.Lesson   `json:"lessons"`
	Difficulty  *model.Difficulty `json:"difficulty"`
	Tags        *[]string         `json:"tags"`
	IsPublic    *bool             `json:"isPublic"`
}

func validateCourseFields(title, description, topic string, lessons []model.Lesson) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return util.NewValidationError("title", "course title is required")
	}
	if len(title) > 200 {
		return util.NewValidationError("title", "course title cannot exceed 200 characters")
	}
	if len(description) > 1000 {
		return util.NewValidationError("description", "description cannot exceed 1000 characters")
	}
	if strings.TrimSpace(topic) == "" {
		return util.NewValidationError("topic", "topic is required")
	}
	if len(lessons) == 0 {
		return util.NewValidationError("lessons", "at least one lesson is required")
	}
	for _, l := range lessons {
		if strings.TrimSpace(l.Title) == "" {
			return util.NewValidationError("lessons", "lesson title is required")
		}
	}
	return nil
}

func (s *CourseService) CreateCourse(userID string, req CreateCourseRequest) (*model.Course, error) {
	if err := validateCourseFields(req.Title, req.Description, req.Topic, req.Lessons); err != nil {
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = model.Beginner
	}
	if !difficulty.Valid() {
		return nil, util.NewValidationError("difficulty", "must be one of beginner, intermediate, advanced")
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	lessons := model.NormalizeLessons(req.Lessons)

	course := &model.Course{
		UserID:            userID,
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		Topic:             strings.TrimSpace(req.Topic),
		Difficulty:        difficulty,
		EstimatedDuration: model.EstimateDuration(lessons),
		Lessons:           lessons,
		Progress:          []model.LessonProgress{},
		Tags:              tags,
		LastAccessed:      time.Now(),
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	return course, nil
}

func (s *CourseService) GetCourse(userID, courseID string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(userID, courseID)
	if err != nil {
		return nil, asCourseNotFound(err)
	}

	// 单个读取时更新最后访问时间，列表查询不更新
	course.LastAccessed = time.Now()
	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}

	return course, nil
}

func (s *CourseService) ListCourses(userID string, filter repository.CourseFilter, page, limit int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.CourseRepo.FindByUser(userID, filter, page, limit)
}

func (s *CourseService) UpdateCourse(userID, courseID string, req UpdateCourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(userID, courseID)
	if err != nil {
		return nil, asCourseNotFound(err)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, util.NewValidationError("title", "course title is required")
		}
		if len(title) > 200 {
			return nil, util.NewValidationError("title", "course title cannot exceed 200 characters")
		}
		course.Title = title
	}
	if req.Description != nil {
		if len(*req.Description) > 1000 {
			return nil, util.NewValidationError("description", "description cannot exceed 1000 characters")
		}
		course.Description = *req.Description
	}
	if req.Lessons != nil {
		if len(*req.Lessons) == 0 {
			return nil, util.NewValidationError("lessons", "at least one lesson is required")
		}
		// 课时整体替换，重算总时长；进度列表保持原样，
		// 残留的进度记录在派生计算里被忽略
		lessons := model.NormalizeLessons(*req.Lessons)
		course.Lessons = lessons
		course.EstimatedDuration = model.EstimateDuration(lessons)
	}
	if req.Difficulty != nil {
		if !req.Difficulty.Valid() {
			return nil, util.NewValidationError("difficulty", "must be one of beginner, intermediate, advanced")
		}
		course.Difficulty = *req.Difficulty
	}
	if req.Tags != nil {
		course.Tags = *req.Tags
	}
	if req.IsPublic != nil {
		course.IsPublic = *req.IsPublic
	}

	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}

	return course, nil
}

func (s *CourseService) DeleteCourse(userID, courseID string) error {
	err := s.CourseRepo.Delete(userID, courseID)
	if err != nil {
		return asCourseNotFound(err)
	}
	return nil
}

// UpdateLessonProgress 更新单个课时的学习进度（upsert）。
// 课时不存在时返回NotFound且课程不被修改
func (s *CourseService) UpdateLessonProgress(userID, courseID, lessonID string, patch model.LessonProgressPatch) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(userID, courseID)
	if err != nil {
		return nil, asCourseNotFound(err)
	}

	if ok := course.UpsertLessonProgress(lessonID, patch, time.Now()); !ok {
		return nil, util.NewNotFoundError("lesson")
	}

	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}

	return course, nil
}

type LessonProgressView struct {
	LessonID string               `json:"lessonId"`
	Title    string               `json:"title"`
	Order    int                  `json:"order"`
	Progress model.LessonProgress `json:"progress"`
}

type CourseProgressView struct {
	CourseID           string               `json:"courseId"`
	ProgressPercentage int                  `json:"progressPercentage"`
	TotalTimeSpent     int                  `json:"totalTimeSpent"`
	IsCompleted        bool                 `json:"isCompleted"`
	CompletedAt        *time.Time           `json:"completedAt,omitempty"`
	Lessons            []LessonProgressView `json:"lessons"`
}

// CourseProgress 课程进度视图：每个课时附带对应的进度记录，
// 没有进度的课时给零值记录
func (s *CourseService) CourseProgress(userID, courseID string) (*CourseProgressView, error) {
	course, err := s.CourseRepo.FindByID(userID, courseID)
	if err != nil {
		return nil, asCourseNotFound(err)
	}

	lessons := make([]LessonProgressView, len(course.Lessons))
	for i, l := range course.Lessons {
		progress := model.LessonProgress{LessonID: l.ID}
		if p := course.ProgressFor(l.ID); p != nil {
			progress = *p
		}
		lessons[i] = LessonProgressView{
			LessonID: l.ID,
			Title:    l.Title,
			Order:    l.Order,
			Progress: progress,
		}
	}

	return &CourseProgressView{
		CourseID:           course.ID,
		ProgressPercentage: course.ProgressPercentage(),
		TotalTimeSpent:     course.TotalTimeSpent(),
		IsCompleted:        course.IsCompleted,
		CompletedAt:        course.CompletedAt,
		Lessons:            lessons,
	}, nil
}

type RecentCourse struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Topic              string    `json:"topic"`
	ProgressPercentage int       `json:"progressPercentage"`
	LastAccessed       time.Time `json:"lastAccessed"`
}

type DashboardStats struct {
	TotalCourses      int            `json:"totalCourses"`
	CompletedCourses  int            `json:"completedCourses"`
	InProgressCourses int            `json:"inProgressCourses"`
	TotalTimeSpent    int            `json:"totalTimeSpent"`
	RecentCourses     []RecentCourse `json:"recentCourses"`
}

// Dashboard 只读聚合，不落库
func (s *CourseService) Dashboard(userID string) (*DashboardStats, error) {
	courses, err := s.CourseRepo.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}

	completed := lo.CountBy(courses, func(c model.Course) bool {
		return c.IsCompleted
	})
	inProgress := lo.CountBy(courses, func(c model.Course) bool {
		return !c.IsCompleted && len(c.Progress) > 0
	})
	totalTime := lo.SumBy(courses, func(c model.Course) int {
		return c.TotalTimeSpent()
	})

	sort.Slice(courses, func(i, j int) bool {
		return courses[i].LastAccessed.After(courses[j].LastAccessed)
	})
	recent := lo.Map(lo.Slice(courses, 0, 5), func(c model.Course, _ int) RecentCourse {
		return RecentCourse{
			ID:                 c.ID,
			Title:              c.Title,
			Topic:              c.Topic,
			ProgressPercentage: c.ProgressPercentage(),
			LastAccessed:       c.LastAccessed,
		}
	})

	return &DashboardStats{
		TotalCourses:      len(courses),
		CompletedCourses:  completed,
		InProgressCourses: inProgress,
		TotalTimeSpent:    totalTime,
		RecentCourses:     recent,
	}, nil
}

// SetThumbnail 缩略图上传完成后记录访问地址
func (s *CourseService) SetThumbnail(userID, courseID, url string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(userID, courseID)
	if err != nil {
		return nil, asCourseNotFound(err)
	}

	course.Thumbnail = url
	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}

	return course, nil
}

func asCourseNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NewNotFoundError("course")
	}
	return err
}
