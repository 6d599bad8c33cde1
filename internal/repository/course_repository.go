package repository

import (
	"strings"

	"skillup_backend/internal/model"

	"gorm.io/gorm"
)

// CourseFilter 课程列表的过滤条件，全部为透传查询约束
type CourseFilter struct {
	Difficulty string
	Topic      string // 不区分大小写的子串匹配
	Completed  *bool
}

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// FindByID 归属校验并入查询条件，他人的课程等同于不存在
func (r *CourseRepository) FindByID(userID, id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindByUser(userID string, filter CourseFilter, page, limit int) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{}).Where("user_id = ?", userID)

	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Topic != "" {
		query = query.Where("LOWER(topic) LIKE ?", "%"+strings.ToLower(filter.Topic)+"%")
	}
	if filter.Completed != nil {
		query = query.Where("is_completed = ?", *filter.Completed)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := query.
		Order("last_accessed DESC").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// FindAllByUser 仪表盘聚合用，不分页
func (r *CourseRepository) FindAllByUser(userID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("user_id = ?", userID).Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Save(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(userID, id string) error {
	result := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
