package repository

import (
	"skillup_backend/internal/model"

	"gorm.io/gorm"
)

type JobSearchRepository struct {
	DB *gorm.DB
}

func NewJobSearchRepository(db *gorm.DB) *JobSearchRepository {
	return &JobSearchRepository{DB: db}
}

func (r *JobSearchRepository) FindByID(userID, id string) (*model.JobSearch, error) {
	var search model.JobSearch
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&search).Error
	if err != nil {
		return nil, err
	}
	return &search, nil
}

// FindByUserAndTitle 按归一化职位名查找，大小写不敏感
func (r *JobSearchRepository) FindByUserAndTitle(userID, title string) (*model.JobSearch, error) {
	var search model.JobSearch
	err := r.DB.Where("user_id = ? AND title_key = ?", userID, model.NormalizeJobTitle(title)).First(&search).Error
	if err != nil {
		return nil, err
	}
	return &search, nil
}

func (r *JobSearchRepository) FindByUser(userID string, page, limit int) ([]model.JobSearch, int64, error) {
	query := r.DB.Model(&model.JobSearch{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var searches []model.JobSearch
	err := query.
		Order("last_accessed DESC").
		Order("searched_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&searches).Error
	if err != nil {
		return nil, 0, err
	}

	return searches, total, nil
}

func (r *JobSearchRepository) Create(search *model.JobSearch) error {
	return r.DB.Create(search).Error
}

func (r *JobSearchRepository) Save(search *model.JobSearch) error {
	return r.DB.Save(search).Error
}

// Delete 物理删除。软删除的死行会继续占用(user_id, title_key)唯一索引，
// 导致删除后再搜索同一职位名时无法重建记录
func (r *JobSearchRepository) Delete(userID, id string) error {
	result := r.DB.Unscoped().Where("id = ? AND user_id = ?", id, userID).Delete(&model.JobSearch{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
