package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// JobSearch 缓存一次外部岗位洞察查询的结果，
// 同一用户同一职位名（不区分大小写）只保留一条记录
// swagger:model JobSearch
type JobSearch struct {
	UUIDBase
	UserID        string    `gorm:"type:varchar(36);uniqueIndex:idx_user_title;index:idx_user_searched;not null" json:"userId"`
	JobTitle      string    `gorm:"size:255;not null" json:"jobTitle"`
	TitleKey      string    `gorm:"size:255;uniqueIndex:idx_user_title;not null" json:"-"`
	AvgSalary     string    `gorm:"size:64;not null" json:"avgSalary"` // 格式化字符串，如 "₹8.5 LPA"
	OpenPositions int       `gorm:"not null" json:"openPositions"`
	JobGrowth     float64   `gorm:"not null" json:"jobGrowth"` // 年增长率（%），可为负
	SearchedAt    time.Time `gorm:"index:idx_user_searched,sort:desc" json:"searchedAt"`
	LastAccessed  time.Time `json:"lastAccessed"`
}

func (JobSearch) TableName() string {
	return "job_searches"
}

// NormalizeJobTitle 唯一键使用的职位名归一化形式
func NormalizeJobTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// TitleKey 跟随 JobTitle 维护，展示用的原始大小写保持不变
func (j *JobSearch) BeforeSave(tx *gorm.DB) (err error) {
	j.TitleKey = NormalizeJobTitle(j.JobTitle)
	return
}
