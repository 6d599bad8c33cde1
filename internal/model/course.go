package model

import (
	"math"
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// DefaultLessonDuration 课时未指定时长时的默认值（分钟）
const DefaultLessonDuration = 30

type Section struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Examples []string `json:"examples,omitempty"`
	Steps    []string `json:"steps,omitempty"`
	Code     string   `json:"code,omitempty"`
	Order    int      `json:"order"`
}

type Page struct {
	PageNumber int       `json:"pageNumber"`
	Sections   []Section `json:"sections"`
}

type Lesson struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Objectives []string   `json:"objectives,omitempty"`
	Pages      []Page     `json:"pages"`
	Duration   int        `json:"duration"` // 分钟
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Order      int        `json:"order"`
}

// LessonProgress 与 Lesson 平行存储，通过 LessonID 关联，
// 课程内容整体替换时不会连带清掉学习进度
type LessonProgress struct {
	LessonID     string     `json:"lessonId"`
	Completed    bool       `json:"completed"`
	CurrentPage  int        `json:"currentPage"`
	TimeSpent    int        `json:"timeSpent"` // 分钟，整值覆盖而非累加
	LastAccessed time.Time  `json:"lastAccessed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

type Course struct {
	UUIDBase
	UserID            string                              `gorm:"type:varchar(36);index:idx_course_user;not null" json:"userId"`
	Title             string                              `gorm:"size:200;not null" json:"title"`
	Description       string                              `gorm:"size:1000" json:"description"`
	Topic             string                              `gorm:"size:255;index;not null" json:"topic"`
	Difficulty        Difficulty                          `gorm:"size:20;index;default:beginner" json:"difficulty"`
	Thumbnail         string                              `gorm:"size:255;default:/placeholder.svg" json:"thumbnail"`
	EstimatedDuration int                                 `json:"estimatedDuration"` // 总时长（分钟），课时列表替换时重算
	Lessons           datatypes.JSONSlice[Lesson]         `json:"lessons"`
	Progress          datatypes.JSONSlice[LessonProgress] `json:"progress"`
	Tags              datatypes.JSONSlice[string]         `json:"tags"`
	IsPublic          bool                                `gorm:"default:false" json:"isPublic"`
	IsCompleted       bool                                `gorm:"default:false" json:"isCompleted"`
	CompletedAt       *time.Time                          `json:"completedAt,omitempty"`
	LastAccessed      time.Time                           `json:"lastAccessed"`
}

func (Course) TableName() string {
	return "courses"
}

type LessonProgressPatch struct {
	Completed   bool `json:"completed"`
	CurrentPage int  `json:"currentPage" binding:"min=0"`
	TimeSpent   int  `json:"timeSpent" binding:"min=0"`
}

// NormalizeLessons 为新装入的课时分配ID并补默认时长。
// 已带ID的课时（整体编辑回传）保留原ID，进度关联不丢。
func NormalizeLessons(lessons []Lesson) []Lesson {
	out := make([]Lesson, len(lessons))
	for i, l := range lessons {
		if l.ID == "" {
			l.ID = GenerateUUID()
		}
		if l.Duration <= 0 {
			l.Duration = DefaultLessonDuration
		}
		out[i] = l
	}
	return out
}

// EstimateDuration 课程总时长 = 各课时时长之和，缺省时长按30分钟计
func EstimateDuration(lessons []Lesson) int {
	return lo.SumBy(lessons, func(l Lesson) int {
		if l.Duration <= 0 {
			return DefaultLessonDuration
		}
		return l.Duration
	})
}

func (c *Course) FindLesson(lessonID string) (*Lesson, bool) {
	for i := range c.Lessons {
		if c.Lessons[i].ID == lessonID {
			return &c.Lessons[i], true
		}
	}
	return nil, false
}

// ProgressFor 返回指定课时的进度记录，不存在时返回nil
func (c *Course) ProgressFor(lessonID string) *LessonProgress {
	for i := range c.Progress {
		if c.Progress[i].LessonID == lessonID {
			return &c.Progress[i]
		}
	}
	return nil
}

// ProgressPercentage 完成进度百分比，四舍五入取整。
// 只统计仍存在的课时，被删课时的残留进度不参与计算。
func (c *Course) ProgressPercentage() int {
	if len(c.Lessons) == 0 {
		return 0
	}

	ids := lo.SliceToMap(c.Lessons, func(l Lesson) (string, struct{}) {
		return l.ID, struct{}{}
	})
	completed := lo.CountBy(c.Progress, func(p LessonProgress) bool {
		_, ok := ids[p.LessonID]
		return ok && p.Completed
	})

	return int(math.Round(float64(completed) / float64(len(c.Lessons)) * 100))
}

// TotalTimeSpent 所有进度记录的学习时长总和（分钟）
func (c *Course) TotalTimeSpent() int {
	return lo.SumBy([]LessonProgress(c.Progress), func(p LessonProgress) int {
		return p.TimeSpent
	})
}

// UpsertLessonProgress 更新或创建单个课时的进度记录。
// patch为整值覆盖；completed为真时重置completedAt。
// 课时不存在时返回false且不做任何修改。
func (c *Course) UpsertLessonProgress(lessonID string, patch LessonProgressPatch, now time.Time) bool {
	if _, ok := c.FindLesson(lessonID); !ok {
		return false
	}

	entry := c.ProgressFor(lessonID)
	if entry == nil {
		c.Progress = append(c.Progress, LessonProgress{LessonID: lessonID})
		entry = &c.Progress[len(c.Progress)-1]
	}

	entry.Completed = patch.Completed
	entry.CurrentPage = patch.CurrentPage
	entry.TimeSpent = patch.TimeSpent
	entry.LastAccessed = now
	if patch.Completed {
		t := now
		entry.CompletedAt = &t
	}

	// 全部课时完成时标记课程完成；该状态只升不降，
	// 之后把某课时改回未完成也不会回退
	if !c.IsCompleted && c.allLessonsCompleted() {
		c.IsCompleted = true
		t := now
		c.CompletedAt = &t
	}

	return true
}

func (c *Course) allLessonsCompleted() bool {
	if len(c.Lessons) == 0 {
		return false
	}
	for _, l := range c.Lessons {
		p := c.ProgressFor(l.ID)
		if p == nil || !p.Completed {
			return false
		}
	}
	return true
}
