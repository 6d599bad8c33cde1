package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lessonWith(id string, duration int) Lesson {
	return Lesson{ID: id, Title: "Lesson " + id, Duration: duration}
}

func TestNormalizeLessons(t *testing.T) {
	lessons := NormalizeLessons([]Lesson{
		{Title: "Intro"},
		{ID: "keep-me", Title: "Deep dive", Duration: 45},
	})

	require.Len(t, lessons, 2)
	assert.NotEmpty(t, lessons[0].ID)
	assert.Equal(t, DefaultLessonDuration, lessons[0].Duration)
	assert.Equal(t, "keep-me", lessons[1].ID)
	assert.Equal(t, 45, lessons[1].Duration)
}

func TestEstimateDuration(t *testing.T) {
	lessons := []Lesson{
		lessonWith("a", 45),
		lessonWith("b", 0), // 缺省按30分钟计
		lessonWith("c", 20),
	}
	assert.Equal(t, 95, EstimateDuration(lessons))

	assert.Equal(t, 0, EstimateDuration(nil))
}

func TestProgressPercentage(t *testing.T) {
	tests := []struct {
		name     string
		lessons  []Lesson
		progress []LessonProgress
		expected int
	}{
		{
			name:     "no lessons",
			expected: 0,
		},
		{
			name:     "no progress",
			lessons:  []Lesson{lessonWith("a", 30)},
			expected: 0,
		},
		{
			name:     "all completed",
			lessons:  []Lesson{lessonWith("a", 30)},
			progress: []LessonProgress{{LessonID: "a", Completed: true}},
			expected: 100,
		},
		{
			name:     "one of three rounds down",
			lessons:  []Lesson{lessonWith("a", 30), lessonWith("b", 30), lessonWith("c", 30)},
			progress: []LessonProgress{{LessonID: "a", Completed: true}},
			expected: 33,
		},
		{
			name:    "two of three rounds up",
			lessons: []Lesson{lessonWith("a", 30), lessonWith("b", 30), lessonWith("c", 30)},
			progress: []LessonProgress{
				{LessonID: "a", Completed: true},
				{LessonID: "b", Completed: true},
			},
			expected: 67,
		},
		{
			name:    "stale progress for removed lesson is ignored",
			lessons: []Lesson{lessonWith("a", 30), lessonWith("b", 30)},
			progress: []LessonProgress{
				{LessonID: "a", Completed: true},
				{LessonID: "gone", Completed: true},
			},
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Course{Lessons: tt.lessons, Progress: tt.progress}
			assert.Equal(t, tt.expected, c.ProgressPercentage())
		})
	}
}

func TestTotalTimeSpent(t *testing.T) {
	c := &Course{
		Progress: []LessonProgress{
			{LessonID: "a", TimeSpent: 25},
			{LessonID: "b", TimeSpent: 40},
			{LessonID: "gone", TimeSpent: 10}, // 残留记录也计入总时长
		},
	}
	assert.Equal(t, 75, c.TotalTimeSpent())
}

func TestUpsertLessonProgressCreatesThenUpdates(t *testing.T) {
	now := time.Now()
	c := &Course{Lessons: []Lesson{lessonWith("a", 30), lessonWith("b", 30)}}

	ok := c.UpsertLessonProgress("a", LessonProgressPatch{Completed: false, CurrentPage: 2, TimeSpent: 15}, now)
	require.True(t, ok)
	require.Len(t, c.Progress, 1)
	assert.Equal(t, 2, c.Progress[0].CurrentPage)
	assert.Equal(t, 15, c.Progress[0].TimeSpent)
	assert.Nil(t, c.Progress[0].CompletedAt)

	// 同一课时再次更新：覆盖而不是追加
	later := now.Add(time.Hour)
	ok = c.UpsertLessonProgress("a", LessonProgressPatch{Completed: true, CurrentPage: 5, TimeSpent: 40}, later)
	require.True(t, ok)
	require.Len(t, c.Progress, 1)
	assert.Equal(t, 5, c.Progress[0].CurrentPage)
	assert.Equal(t, 40, c.Progress[0].TimeSpent) // 整值覆盖，不是 15+40
	assert.True(t, c.Progress[0].Completed)
	require.NotNil(t, c.Progress[0].CompletedAt)
	assert.Equal(t, later, *c.Progress[0].CompletedAt)
}

func TestUpsertLessonProgressUnknownLesson(t *testing.T) {
	c := &Course{Lessons: []Lesson{lessonWith("a", 30)}}

	ok := c.UpsertLessonProgress("missing", LessonProgressPatch{Completed: true}, time.Now())
	assert.False(t, ok)
	assert.Empty(t, c.Progress)
	assert.False(t, c.IsCompleted)
}

func TestCourseCompletionIsOneWay(t *testing.T) {
	now := time.Now()
	c := &Course{Lessons: []Lesson{lessonWith("a", 30), lessonWith("b", 30)}}

	c.UpsertLessonProgress("a", LessonProgressPatch{Completed: true}, now)
	assert.False(t, c.IsCompleted)

	c.UpsertLessonProgress("b", LessonProgressPatch{Completed: true}, now)
	assert.True(t, c.IsCompleted)
	require.NotNil(t, c.CompletedAt)

	completedAt := *c.CompletedAt

	// 把某课时改回未完成：百分比下降，但课程完成状态不回退
	c.UpsertLessonProgress("a", LessonProgressPatch{Completed: false}, now.Add(time.Minute))
	assert.Equal(t, 50, c.ProgressPercentage())
	assert.True(t, c.IsCompleted)
	assert.Equal(t, completedAt, *c.CompletedAt)
}

func TestEmptyCourseNeverCompletes(t *testing.T) {
	c := &Course{}
	assert.False(t, c.allLessonsCompleted())
}
