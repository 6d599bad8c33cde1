package service

import (
	"context"
	"testing"

	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubInsightProvider 固定返回预设结果的洞察服务替身
type stubInsightProvider struct {
	result *InsightResult
	err    error
	calls  int
}

func (s *stubInsightProvider) CareerInsights(ctx context.Context, jobTitle string) (*InsightResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	r := *s.result
	return &r, nil
}

func newJobSearchService(t *testing.T, stub *stubInsightProvider) (*JobSearchService, *repository.JobSearchRepository) {
	t.Helper()
	repo := repository.NewJobSearchRepository(newTestDB(t))
	return NewJobSearchService(repo, stub, nil, 0), repo
}

func TestSearchCreatesRecord(t *testing.T) {
	stub := &stubInsightProvider{result: &InsightResult{
		AvgSalary:     "₹8.5 LPA",
		OpenPositions: 1200,
		JobGrowth:     12.5,
	}}
	s, _ := newJobSearchService(t, stub)

	record, err := s.Search(context.Background(), "user-1", "Data Scientist")
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "Data Scientist", record.JobTitle) // 上游无规范名时保留调用方写法
	assert.Equal(t, "₹8.5 LPA", record.AvgSalary)
	assert.Equal(t, 1200, record.OpenPositions)
	assert.Equal(t, 12.5, record.JobGrowth)
	assert.False(t, record.SearchedAt.IsZero())
}

func TestSearchCaseInsensitiveUpsert(t *testing.T) {
	stub := &stubInsightProvider{result: &InsightResult{
		AvgSalary:     "₹8.5 LPA",
		OpenPositions: 1200,
		JobGrowth:     12.5,
	}}
	s, _ := newJobSearchService(t, stub)

	first, err := s.Search(context.Background(), "user-1", "Data Scientist")
	require.NoError(t, err)

	// 第二次搜索换了大小写和数据
	stub.result = &InsightResult{AvgSalary: "₹9.0 LPA", OpenPositions: 1300, JobGrowth: 13.0}
	second, err := s.Search(context.Background(), "user-1", "  data scientist ")
	require.NoError(t, err)

	// 同一条记录，数值取最后一次
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "₹9.0 LPA", second.AvgSalary)
	assert.Equal(t, 1300, second.OpenPositions)
	assert.Equal(t, 13.0, second.JobGrowth)
	// 原记录的大小写保留
	assert.Equal(t, "Data Scientist", second.JobTitle)

	_, total, err := s.List("user-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestSearchCanonicalTitleFromUpstream(t *testing.T) {
	stub := &stubInsightProvider{result: &InsightResult{
		JobTitle:      "Data Scientist",
		AvgSalary:     "₹8.5 LPA",
		OpenPositions: 1200,
		JobGrowth:     12.5,
	}}
	s, _ := newJobSearchService(t, stub)

	record, err := s.Search(context.Background(), "user-1", "data scientist")
	require.NoError(t, err)
	assert.Equal(t, "Data Scientist", record.JobTitle)
}

func TestSearchScopedPerUser(t *testing.T) {
	stub := &stubInsightProvider{result: &InsightResult{
		AvgSalary:     "₹8.5 LPA",
		OpenPositions: 1200,
		JobGrowth:     12.5,
	}}
	s, _ := newJobSearchService(t, stub)

	_, err := s.Search(context.Background(), "user-1", "Data Scientist")
	require.NoError(t, err)
	_, err = s.Search(context.Background(), "user-2", "Data Scientist")
	require.NoError(t, err)

	_, total, err := s.List("user-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestSearchUpstreamFailurePersistsNothing(t *testing.T) {
	stub := &stubInsightProvider{err: util.NewUpstreamError("incomplete insight data", map[string]interface{}{
		"avgSalary": "₹8.5 LPA",
	})}
	s, _ := newJobSearchService(t, stub)

	_, err := s.Search(context.Background(), "user-1", "Data Scientist")
	upstream, ok := util.AsUpstream(err)
	require.True(t, ok)
	assert.Equal(t, "₹8.5 LPA", upstream.Partial["avgSalary"])

	_, total, err := s.List("user-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestSearchEmptyTitle(t *testing.T) {
	stub := &stubInsightProvider{}
	s, _ := newJobSearchService(t, stub)

	_, err := s.Search(context.Background(), "user-1", "   ")
	assert.True(t, util.IsValidation(err))
	assert.Zero(t, stub.calls)
}

func TestGetAndDeleteOwnership(t *testing.T) {
	stub := &stubInsightProvider{result: &InsightResult{
		AvgSalary:     "₹8.5 LPA",
		OpenPositions: 1200,
		JobGrowth:     12.5,
	}}
	s, _ := newJobSearchService(t, stub)

	record, err := s.Search(context.Background(), "user-1", "Data Scientist")
	require.NoError(t, err)

	_, err = s.Get("user-2", record.ID)
	assert.True(t, util.IsNotFound(err))

	got, err := s.Get("user-1", record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)

	assert.True(t, util.IsNotFound(s.Delete("user-2", record.ID)))
	require.NoError(t, s.Delete("user-1", record.ID))
	assert.True(t, util.IsNotFound(s.Delete("user-1", record.ID)))
}

func TestSearchAfterDeleteRecreates(t *testing.T) {
	stub := &stubInsightProvider{result: &InsightResult{
		AvgSalary:     "₹8.5 LPA",
		OpenPositions: 1200,
		JobGrowth:     12.5,
	}}
	s, _ := newJobSearchService(t, stub)

	first, err := s.Search(context.Background(), "user-1", "Data Scientist")
	require.NoError(t, err)
	require.NoError(t, s.Delete("user-1", first.ID))

	// 删除是物理删除，唯一索引上不能留死行，
	// 否则同一职位名无法重新搜索
	second, err := s.Search(context.Background(), "user-1", "Data Scientist")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "₹8.5 LPA", second.AvgSalary)

	_, total, err := s.List("user-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

// raceJobSearchRepo 模拟并发写竞争：首次按标题查找强制未命中，
// 仿佛另一请求恰好在查找之后、创建之前插入了同名记录
type raceJobSearchRepo struct {
	*repository.JobSearchRepository
	missedOnce bool
}

func (r *raceJobSearchRepo) FindByUserAndTitle(userID, title string) (*model.JobSearch, error) {
	if !r.missedOnce {
		r.missedOnce = true
		return nil, gorm.ErrRecordNotFound
	}
	return r.JobSearchRepository.FindByUserAndTitle(userID, title)
}

func TestSearchDuplicateKeyResolvesToRefresh(t *testing.T) {
	inner := repository.NewJobSearchRepository(newTestDB(t))

	existing := &model.JobSearch{
		UserID:        "user-1",
		JobTitle:      "Data Scientist",
		AvgSalary:     "₹7.0 LPA",
		OpenPositions: 900,
		JobGrowth:     10.0,
	}
	require.NoError(t, inner.Create(existing))

	stub := &stubInsightProvider{result: &InsightResult{
		AvgSalary:     "₹9.0 LPA",
		OpenPositions: 1300,
		JobGrowth:     13.0,
	}}
	s := NewJobSearchService(&raceJobSearchRepo{JobSearchRepository: inner}, stub, nil, 0)

	// 首查未命中 → 创建撞唯一索引 → 复查命中 → 转为更新
	record, err := s.Search(context.Background(), "user-1", "data scientist")
	require.NoError(t, err)

	assert.Equal(t, existing.ID, record.ID)
	assert.Equal(t, "₹9.0 LPA", record.AvgSalary)
	assert.Equal(t, 1300, record.OpenPositions)

	_, total, err := s.List("user-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestTitleKeyMaintainedOnSave(t *testing.T) {
	stub := &stubInsightProvider{result: &InsightResult{
		AvgSalary:     "₹8.5 LPA",
		OpenPositions: 1200,
		JobGrowth:     12.5,
	}}
	s, repo := newJobSearchService(t, stub)

	record, err := s.Search(context.Background(), "user-1", "DevOps Engineer")
	require.NoError(t, err)

	stored, err := repo.FindByUserAndTitle("user-1", "DEVOPS ENGINEER")
	require.NoError(t, err)
	assert.Equal(t, record.ID, stored.ID)
	assert.Equal(t, model.NormalizeJobTitle("DevOps Engineer"), stored.TitleKey)
}
