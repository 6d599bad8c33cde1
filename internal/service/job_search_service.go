package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/util"
	"skillup_backend/pkg/logger"
	"skillup_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const insightCachePrefix = "career-insights:"

// JobSearchRepo 持久层抽象，并发冲突路径的测试依赖注入
type JobSearchRepo interface {
	FindByID(userID, id string) (*model.JobSearch, error)
	FindByUserAndTitle(userID, title string) (*model.JobSearch, error)
	FindByUser(userID string, page, limit int) ([]model.JobSearch, int64, error)
	Create(search *model.JobSearch) error
	Save(search *model.JobSearch) error
	Delete(userID, id string) error
}

var _ JobSearchRepo = (*repository.JobSearchRepository)(nil)

type JobSearchService struct {
	SearchRepo JobSearchRepo
	Insights   InsightProvider
	rdb        *redis.Client
	cacheTTL   time.Duration
}

func NewJobSearchService(searchRepo JobSearchRepo, insights InsightProvider, rdb *redis.Client, cacheTTL time.Duration) *JobSearchService {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &JobSearchService{
		SearchRepo: searchRepo,
		Insights:   insights,
		rdb:        rdb,
		cacheTTL:   cacheTTL,
	}
}

// Search 查询岗位洞察并落缓存记录。
// 同一用户对同一职位名（忽略大小写）的重复查询覆盖已有记录，
// 不会产生第二条
func (s *JobSearchService) Search(ctx context.Context, userID, jobTitle string) (*model.JobSearch, error) {
	title := strings.TrimSpace(jobTitle)
	if title == "" {
		return nil, util.NewValidationError("jobTitle", "job title is required")
	}

	insight, err := s.lookupInsight(ctx, title)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	existing, err := s.SearchRepo.FindByUserAndTitle(userID, title)
	if err == nil {
		return s.refresh(existing, insight, now)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 展示用职位名：上游给了规范名就用规范名，否则保留调用方写法
	displayTitle := title
	if insight.JobTitle != "" {
		displayTitle = insight.JobTitle
	}

	record := &model.JobSearch{
		UserID:        userID,
		JobTitle:      displayTitle,
		AvgSalary:     insight.AvgSalary,
		OpenPositions: insight.OpenPositions,
		JobGrowth:     insight.JobGrowth,
		SearchedAt:    now,
		LastAccessed:  now,
	}

	if err := s.SearchRepo.Create(record); err != nil {
		// 并发搜索撞上唯一索引：按已存在处理，转为更新
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, findErr := s.SearchRepo.FindByUserAndTitle(userID, title)
			if findErr != nil {
				return nil, asSearchNotFound(findErr)
			}
			return s.refresh(existing, insight, now)
		}
		return nil, err
	}

	return record, nil
}

// refresh 重复查询的就地更新：刷新三项数据并重置搜索时间。
// 原记录的大小写保留，除非上游提供了规范职位名
func (s *JobSearchService) refresh(record *model.JobSearch, insight *InsightResult, now time.Time) (*model.JobSearch, error) {
	if insight.JobTitle != "" {
		record.JobTitle = insight.JobTitle
	}
	record.AvgSalary = insight.AvgSalary
	record.OpenPositions = insight.OpenPositions
	record.JobGrowth = insight.JobGrowth
	record.SearchedAt = now
	record.LastAccessed = now

	if err := s.SearchRepo.Save(record); err != nil {
		return nil, err
	}
	return record, nil
}

// lookupInsight 先查redis缓存，未命中再调外部服务。
// 只有完整结果会被缓存
func (s *JobSearchService) lookupInsight(ctx context.Context, title string) (*InsightResult, error) {
	key := insightCachePrefix + model.NormalizeJobTitle(title)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var result InsightResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				monitoring.InsightLookups.WithLabelValues("hit").Inc()
				return &result, nil
			}
		}
	}

	result, err := s.Insights.CareerInsights(ctx, title)
	if err != nil {
		monitoring.InsightLookups.WithLabelValues("failed").Inc()
		return nil, err
	}
	monitoring.InsightLookups.WithLabelValues("fetched").Inc()

	if s.rdb != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache insight result", zap.Error(err))
			}
		}
	}

	return result, nil
}

func (s *JobSearchService) Get(userID, id string) (*model.JobSearch, error) {
	search, err := s.SearchRepo.FindByID(userID, id)
	if err != nil {
		return nil, asSearchNotFound(err)
	}

	search.LastAccessed = time.Now()
	if err := s.SearchRepo.Save(search); err != nil {
		return nil, err
	}

	return search, nil
}

func (s *JobSearchService) List(userID string, page, limit int) ([]model.JobSearch, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.SearchRepo.FindByUser(userID, page, limit)
}

func (s *JobSearchService) Delete(userID, id string) error {
	err := s.SearchRepo.Delete(userID, id)
	if err != nil {
		return asSearchNotFound(err)
	}
	return nil
}

func asSearchNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NewNotFoundError("job search")
	}
	return err
}
