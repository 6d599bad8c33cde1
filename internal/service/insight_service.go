package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"skillup_backend/internal/config"
	"skillup_backend/internal/util"
)

// InsightResult 一次岗位洞察查询的完整结果
type InsightResult struct {
	JobTitle      string  `json:"jobTitle"` // 上游返回的规范职位名，可能为空
	AvgSalary     string  `json:"avgSalary"`
	OpenPositions int     `json:"openPositions"`
	JobGrowth     float64 `json:"jobGrowth"`
}

// InsightProvider 外部岗位洞察服务的抽象，便于测试替换
type InsightProvider interface {
	CareerInsights(ctx context.Context, jobTitle string) (*InsightResult, error)
}

type InsightService struct {
	mu     sync.RWMutex
	config config.InsightsConfig
	client *http.Client
}

func NewInsightService(cfg config.InsightsConfig) *InsightService {
	return &InsightService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// ApplyConfig 配置热更新回调。
// 替换整个client而不是改Timeout，在途请求继续用旧实例
func (s *InsightService) ApplyConfig(cfg config.InsightsConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	s.client = &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

type careerInsightResponse struct {
	JobTitle      string   `json:"job_title"`
	AvgSalary     string   `json:"average_salary"`
	OpenPositions *int     `json:"open_positions"`
	JobGrowth     *float64 `json:"job_growth_yoy"`
}

// CareerInsights 查询职位的平均薪资/在招岗位数/年增长率。
// 三项数据任何一项缺失都按失败处理，残缺数据不进缓存
func (s *InsightService) CareerInsights(ctx context.Context, jobTitle string) (*InsightResult, error) {
	s.mu.RLock()
	baseURL := s.config.BaseURL
	client := s.client
	s.mu.RUnlock()

	endpoint := fmt.Sprintf("%s/api/career-insights?job_title=%s", baseURL, url.QueryEscape(jobTitle))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, util.NewUpstreamError(fmt.Sprintf("insight service unreachable: %v", err), nil)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, util.NewUpstreamError(
			fmt.Sprintf("insight service error (status %d): %s", resp.StatusCode, string(body)), nil)
	}

	var data careerInsightResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, util.NewUpstreamError("invalid insight service response: "+err.Error(), nil)
	}

	if data.AvgSalary == "" || data.OpenPositions == nil || data.JobGrowth == nil {
		partial := map[string]interface{}{}
		if data.JobTitle != "" {
			partial["jobTitle"] = data.JobTitle
		}
		if data.AvgSalary != "" {
			partial["avgSalary"] = data.AvgSalary
		}
		if data.OpenPositions != nil {
			partial["openPositions"] = *data.OpenPositions
		}
		if data.JobGrowth != nil {
			partial["jobGrowth"] = *data.JobGrowth
		}
		return nil, util.NewUpstreamError("incomplete insight data for "+jobTitle, partial)
	}

	return &InsightResult{
		JobTitle:      data.JobTitle,
		AvgSalary:     data.AvgSalary,
		OpenPositions: *data.OpenPositions,
		JobGrowth:     *data.JobGrowth,
	}, nil
}
