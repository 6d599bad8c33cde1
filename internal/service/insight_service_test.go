package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillup_backend/internal/config"
	"skillup_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightServiceFor(server *httptest.Server) *InsightService {
	return NewInsightService(config.InsightsConfig{
		BaseURL:        server.URL,
		TimeoutSeconds: 5,
	})
}

func TestCareerInsightsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/career-insights", r.URL.Path)
		assert.Equal(t, "data scientist", r.URL.Query().Get("job_title"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"job_title":"Data Scientist","average_salary":"₹8.5 LPA","open_positions":1200,"job_growth_yoy":12.5}`))
	}))
	defer server.Close()

	result, err := insightServiceFor(server).CareerInsights(context.Background(), "data scientist")
	require.NoError(t, err)

	assert.Equal(t, "Data Scientist", result.JobTitle)
	assert.Equal(t, "₹8.5 LPA", result.AvgSalary)
	assert.Equal(t, 1200, result.OpenPositions)
	assert.Equal(t, 12.5, result.JobGrowth)
}

func TestCareerInsightsIncompleteData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// 缺少 open_positions 和 job_growth_yoy
		w.Write([]byte(`{"job_title":"Data Scientist","average_salary":"₹8.5 LPA"}`))
	}))
	defer server.Close()

	_, err := insightServiceFor(server).CareerInsights(context.Background(), "data scientist")
	upstream, ok := util.AsUpstream(err)
	require.True(t, ok)

	// 已拿到的部分数据随错误返回
	assert.Equal(t, "Data Scientist", upstream.Partial["jobTitle"])
	assert.Equal(t, "₹8.5 LPA", upstream.Partial["avgSalary"])
	assert.NotContains(t, upstream.Partial, "openPositions")
}

func TestCareerInsightsUpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := insightServiceFor(server).CareerInsights(context.Background(), "data scientist")
	_, ok := util.AsUpstream(err)
	assert.True(t, ok)
}

func TestCareerInsightsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 直接关掉，模拟连不上

	_, err := insightServiceFor(server).CareerInsights(context.Background(), "data scientist")
	_, ok := util.AsUpstream(err)
	assert.True(t, ok)
}

func TestCareerInsightsInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := insightServiceFor(server).CareerInsights(context.Background(), "data scientist")
	_, ok := util.AsUpstream(err)
	assert.True(t, ok)
}

func TestApplyConfigSwitchesBaseURL(t *testing.T) {
	old := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer old.Close()

	current := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"average_salary":"₹5 LPA","open_positions":10,"job_growth_yoy":1.0}`))
	}))
	defer current.Close()

	s := insightServiceFor(old)
	s.ApplyConfig(config.InsightsConfig{BaseURL: current.URL, TimeoutSeconds: 5})

	result, err := s.CareerInsights(context.Background(), "tester")
	require.NoError(t, err)
	assert.Equal(t, 10, result.OpenPositions)
}
