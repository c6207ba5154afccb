package mcp

import (
	"context"

	"github.com/wayfarer-labs/wayfarer-cli/internal/core/domain"
)

// mockPlanService is a mock implementation of driving.PlanService.
type mockPlanService struct {
	result  *domain.PlanResult
	err     error
	lastReq domain.PlanRequest
}

func (m *mockPlanService) Plan(_ context.Context, req domain.PlanRequest) (*domain.PlanResult, error) {
	m.lastReq = req
	return m.result, m.err
}

// mockSearchService scripts SearchService responses per test.
type mockSearchService struct {
	candidates []domain.ScoredCandidate
	err        error

	lastCategory domain.Category
	lastQuery    string
	lastK        int
}

func (m *mockSearchService) Search(
	_ context.Context,
	category domain.Category,
	query string,
	k int,
) ([]domain.ScoredCandidate, error) {
	m.lastCategory = category
	m.lastQuery = query
	m.lastK = k
	return m.candidates, m.err
}
