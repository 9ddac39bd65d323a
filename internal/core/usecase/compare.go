package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/handbook-labs/rag-playground/internal/core/domain"
	"github.com/handbook-labs/rag-playground/internal/core/ports"
)

// CompareUseCase runs two independent full query cycles over the same
// question. The cycles share no mutable state, so they execute concurrently;
// their relative ordering is immaterial to the result.
type CompareUseCase struct {
	runner ports.QueryRunner
}

func NewCompareUseCase(runner ports.QueryRunner) *CompareUseCase {
	return &CompareUseCase{runner: runner}
}

func (uc *CompareUseCase) Compare(ctx context.Context, query string, cfgA, cfgB domain.RAGConfig) (*domain.ComparisonResult, error) {
	var (
		wg           sync.WaitGroup
		resultA      *domain.QueryResult
		resultB      *domain.QueryResult
		errA, errB   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		resultA, errA = uc.runner.Execute(ctx, query, cfgA)
	}()
	go func() {
		defer wg.Done()
		resultB, errB = uc.runner.Execute(ctx, query, cfgB)
	}()
	wg.Wait()

	if errA != nil {
		return nil, fmt.Errorf("configuration A: %w", errA)
	}
	if errB != nil {
		return nil, fmt.Errorf("configuration B: %w", errB)
	}

	return &domain.ComparisonResult{Query: query, A: resultA, B: resultB}, nil
}
