package service

import (
	"context"

	"cli-utils/internal/model"
	"cli-utils/internal/repository"
)

// CategorySummary is a category with its number of open tasks.
type CategorySummary struct {
	model.Category
	ActiveTasks int64
}

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// ListWithCounts lists categories in display order with their open task counts.
func (s *CategoryService) ListWithCounts(ctx context.Context) ([]CategorySummary, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]CategorySummary, 0, len(categories))
	for _, cat := range categories {
		count, err := s.repo.CountTasks(ctx, cat.ID, true)
		if err != nil {
			return nil, err
		}
		out = append(out, CategorySummary{Category: cat, ActiveTasks: count})
	}
	return out, nil
}
