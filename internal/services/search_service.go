package services

import (
	"context"
	"strings"

	"creator-marketplace/internal/models"
	"creator-marketplace/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 10000
)

// SearchResult is one page of creators plus the total match count
type SearchResult struct {
	Creators []models.CreatorProfile `json:"creators"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

type SearchService struct {
	repo *repository.Repository
}

func NewSearchService(repo *repository.Repository) *SearchService {
	return &SearchService{repo: repo}
}

// SearchCreators runs a brand-side creator search. Every filter is applied
// before pagination, so Total and the page contents agree.
func (s *SearchService) SearchCreators(ctx context.Context, f models.CreatorSearchFilter) (*SearchResult, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Page > maxPage {
		f.Page = maxPage
	}
	if f.PageSize <= 0 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}

	platforms := make([]string, 0, len(f.Platforms))
	for _, p := range f.Platforms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !models.IsPlatform(p) {
			return nil, validation("unsupported platform %q", p)
		}
		platforms = append(platforms, p)
	}
	f.Platforms = platforms

	if f.MinFollowers != nil && f.MaxFollowers != nil && *f.MinFollowers > *f.MaxFollowers {
		return nil, validation("min_followers exceeds max_followers")
	}
	if f.MinEngagement != nil && f.MaxEngagement != nil && *f.MinEngagement > *f.MaxEngagement {
		return nil, validation("min_engagement exceeds max_engagement")
	}

	creators, total, err := s.repo.SearchCreators(ctx, f)
	if err != nil {
		return nil, upstream("search creators", err)
	}
	if creators == nil {
		creators = []models.CreatorProfile{}
	}
	return &SearchResult{Creators: creators, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}
