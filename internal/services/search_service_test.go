package services

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"

	"creator-marketplace/internal/models"
)

func names(creators []models.CreatorProfile) []string {
	out := make([]string, 0, len(creators))
	for _, c := range creators {
		out = append(out, c.DisplayName)
	}
	return out
}

func TestSearchCreatorsFilters(t *testing.T) {
	f := newFixture(t)
	roofer := f.trade("Roofer")
	plumber := f.trade("Plumber")
	tiler := f.trade("Tiler")

	f.creator(creatorSpec{name: "Roofing Rae", trade: roofer.ID, city: "Leeds",
		accounts: []models.SocialAccountInput{account("instagram", 10000, 5), account("tiktok", 5000, 3)}})
	f.creator(creatorSpec{name: "Plumber Pat", trade: plumber.ID, city: "London",
		accounts: []models.SocialAccountInput{account("youtube", 800, 9)}})
	f.creator(creatorSpec{name: "Tiling Tia", trade: tiler.ID, city: "Bristol", country: "Wales"})
	f.creator(creatorSpec{name: "Multi Max", trade: plumber.ID, additional: []uuid.UUID{roofer.ID}, city: "Leeds",
		accounts: []models.SocialAccountInput{account("instagram", 2000, 1)}})

	cases := []struct {
		name   string
		filter models.CreatorSearchFilter
		want   int
	}{
		{"no filters", models.CreatorSearchFilter{}, 4},
		{"keyword case-insensitive", models.CreatorSearchFilter{Keyword: "ROOFING"}, 1},
		{"keyword wildcard is literal", models.CreatorSearchFilter{Keyword: "%"}, 0},
		{"trade matches primary or additional", models.CreatorSearchFilter{TradeID: &roofer.ID}, 2},
		{"location city", models.CreatorSearchFilter{Location: "leeds"}, 2},
		{"location country", models.CreatorSearchFilter{Location: "wales"}, 1},
		{"platform any-of", models.CreatorSearchFilter{Platforms: []string{"youtube", "tiktok"}}, 2},
		{"min followers is a sum", models.CreatorSearchFilter{MinFollowers: ptr(int64(15000))}, 1},
		{"max followers includes zero accounts", models.CreatorSearchFilter{MaxFollowers: ptr(int64(1000))}, 2},
		{"engagement is a mean", models.CreatorSearchFilter{MinEngagement: ptr(4.0), MaxEngagement: ptr(8.0)}, 1},
		{"combined", models.CreatorSearchFilter{TradeID: &roofer.ID, Location: "leeds", Platforms: []string{"instagram"}, MinFollowers: ptr(int64(2000))}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := f.search.SearchCreators(f.ctx, tc.filter)
			if err != nil {
				t.Fatalf("SearchCreators failed: %v", err)
			}
			if int(res.Total) != tc.want || len(res.Creators) != tc.want {
				t.Fatalf("expected %d creators, got total=%d page=%v", tc.want, res.Total, names(res.Creators))
			}
		})
	}
}

func TestSearchCreatorsPagination(t *testing.T) {
	f := newFixture(t)
	trade := f.trade("Roofer")
	for i := 0; i < 7; i++ {
		followers := int64(100)
		if i%2 == 0 {
			followers = 10000
		}
		f.creator(creatorSpec{name: fmt.Sprintf("Creator %d", i), trade: trade.ID,
			accounts: []models.SocialAccountInput{account("instagram", followers, 2)}})
	}

	filter := models.CreatorSearchFilter{MinFollowers: ptr(int64(5000)), PageSize: 3, Page: 1}
	first, err := f.search.SearchCreators(f.ctx, filter)
	if err != nil {
		t.Fatalf("SearchCreators failed: %v", err)
	}
	if first.Total != 4 || len(first.Creators) != 3 {
		t.Fatalf("expected a full first page of 3 out of 4, got %d of %d", len(first.Creators), first.Total)
	}

	filter.Page = 2
	second, err := f.search.SearchCreators(f.ctx, filter)
	if err != nil {
		t.Fatalf("SearchCreators failed: %v", err)
	}
	if second.Total != 4 || len(second.Creators) != 1 {
		t.Fatalf("expected 1 creator on page 2, got %d", len(second.Creators))
	}

	seen := map[string]bool{}
	for _, c := range append(first.Creators, second.Creators...) {
		if seen[c.DisplayName] {
			t.Errorf("%s appears on two pages", c.DisplayName)
		}
		seen[c.DisplayName] = true
	}

	filter.Page = 1
	again, _ := f.search.SearchCreators(f.ctx, filter)
	if fmt.Sprint(names(again.Creators)) != fmt.Sprint(names(first.Creators)) {
		t.Errorf("repeated search must return the same page: %v vs %v", names(again.Creators), names(first.Creators))
	}
}

func TestSearchCreatorsDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)

	res, err := f.search.SearchCreators(f.ctx, models.CreatorSearchFilter{PageSize: 1000})
	if err != nil {
		t.Fatalf("SearchCreators failed: %v", err)
	}
	if res.Page != 1 || res.PageSize != maxPageSize || res.Creators == nil {
		t.Errorf("unexpected defaults %+v", res)
	}

	bad := []models.CreatorSearchFilter{
		{Platforms: []string{"friendster"}},
		{MinFollowers: ptr(int64(10)), MaxFollowers: ptr(int64(5))},
		{MinEngagement: ptr(5.0), MaxEngagement: ptr(1.0)},
	}
	for _, filter := range bad {
		if _, err := f.search.SearchCreators(f.ctx, filter); !errors.Is(err, ErrValidation) {
			t.Errorf("expected validation error for %+v, got %v", filter, err)
		}
	}
}

func TestSearchCreatorsClampsPage(t *testing.T) {
	f := newFixture(t)
	trade := f.trade("Roofer")
	f.creator(creatorSpec{name: "Rae", trade: trade.ID})

	res, err := f.search.SearchCreators(f.ctx, models.CreatorSearchFilter{Page: math.MaxInt, PageSize: maxPageSize})
	if err != nil {
		t.Fatalf("SearchCreators failed: %v", err)
	}
	if res.Page != maxPage || len(res.Creators) != 0 || res.Total != 1 {
		t.Errorf("expected an empty last page %d with total 1, got page %d, %d creators, total %d", maxPage, res.Page, len(res.Creators), res.Total)
	}
}
