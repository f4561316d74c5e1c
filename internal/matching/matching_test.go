package matching

import (
	"testing"

	"github.com/google/uuid"

	"creator-marketplace/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }
func float64Ptr(v float64) *float64 { return &v }
func stringPtr(v string) *string { return &v }

func instagramCreator() Signals {
	return NewSignals(
		nil,
		[]Account{{Platform: "instagram", FollowerCount: 5000, EngagementRate: 3.2}},
		"Manchester",
		"United Kingdom",
	)
}

func TestFollowerThreshold(t *testing.T) {
	s := instagramCreator()

	if !Matches(s, []Rule{{Platforms: []string{"instagram"}, MinFollowers: int64Ptr(1000)}}) {
		t.Errorf("expected match for instagram row with 1000 minimum")
	}
	if Matches(s, []Rule{{MinFollowers: int64Ptr(10000)}}) {
		t.Errorf("expected no match for 10000 minimum")
	}
}

func TestNoRulesMatchesEveryone(t *testing.T) {
	empty := NewSignals(nil, nil, "", "")
	if !Matches(empty, nil) {
		t.Fatalf("brief without targeting must match every creator")
	}
}

func TestTradeConstraintIsMandatory(t *testing.T) {
	roofer := uuid.New()
	plumber := uuid.New()
	s := NewSignals(
		[]uuid.UUID{plumber},
		[]Account{{Platform: "tiktok", FollowerCount: 1_000_000, EngagementRate: 12}},
		"Leeds",
		"UK",
	)

	// every other constraint is comfortably met
	r := Rule{
		TradeID:       &roofer,
		Platforms:     []string{"tiktok"},
		MinFollowers:  int64Ptr(10),
		MinEngagement: float64Ptr(1),
		Location:      "leeds",
	}
	if Satisfies(s, r) {
		t.Errorf("row with a trade the creator lacks must not be satisfied")
	}

	r.TradeID = &plumber
	if !Satisfies(s, r) {
		t.Errorf("expected row to be satisfied once trade matches")
	}
}

func TestTradeOnlyRow(t *testing.T) {
	electrician := uuid.New()
	s := NewSignals([]uuid.UUID{uuid.New(), electrician}, nil, "", "")

	if !Satisfies(s, Rule{TradeID: &electrician}) {
		t.Errorf("trade-only row should match on an additional trade alone")
	}
}

func TestDisjunctionAcrossRows(t *testing.T) {
	s := instagramCreator()
	rules := []Rule{
		{Platforms: []string{"youtube"}},
		{MinFollowers: int64Ptr(4000), Location: "manchester"},
	}
	if !Matches(s, rules) {
		t.Errorf("second row should match")
	}

	rules[1].Location = "bristol"
	if Matches(s, rules) {
		t.Errorf("no row should match")
	}
}

func TestZeroAccountsFailPositiveMinimums(t *testing.T) {
	s := NewSignals([]uuid.UUID{uuid.New()}, nil, "Cork", "Ireland")

	if s.Followers != 0 || s.Engagement != 0 {
		t.Fatalf("expected zero aggregates, got %d / %f", s.Followers, s.Engagement)
	}
	if Satisfies(s, Rule{MinFollowers: int64Ptr(1)}) {
		t.Errorf("zero followers must fail a positive minimum")
	}
	if Satisfies(s, Rule{MinEngagement: float64Ptr(0.1)}) {
		t.Errorf("zero engagement must fail a positive minimum")
	}
}

func TestAggregates(t *testing.T) {
	s := NewSignals(nil, []Account{
		{Platform: "Instagram", FollowerCount: 3000, EngagementRate: 2},
		{Platform: " TikTok ", FollowerCount: 7000, EngagementRate: 4},
	}, "", "")

	if s.Followers != 10000 {
		t.Errorf("expected 10000 followers, got %d", s.Followers)
	}
	if s.Engagement != 3 {
		t.Errorf("expected mean engagement 3, got %f", s.Engagement)
	}
	if !Satisfies(s, Rule{Platforms: SplitPlatforms("youtube, tiktok")}) {
		t.Errorf("comma-joined platforms should match any listed platform")
	}
}

func TestLocationIsCaseInsensitiveSubstring(t *testing.T) {
	s := NewSignals(nil, nil, "North London", "United Kingdom")

	for _, loc := range []string{"london", "LONDON", "kingdom", "North"} {
		if !Satisfies(s, Rule{Location: loc}) {
			t.Errorf("expected %q to match", loc)
		}
	}
	if Satisfies(s, Rule{Location: "paris"}) {
		t.Errorf("expected paris not to match")
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	trade := uuid.New()
	creator := &models.CreatorProfile{
		PrimaryTradeID: trade,
		SocialAccounts: []models.SocialAccount{{Platform: "instagram", FollowerCount: 5000, EngagementRate: 3.2}},
		City:           "Glasgow",
		Country:        "UK",
	}
	briefs := []models.Brief{
		{Title: "open to all"},
		{Title: "too big", Targeting: []models.BriefTargeting{{MinFollowers: int64Ptr(50000)}}},
		{Title: "trade + place", Targeting: []models.BriefTargeting{{TradeID: &trade, Location: stringPtr("glasgow")}}},
		{Title: "instagram", Targeting: []models.BriefTargeting{{Platforms: "youtube,instagram"}}},
	}

	got := Filter(SignalsFor(creator), briefs)
	want := []string{"open to all", "trade + place", "instagram"}
	if len(got) != len(want) {
		t.Fatalf("expected %d briefs, got %d", len(want), len(got))
	}
	for i, b := range got {
		if b.Title != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], b.Title)
		}
	}

	if !Eligible(creator, &briefs[2]) {
		t.Errorf("expected creator to be eligible for trade + place brief")
	}
}

func TestJoinPlatforms(t *testing.T) {
	if got := JoinPlatforms([]string{" Instagram", "", "TIKTOK "}); got != "instagram,tiktok" {
		t.Errorf("unexpected join: %q", got)
	}
	if SplitPlatforms("  ") != nil {
		t.Errorf("blank list should split to nil")
	}
}
