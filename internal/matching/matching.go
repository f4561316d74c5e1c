// Package matching decides which briefs a creator is eligible for.
//
// A brief with no targeting rules matches every creator. Otherwise the creator
// must satisfy at least one rule, and a rule is satisfied when every constraint
// it sets holds.
package matching

import (
	"strings"

	"github.com/google/uuid"

	"creator-marketplace/internal/models"
)

// Account is the part of a social account the engine looks at
type Account struct {
	Platform       string
	FollowerCount  int64
	EngagementRate float64
}

// Signals is the creator side of a match, precomputed once per creator
type Signals struct {
	Trades        map[uuid.UUID]struct{}
	Platforms     map[string]struct{}
	Followers     int64
	Engagement    float64
	City, Country string
}

// NewSignals aggregates a creator's trades, accounts and location.
// Followers is the sum across accounts; engagement is their mean (0 with no accounts).
func NewSignals(tradeIDs []uuid.UUID, accounts []Account, city, country string) Signals {
	s := Signals{
		Trades:    make(map[uuid.UUID]struct{}, len(tradeIDs)),
		Platforms: make(map[string]struct{}, len(accounts)),
		City:      strings.ToLower(strings.TrimSpace(city)),
		Country:   strings.ToLower(strings.TrimSpace(country)),
	}
	for _, id := range tradeIDs {
		s.Trades[id] = struct{}{}
	}

	var engagement float64
	for _, a := range accounts {
		s.Platforms[normalizePlatform(a.Platform)] = struct{}{}
		s.Followers += a.FollowerCount
		engagement += a.EngagementRate
	}
	if len(accounts) > 0 {
		s.Engagement = engagement / float64(len(accounts))
	}
	return s
}

// SignalsFor builds the signals of a loaded creator profile
func SignalsFor(c *models.CreatorProfile) Signals {
	accounts := make([]Account, 0, len(c.SocialAccounts))
	for _, sa := range c.SocialAccounts {
		accounts = append(accounts, Account{
			Platform:       sa.Platform,
			FollowerCount:  sa.FollowerCount,
			EngagementRate: sa.EngagementRate,
		})
	}
	return NewSignals(c.TradeIDs(), accounts, c.City, c.Country)
}

// Rule is one targeting row. Nil or empty fields are unconstrained.
type Rule struct {
	TradeID       *uuid.UUID
	Platforms     []string
	MinFollowers  *int64
	MinEngagement *float64
	Location      string
}

// RuleFrom converts a stored targeting row
func RuleFrom(t models.BriefTargeting) Rule {
	r := Rule{
		TradeID:       t.TradeID,
		Platforms:     SplitPlatforms(t.Platforms),
		MinFollowers:  t.MinFollowers,
		MinEngagement: t.MinEngagement,
	}
	if t.Location != nil {
		r.Location = strings.TrimSpace(*t.Location)
	}
	return r
}

// RulesFor converts all targeting rows of a brief
func RulesFor(b *models.Brief) []Rule {
	rules := make([]Rule, 0, len(b.Targeting))
	for _, t := range b.Targeting {
		rules = append(rules, RuleFrom(t))
	}
	return rules
}

// Satisfies reports whether s meets every constraint of r
func Satisfies(s Signals, r Rule) bool {
	if r.TradeID != nil {
		if _, ok := s.Trades[*r.TradeID]; !ok {
			return false
		}
	}
	if len(r.Platforms) > 0 && !hasAnyPlatform(s, r.Platforms) {
		return false
	}
	if r.MinFollowers != nil && s.Followers < *r.MinFollowers {
		return false
	}
	if r.MinEngagement != nil && s.Engagement < *r.MinEngagement {
		return false
	}
	if r.Location != "" {
		loc := strings.ToLower(r.Location)
		if !strings.Contains(s.City, loc) && !strings.Contains(s.Country, loc) {
			return false
		}
	}
	return true
}

// Matches reports whether s is eligible for a brief with the given rules
func Matches(s Signals, rules []Rule) bool {
	if len(rules) == 0 {
		return true
	}
	for _, r := range rules {
		if Satisfies(s, r) {
			return true
		}
	}
	return false
}

// Eligible reports whether creator c may see brief b
func Eligible(c *models.CreatorProfile, b *models.Brief) bool {
	return Matches(SignalsFor(c), RulesFor(b))
}

// Filter returns the briefs s is eligible for, preserving order.
// Briefs are expected to be open and unexpired already.
func Filter(s Signals, briefs []models.Brief) []models.Brief {
	out := make([]models.Brief, 0, len(briefs))
	for i := range briefs {
		if Matches(s, RulesFor(&briefs[i])) {
			out = append(out, briefs[i])
		}
	}
	return out
}

// SplitPlatforms splits a comma-joined platform list, lower-cased, blanks dropped
func SplitPlatforms(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = normalizePlatform(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinPlatforms is the inverse of SplitPlatforms
func JoinPlatforms(platforms []string) string {
	norm := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if p = normalizePlatform(p); p != "" {
			norm = append(norm, p)
		}
	}
	return strings.Join(norm, ",")
}

func hasAnyPlatform(s Signals, platforms []string) bool {
	for _, p := range platforms {
		if _, ok := s.Platforms[p]; ok {
			return true
		}
	}
	return false
}

func normalizePlatform(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}
