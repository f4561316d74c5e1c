package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"creator-marketplace/internal/models"
)

func TestCreateCreatorProfile(t *testing.T) {
	f := newFixture(t)
	roofer := f.trade("Roofer")
	tiler := f.trade("Tiler")

	userID, creator := f.creator(creatorSpec{
		name:       "Sam",
		trade:      roofer.ID,
		additional: []uuid.UUID{tiler.ID, roofer.ID, tiler.ID},
		accounts:   []models.SocialAccountInput{account("Instagram", 1200, 4.2)},
		city:       "Leeds",
	})

	if creator.PrimaryTrade == nil || creator.PrimaryTrade.Slug != "roofer" {
		t.Errorf("expected primary trade to be loaded, got %+v", creator.PrimaryTrade)
	}
	if len(creator.AdditionalTrades) != 1 || creator.AdditionalTrades[0].ID != tiler.ID {
		t.Errorf("expected one deduplicated additional trade, got %+v", creator.AdditionalTrades)
	}
	if len(creator.SocialAccounts) != 1 || creator.SocialAccounts[0].Platform != "instagram" {
		t.Errorf("expected normalized social account, got %+v", creator.SocialAccounts)
	}

	role, err := f.profiles.Role(f.ctx, userID)
	if err != nil || role != models.RoleCreator {
		t.Errorf("expected creator role, got %q (%v)", role, err)
	}

	_, err = f.profiles.CreateCreatorProfile(f.ctx, userID, "", models.CreatorProfileRequest{DisplayName: "Again", PrimaryTradeID: roofer.ID})
	if !errors.Is(err, ErrProfileExists) {
		t.Errorf("expected ErrProfileExists, got %v", err)
	}
	_, err = f.profiles.CreateBrandProfile(f.ctx, userID, "", models.BrandProfileRequest{CompanyName: "Sam Ltd"})
	if !errors.Is(err, ErrProfileExists) {
		t.Errorf("a creator cannot also register as a brand, got %v", err)
	}
}

func TestCreateCreatorProfileValidation(t *testing.T) {
	f := newFixture(t)
	roofer := f.trade("Roofer")

	cases := map[string]models.CreatorProfileRequest{
		"blank name":        {DisplayName: " ", PrimaryTradeID: roofer.ID},
		"missing trade":     {DisplayName: "Sam"},
		"unknown trade":     {DisplayName: "Sam", PrimaryTradeID: uuid.New()},
		"unknown extra":     {DisplayName: "Sam", PrimaryTradeID: roofer.ID, AdditionalTradeIDs: []uuid.UUID{uuid.New()}},
		"bad platform":      {DisplayName: "Sam", PrimaryTradeID: roofer.ID, SocialAccounts: []models.SocialAccountInput{account("myspace", 1, 1)}},
		"repeated platform": {DisplayName: "Sam", PrimaryTradeID: roofer.ID, SocialAccounts: []models.SocialAccountInput{account("x", 1, 1), account("X", 2, 2)}},
		"negative count":    {DisplayName: "Sam", PrimaryTradeID: roofer.ID, SocialAccounts: []models.SocialAccountInput{account("x", -1, 1)}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := f.profiles.CreateCreatorProfile(f.ctx, uuid.New(), "", req); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateCreatorProfileReplacesAssociations(t *testing.T) {
	f := newFixture(t)
	roofer := f.trade("Roofer")
	tiler := f.trade("Tiler")
	plumber := f.trade("Plumber")

	userID, creator := f.creator(creatorSpec{
		name:       "Sam",
		trade:      roofer.ID,
		additional: []uuid.UUID{tiler.ID},
		accounts:   []models.SocialAccountInput{account("instagram", 100, 1), account("tiktok", 200, 2)},
	})

	updated, err := f.profiles.UpdateCreatorProfile(f.ctx, userID, models.CreatorProfileRequest{
		DisplayName:        "Sam the Roofer",
		PrimaryTradeID:     roofer.ID,
		AdditionalTradeIDs: []uuid.UUID{plumber.ID},
		SocialAccounts:     []models.SocialAccountInput{account("youtube", 5000, 6)},
		City:               "York",
	})
	if err != nil {
		t.Fatalf("UpdateCreatorProfile failed: %v", err)
	}
	if updated.ID != creator.ID || updated.DisplayName != "Sam the Roofer" || updated.City != "York" {
		t.Errorf("unexpected profile %+v", updated)
	}
	if len(updated.AdditionalTrades) != 1 || updated.AdditionalTrades[0].ID != plumber.ID {
		t.Errorf("additional trades not replaced: %+v", updated.AdditionalTrades)
	}
	if len(updated.SocialAccounts) != 1 || updated.SocialAccounts[0].Platform != "youtube" {
		t.Errorf("social accounts not replaced: %+v", updated.SocialAccounts)
	}

	var accounts int64
	f.db.Model(&models.SocialAccount{}).Where("creator_id = ?", creator.ID).Count(&accounts)
	if accounts != 1 {
		t.Errorf("expected 1 stored account, got %d", accounts)
	}

	if _, err := f.profiles.UpdateCreatorProfile(f.ctx, uuid.New(), models.CreatorProfileRequest{DisplayName: "x", PrimaryTradeID: roofer.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a user without a profile, got %v", err)
	}
}

func TestBrandProfile(t *testing.T) {
	f := newFixture(t)
	userID, brand := f.brand("Acme Tiles", 0)

	if brand.Subscription == nil || brand.Subscription.Tier != models.TierNone {
		t.Fatalf("expected the brand to carry its subscription, got %+v", brand.Subscription)
	}

	updated, err := f.profiles.UpdateBrandProfile(f.ctx, userID, models.BrandProfileRequest{CompanyName: "Acme Roofing", Industry: "Roofing"})
	if err != nil {
		t.Fatalf("UpdateBrandProfile failed: %v", err)
	}
	if updated.CompanyName != "Acme Roofing" || updated.Industry != "Roofing" || updated.ContactEmail == "" {
		t.Errorf("unexpected brand %+v", updated)
	}

	me, err := f.profiles.GetMe(f.ctx, userID)
	if err != nil {
		t.Fatalf("GetMe failed: %v", err)
	}
	if me.Profile.Role != models.RoleBrand || me.Brand == nil || me.Creator != nil {
		t.Errorf("unexpected me %+v", me)
	}

	if _, err := f.profiles.GetMe(f.ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if role, err := f.profiles.Role(f.ctx, uuid.New()); err != nil || role != "" {
		t.Errorf("unknown users have no role, got %q (%v)", role, err)
	}
}

func TestTradesAndModeration(t *testing.T) {
	f := newFixture(t)

	trade, err := f.profiles.CreateTrade(f.ctx, models.CreateTradeRequest{Name: "  Heating & Plumbing "})
	if err != nil {
		t.Fatalf("CreateTrade failed: %v", err)
	}
	if trade.Slug != "heating-plumbing" || trade.Name != "Heating & Plumbing" {
		t.Errorf("unexpected trade %+v", trade)
	}
	if _, err := f.profiles.CreateTrade(f.ctx, models.CreateTradeRequest{Name: "Heating", Slug: "Heating Plumbing"}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected duplicate slug to be rejected, got %v", err)
	}
	trades, err := f.profiles.ListTrades(f.ctx)
	if err != nil || len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %v (%v)", trades, err)
	}

	brandUser, _ := f.brand("Acme", 0)
	creatorUser, creator := f.creator(creatorSpec{name: "Sam", trade: trade.ID, accounts: []models.SocialAccountInput{account("x", 10, 1)}})
	brief := f.standardBrief(brandUser, "Boilers")
	f.apply(creatorUser, brief.ID)

	if err := f.profiles.DeleteCreatorProfile(f.ctx, creator.ID); err != nil {
		t.Fatalf("DeleteCreatorProfile failed: %v", err)
	}
	if _, err := f.profiles.GetCreatorProfile(f.ctx, creator.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected the creator to be gone, got %v", err)
	}
	var apps int64
	f.db.Model(&models.Application{}).Where("creator_id = ?", creator.ID).Count(&apps)
	if apps != 0 {
		t.Errorf("expected applications to be removed, got %d", apps)
	}
	if err := f.profiles.DeleteCreatorProfile(f.ctx, creator.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
