package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mverne/openrealm/internal/dependencies/mocks"
	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
	"github.com/mverne/openrealm/internal/storage/memory"
	"github.com/mverne/openrealm/internal/testutil"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(baseTime)
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

// fullPlayer builds an aggregate exercising every persisted section. Its
// logout time matches the mock clock so loading it elapses no offline time.
func (s *ServiceSuite) fullPlayer() *model.Player {
	p := &model.Player{
		ID:        7,
		AccountID: 1,
		Name:      "Aldora",
		Sex:       1,
		Vocation:  3,
		TownID:    2,

		Health:    150,
		MaxHealth: 185,
		Mana:      90,
		MaxMana:   90,
		Soul:      100,
		Capacity:  470,
		Stamina:   2400,

		BankBalance: 12500,
		LastLogin:   baseTime.Add(-2 * time.Hour),
		LastLogout:  baseTime,

		Level:      20,
		Experience: 42500,
		MagicLevel: 9,
		ManaSpent:  15000,

		Blessings: []model.Blessing{{ID: 1, Count: 2}},
		Conditions: []model.Condition{
			{Type: 4, Ticks: 60000},
		},
		Outfit: model.Outfit{LookType: 128, Head: 78, Body: 69, Legs: 58, Feet: 76},
		Skull:  model.SkullInfo{Type: 3, Until: baseTime.Add(time.Hour)},
		Kills: []model.Kill{
			{TargetID: 99, Time: baseTime.Add(-time.Hour), Unavenged: true},
		},
		Guild: &model.GuildMembership{GuildID: 5, RankID: 2, Nick: "Scout"},

		Stash: map[uint16]uint32{3031: 540},
		Charms: model.CharmProgress{
			Points:         120,
			UnlockedCharms: []uint16{1, 4},
			TrackedRaces:   []uint16{21},
		},
		Spells: []string{"exura", "exori"},

		Depots: map[uint32]*model.Item{
			1: {ServerID: 2590, Count: 1, Content: []*model.Item{
				{ServerID: 3031, Count: 100},
			}},
		},
		Rewards: map[uint64]*model.Item{
			161000: {ServerID: 21518, Count: 1},
		},
		Inbox:      &model.Item{ServerID: 2594, Count: 1},
		StoreInbox: &model.Item{ServerID: 2596, Count: 1},

		Storage: map[uint32]int32{30015: 1, 30020: 7},

		Prey: []model.PreySlot{
			{Slot: 0, State: 2, RaceID: 21, BonusType: 1, BonusValue: 25, TimeLeft: 7200000},
		},
		TaskHunting: []model.TaskHuntingSlot{
			{Slot: 0, State: 1, RaceID: 21, Kills: 40},
		},

		ForgeHistory: []model.ForgeHistoryEntry{
			{Action: 1, Description: "fusion", Success: true, CreatedAt: baseTime.Add(-time.Hour)},
		},
		Bosstiary: model.BosstiaryProgress{
			Points:      50,
			BossIDSlots: [2]uint32{1290, 0},
			Kills:       map[uint32]uint32{1290: 13},
		},
		Wheel: model.WheelState{
			Points:     19,
			SlotPoints: map[string]uint16{"health": 10, "mana": 9},
		},
	}
	p.Inventory[model.SlotHead] = &model.Item{ServerID: 2457, Count: 1, Tier: 2}
	p.Inventory[model.SlotBackpack] = &model.Item{ServerID: 2854, Count: 1, Content: []*model.Item{
		{ServerID: 3031, Count: 20, Attributes: map[string]string{"aid": "1000"}},
	}}
	return p
}

func (s *ServiceSuite) TestSaveAndReloadRoundTrip() {
	p := s.fullPlayer()

	vipEntry := model.VipEntry{PlayerID: 3, Name: "Borin", Notify: true}
	s.Require().NoError(s.storage.AddVipEntry(s.ctx, p.AccountID, vipEntry))

	s.Require().NoError(s.service.Save(s.ctx, p))

	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)

	// The VIP list is account state, loaded alongside the snapshot
	expected := *p
	expected.VipEntries = []model.VipEntry{vipEntry}

	s.Equal(&expected, loaded)
}

func (s *ServiceSuite) TestLoadByName() {
	p := s.fullPlayer()
	s.Require().NoError(s.service.Save(s.ctx, p))

	loaded, err := s.service.LoadByName(s.ctx, "aldora", false)
	s.Require().NoError(err)
	s.Equal(uint32(7), loaded.ID)
	s.Equal("Aldora", loaded.Name)
}

func (s *ServiceSuite) TestLoadUnknownPlayer() {
	_, err := s.service.LoadByID(s.ctx, 999, false)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestMinimalLoadSkipsFullOnlySections() {
	p := s.fullPlayer()
	p.Stamina = 1000
	s.Require().NoError(s.service.Save(s.ctx, p))

	s.clock.Advance(6 * time.Hour)

	loaded, err := s.service.LoadByID(s.ctx, 7, true)
	s.Require().NoError(err)

	// Sections behind the minimal boundary stay at their zero values
	s.Empty(loaded.ForgeHistory)
	s.Equal(model.BosstiaryProgress{}, loaded.Bosstiary)
	s.Equal(model.WheelState{}, loaded.Wheel)

	// Offline reconciliation also only runs on a full load
	s.Equal(uint16(1000), loaded.Stamina)
	s.Require().Len(loaded.Conditions, 1)
	s.Equal(int64(60000), loaded.Conditions[0].Ticks)
}

func (s *ServiceSuite) TestMinimalLoadStillReadsIdentityAndItems() {
	p := s.fullPlayer()
	s.Require().NoError(s.service.Save(s.ctx, p))

	loaded, err := s.service.LoadByID(s.ctx, 7, true)
	s.Require().NoError(err)

	s.Equal("Aldora", loaded.Name)
	s.Equal(uint64(12500), loaded.BankBalance)
	s.NotNil(loaded.Inventory[model.SlotHead])
	s.NotNil(loaded.StoreInbox)
	s.Len(loaded.TaskHunting, 1)
}

func (s *ServiceSuite) TestLoadWithoutCoreSectionFails() {
	err := s.storage.SavePlayer(s.ctx, 7, func(tx storage.PlayerTx) error {
		return tx.SetSection(storage.SectionStash, map[uint16]uint32{1: 1})
	})
	s.Require().NoError(err)

	_, err = s.service.LoadByID(s.ctx, 7, false)

	var stepErr *model.LoadStepError
	s.Require().ErrorAs(err, &stepErr)
	s.Equal("core", stepErr.Step)
}

func (s *ServiceSuite) TestLoadCorruptSectionReturnsNoAggregate() {
	p := s.fullPlayer()
	s.Require().NoError(s.service.Save(s.ctx, p))

	// Overwrite the skills section with data of the wrong shape
	err := s.storage.SavePlayer(s.ctx, 7, func(tx storage.PlayerTx) error {
		return tx.SetSection(storage.SectionSkills, "corrupt")
	})
	s.Require().NoError(err)

	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Nil(loaded)

	var stepErr *model.LoadStepError
	s.Require().ErrorAs(err, &stepErr)
	s.Equal("skills", stepErr.Step)
}

func (s *ServiceSuite) TestSaveNilPlayer() {
	err := s.service.Save(s.ctx, nil)
	s.ErrorIs(err, model.ErrInvalidSaveTarget)
}

func (s *ServiceSuite) TestSaveStepFailureLeavesPreSaveState() {
	p := s.fullPlayer()
	s.Require().NoError(s.service.Save(s.ctx, p))

	// Make the last step fail after every earlier step has staged its writes
	failure := errors.New("write refused")
	for i := range s.service.saveSteps {
		if s.service.saveSteps[i].name == "storage" {
			s.service.saveSteps[i].fn = func(p *model.Player, tx storage.PlayerTx) error {
				return failure
			}
		}
	}

	p.Level = 21
	p.BankBalance = 99999
	p.Inventory[model.SlotHead] = &model.Item{ServerID: 2497, Count: 1}

	err := s.service.Save(s.ctx, p)

	var stepErr *model.SaveStepError
	s.Require().ErrorAs(err, &stepErr)
	s.Equal("storage", stepErr.Step)
	s.Equal("Aldora", stepErr.Player)
	s.ErrorIs(err, failure)

	// Every earlier step's staged write was discarded with the failed one
	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)
	s.Equal(uint32(20), loaded.Level)
	s.Equal(uint64(12500), loaded.BankBalance)
	s.Equal(uint16(2457), loaded.Inventory[model.SlotHead].ServerID)
}

func (s *ServiceSuite) TestConditionsTickDownWhileOffline() {
	p := s.fullPlayer()
	p.Conditions = []model.Condition{
		{Type: 4, Ticks: 10 * 60 * 1000},
		{Type: 5, Ticks: 60 * 1000},
	}
	s.Require().NoError(s.service.Save(s.ctx, p))

	s.clock.Advance(5 * time.Minute)

	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)

	// The five-minute condition remains with its time reduced, the
	// one-minute condition has run out entirely
	s.Require().Len(loaded.Conditions, 1)
	s.Equal(uint8(4), loaded.Conditions[0].Type)
	s.Equal(int64(5*60*1000), loaded.Conditions[0].Ticks)
}

func (s *ServiceSuite) TestStaminaRegeneratesWhileOffline() {
	p := s.fullPlayer()
	p.Stamina = 1000
	s.Require().NoError(s.service.Save(s.ctx, p))

	s.clock.Advance(30 * time.Minute)

	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)
	s.Equal(uint16(1010), loaded.Stamina)
}

func (s *ServiceSuite) TestStaminaCapsAtMax() {
	p := s.fullPlayer()
	p.Stamina = model.StaminaMax - 1
	s.Require().NoError(s.service.Save(s.ctx, p))

	s.clock.Advance(24 * time.Hour)

	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)
	s.Equal(uint16(model.StaminaMax), loaded.Stamina)
}

func (s *ServiceSuite) TestExpiredSkullClearsOnLoad() {
	p := s.fullPlayer()
	p.Skull = model.SkullInfo{Type: 3, Until: baseTime.Add(time.Hour)}
	s.Require().NoError(s.service.Save(s.ctx, p))

	s.clock.Advance(2 * time.Hour)

	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)
	s.Equal(model.SkullInfo{}, loaded.Skull)
}

func (s *ServiceSuite) TestPreyTimeDecaysToZero() {
	p := s.fullPlayer()
	p.Prey = []model.PreySlot{{Slot: 0, State: 2, RaceID: 21, TimeLeft: 60 * 1000}}
	s.Require().NoError(s.service.Save(s.ctx, p))

	s.clock.Advance(time.Hour)

	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)
	s.Require().Len(loaded.Prey, 1)
	s.Equal(int64(0), loaded.Prey[0].TimeLeft)
}

func (s *ServiceSuite) TestHealthClampedToMaximum() {
	p := s.fullPlayer()
	p.Health = 500
	p.MaxHealth = 185
	s.Require().NoError(s.service.Save(s.ctx, p))

	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)
	s.Equal(int32(185), loaded.Health)
}

func (s *ServiceSuite) TestFullLoadAllocatesEmptyCollections() {
	minimal := &model.Player{
		ID:        8,
		AccountID: 1,
		Name:      "Novice",
		MaxHealth: 150,
		Health:    150,
	}
	s.Require().NoError(s.service.Save(s.ctx, minimal))

	loaded, err := s.service.LoadByID(s.ctx, 8, false)
	s.Require().NoError(err)
	s.NotNil(loaded.Stash)
	s.NotNil(loaded.Storage)
	s.NotNil(loaded.Depots)
	s.NotNil(loaded.Rewards)
	s.NotNil(loaded.Bosstiary.Kills)
	s.NotNil(loaded.Wheel.SlotPoints)
}

// Lookup tests

func (s *ServiceSuite) TestFormatName() {
	p := s.fullPlayer()
	s.Require().NoError(s.service.Save(s.ctx, p))

	formatted, err := s.service.FormatName(s.ctx, "aLdOrA")
	s.Require().NoError(err)
	s.Equal("Aldora", formatted)
}

func (s *ServiceSuite) TestNameAndIDLookups() {
	p := s.fullPlayer()
	s.Require().NoError(s.service.Save(s.ctx, p))

	id, err := s.service.IDByName(s.ctx, "Aldora")
	s.Require().NoError(err)
	s.Equal(uint32(7), id)

	name, err := s.service.NameByID(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal("Aldora", name)

	_, err = s.service.IDByName(s.ctx, "Nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestAdjustBankBalance() {
	p := s.fullPlayer()
	s.Require().NoError(s.service.Save(s.ctx, p))

	s.Require().NoError(s.service.AdjustBankBalance(s.ctx, 7, -2500))

	loaded, err := s.service.LoadByID(s.ctx, 7, false)
	s.Require().NoError(err)
	s.Equal(uint64(10000), loaded.BankBalance)
}

func (s *ServiceSuite) TestHasAuctionBid() {
	has, err := s.service.HasAuctionBid(s.ctx, 7)
	s.Require().NoError(err)
	s.False(has)

	s.Require().NoError(s.storage.SetAuctionBid(s.ctx, 7, true))

	has, err = s.service.HasAuctionBid(s.ctx, 7)
	s.Require().NoError(err)
	s.True(has)
}
