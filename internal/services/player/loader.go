package player

import (
	"context"
	"errors"
	"time"

	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
)

// loadStep is one sub-loader: it populates a slice of the aggregate from the
// result snapshot. Steps run strictly in list order.
type loadStep struct {
	name string
	fn   func(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error
}

// buildLoadSteps returns the ordered sub-loader list and the number of steps
// a minimal load runs. All steps read from the one record snapshot except
// store_inbox and vip, which are account-scoped and read independently.
//
// The relative order mirrors the persisted schema's dependency chain: core
// identity first, item trees after the scalar state, the finalization passes
// last. Within the item trees the slots are independent fields of the
// aggregate, so only the original ordering is preserved, not a hard
// dependency.
func (s *Service) buildLoadSteps() ([]loadStep, int) {
	steps := []loadStep{
		{"core", s.loadCore},
		{"experience", s.loadExperience},
		{"blessings", s.loadBlessings},
		{"conditions", s.loadConditions},
		{"outfit", s.loadOutfit},
		{"skull", s.loadSkull},
		{"skills", s.loadSkills},
		{"kills", s.loadKills},
		{"guild", s.loadGuild},
		{"stash", s.loadStash},
		{"charms", s.loadCharms},
		{"spells", s.loadSpells},
		{"inventory", s.loadInventory},
		{"store_inbox", s.loadStoreInbox},
		{"depots", s.loadDepots},
		{"rewards", s.loadRewards},
		{"inbox", s.loadInbox},
		{"storage", s.loadStorageMap},
		{"vip", s.loadVip},
		{"prey", s.loadPrey},
		{"task_hunting", s.loadTaskHunting},
	}
	minimal := len(steps)

	// Loaded only when the player actually enters the world.
	steps = append(steps,
		loadStep{"forge_history", s.loadForgeHistory},
		loadStep{"bosstiary", s.loadBosstiary},
		loadStep{"wheel", s.loadWheel},
		loadStep{"initialize", s.initializeDerivedState},
		loadStep{"reconcile", s.reconcileOfflineTime},
	)
	return steps, minimal
}

func (s *Service) loadCore(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	var core corePayload
	ok, err := rec.Section(storage.SectionCore, &core)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("record has no core section")
	}
	core.applyTo(p)

	if _, err := rec.Section(storage.SectionBankBalance, &p.BankBalance); err != nil {
		return err
	}
	return nil
}

func (s *Service) loadExperience(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	var exp experiencePayload
	if _, err := rec.Section(storage.SectionExperience, &exp); err != nil {
		return err
	}
	p.Level = exp.Level
	p.Experience = exp.Experience
	p.MagicLevel = exp.MagicLevel
	p.ManaSpent = exp.ManaSpent
	return nil
}

func (s *Service) loadBlessings(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionBlessings, &p.Blessings)
	return err
}

func (s *Service) loadConditions(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionConditions, &p.Conditions)
	return err
}

func (s *Service) loadOutfit(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionOutfit, &p.Outfit)
	return err
}

func (s *Service) loadSkull(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionSkull, &p.Skull)
	return err
}

func (s *Service) loadSkills(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionSkills, &p.Skills)
	return err
}

func (s *Service) loadKills(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionKills, &p.Kills)
	return err
}

func (s *Service) loadGuild(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionGuild, &p.Guild)
	return err
}

func (s *Service) loadStash(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionStash, &p.Stash)
	return err
}

func (s *Service) loadCharms(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionCharms, &p.Charms)
	return err
}

func (s *Service) loadSpells(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionSpells, &p.Spells)
	return err
}

func (s *Service) loadInventory(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionInventory, &p.Inventory)
	return err
}

// loadStoreInbox reads outside the snapshot: the store inbox is scoped to
// the owning account, not to the player record.
func (s *Service) loadStoreInbox(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := s.storage.GetAccountSection(ctx, p.AccountID, storage.AccountSectionStoreInbox, &p.StoreInbox)
	return err
}

func (s *Service) loadDepots(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionDepots, &p.Depots)
	return err
}

func (s *Service) loadRewards(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionRewards, &p.Rewards)
	return err
}

func (s *Service) loadInbox(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionInbox, &p.Inbox)
	return err
}

func (s *Service) loadStorageMap(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionStorage, &p.Storage)
	return err
}

// loadVip reads outside the snapshot: the VIP list belongs to the account.
func (s *Service) loadVip(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	entries, err := s.storage.GetVipEntries(ctx, p.AccountID)
	if err != nil {
		return err
	}
	p.VipEntries = entries
	return nil
}

func (s *Service) loadPrey(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionPrey, &p.Prey)
	return err
}

func (s *Service) loadTaskHunting(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionTaskHunting, &p.TaskHunting)
	return err
}

func (s *Service) loadForgeHistory(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionForge, &p.ForgeHistory)
	return err
}

func (s *Service) loadBosstiary(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionBosstiary, &p.Bosstiary)
	return err
}

func (s *Service) loadWheel(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	_, err := rec.Section(storage.SectionWheel, &p.Wheel)
	return err
}

// initializeDerivedState normalizes structures the rest of the server
// assumes exist on a live player.
func (s *Service) initializeDerivedState(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	if p.Stash == nil {
		p.Stash = make(map[uint16]uint32)
	}
	if p.Storage == nil {
		p.Storage = make(map[uint32]int32)
	}
	if p.Depots == nil {
		p.Depots = make(map[uint32]*model.Item)
	}
	if p.Rewards == nil {
		p.Rewards = make(map[uint64]*model.Item)
	}
	if p.Bosstiary.Kills == nil {
		p.Bosstiary.Kills = make(map[uint32]uint32)
	}
	if p.Wheel.SlotPoints == nil {
		p.Wheel.SlotPoints = make(map[string]uint16)
	}

	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
	if p.Mana > p.MaxMana {
		p.Mana = p.MaxMana
	}
	return nil
}

// reconcileOfflineTime elapses time that passed while the player was logged
// out: conditions tick down, expired skulls clear, stamina regenerates.
func (s *Service) reconcileOfflineTime(ctx context.Context, p *model.Player, rec *storage.PlayerRecord) error {
	now := s.clock.Now()

	var offline time.Duration
	if !p.LastLogout.IsZero() && now.After(p.LastLogout) {
		offline = now.Sub(p.LastLogout)
	}

	if offline > 0 {
		elapsed := offline.Milliseconds()
		kept := p.Conditions[:0]
		for _, condition := range p.Conditions {
			condition.Ticks -= elapsed
			if condition.Ticks > 0 {
				kept = append(kept, condition)
			}
		}
		p.Conditions = kept

		for i := range p.Prey {
			if p.Prey[i].TimeLeft > 0 {
				p.Prey[i].TimeLeft -= elapsed
				if p.Prey[i].TimeLeft < 0 {
					p.Prey[i].TimeLeft = 0
				}
			}
		}

		// One stamina minute back per three minutes offline.
		regained := offline / (3 * time.Minute)
		stamina := int64(p.Stamina) + int64(regained)
		if stamina > model.StaminaMax {
			stamina = model.StaminaMax
		}
		p.Stamina = uint16(stamina)
	}

	if p.Skull.Type != 0 && !p.Skull.Until.IsZero() && now.After(p.Skull.Until) {
		p.Skull = model.SkullInfo{}
	}
	return nil
}
