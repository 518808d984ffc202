package player

import (
	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
)

// saveStep is one sub-saver: it stages a slice of the aggregate on the open
// save transaction. The first failure aborts the whole transaction.
type saveStep struct {
	name string
	fn   func(p *model.Player, tx storage.PlayerTx) error
}

// buildSaveSteps returns the fixed sub-saver order. The order is
// load-bearing: the storage map is written last because its entries may
// reference container structures established by the item steps, and the core
// step goes first so the name/character indexes always match the record they
// point at.
func (s *Service) buildSaveSteps() []saveStep {
	return []saveStep{
		{"core", s.saveCore},
		{"stash", s.saveStash},
		{"spells", s.saveSpells},
		{"kills", s.saveKills},
		{"bestiary", s.saveBestiary},
		{"inventory", s.saveInventory},
		{"depots", s.saveDepots},
		{"rewards", s.saveRewards},
		{"inbox", s.saveInbox},
		{"prey", s.savePrey},
		{"task_hunting", s.saveTaskHunting},
		{"forge_history", s.saveForgeHistory},
		{"bosstiary", s.saveBosstiary},
		{"wheel", s.saveWheel},
		{"storage", s.saveStorageMap},
	}
}

// saveCore stages the identity/stat fields plus the experience, blessing,
// condition, outfit, skull, skill and guild columns of the player row, and
// keeps the name and account character indexes in step with them.
func (s *Service) saveCore(p *model.Player, tx storage.PlayerTx) error {
	if err := tx.SetSection(storage.SectionCore, coreFromPlayer(p)); err != nil {
		return err
	}
	if err := tx.SetSection(storage.SectionBankBalance, p.BankBalance); err != nil {
		return err
	}
	if err := tx.SetSection(storage.SectionExperience, experiencePayload{
		Level:      p.Level,
		Experience: p.Experience,
		MagicLevel: p.MagicLevel,
		ManaSpent:  p.ManaSpent,
	}); err != nil {
		return err
	}
	if err := tx.SetSection(storage.SectionBlessings, p.Blessings); err != nil {
		return err
	}
	if err := tx.SetSection(storage.SectionConditions, p.Conditions); err != nil {
		return err
	}
	if err := tx.SetSection(storage.SectionOutfit, p.Outfit); err != nil {
		return err
	}
	if err := tx.SetSection(storage.SectionSkull, p.Skull); err != nil {
		return err
	}
	if err := tx.SetSection(storage.SectionSkills, p.Skills); err != nil {
		return err
	}
	if err := tx.SetSection(storage.SectionGuild, p.Guild); err != nil {
		return err
	}

	tx.SetNameIndex(p.Name, p.ID)
	return tx.SetCharacterIndex(p.AccountID, model.CharacterSummary{
		ID:      p.ID,
		Name:    p.Name,
		Deleted: p.Deleted,
	})
}

func (s *Service) saveStash(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionStash, p.Stash)
}

func (s *Service) saveSpells(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionSpells, p.Spells)
}

func (s *Service) saveKills(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionKills, p.Kills)
}

func (s *Service) saveBestiary(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionCharms, p.Charms)
}

// saveInventory stages the equipped item trees and the account's store
// inbox, which shares the inventory's item encoding.
func (s *Service) saveInventory(p *model.Player, tx storage.PlayerTx) error {
	if err := tx.SetSection(storage.SectionInventory, p.Inventory); err != nil {
		return err
	}
	return tx.SetAccountSection(p.AccountID, storage.AccountSectionStoreInbox, p.StoreInbox)
}

func (s *Service) saveDepots(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionDepots, p.Depots)
}

func (s *Service) saveRewards(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionRewards, p.Rewards)
}

func (s *Service) saveInbox(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionInbox, p.Inbox)
}

func (s *Service) savePrey(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionPrey, p.Prey)
}

func (s *Service) saveTaskHunting(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionTaskHunting, p.TaskHunting)
}

func (s *Service) saveForgeHistory(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionForge, p.ForgeHistory)
}

func (s *Service) saveBosstiary(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionBosstiary, p.Bosstiary)
}

func (s *Service) saveWheel(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionWheel, p.Wheel)
}

func (s *Service) saveStorageMap(p *model.Player, tx storage.PlayerTx) error {
	return tx.SetSection(storage.SectionStorage, p.Storage)
}
