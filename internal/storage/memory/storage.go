package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts        map[string]*model.Account // keyed by lowercased descriptor
	characters      map[uint32]map[uint32]model.CharacterSummary
	sessions        map[string]*model.AccountSession
	players         map[uint32]map[string]json.RawMessage
	nameIndex       map[string]uint32 // lowercased name -> id
	accountSections map[accountSectionKey]json.RawMessage
	online          map[uint32]struct{}
	auctionBidders  map[uint32]struct{}
	vip             map[uint32]map[uint32]model.VipEntry
}

type accountSectionKey struct {
	accountID uint32
	section   string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:        make(map[string]*model.Account),
		characters:      make(map[uint32]map[uint32]model.CharacterSummary),
		sessions:        make(map[string]*model.AccountSession),
		players:         make(map[uint32]map[string]json.RawMessage),
		nameIndex:       make(map[string]uint32),
		accountSections: make(map[accountSectionKey]json.RawMessage),
		online:          make(map[uint32]struct{}),
		auctionBidders:  make(map[uint32]struct{}),
		vip:             make(map[uint32]map[uint32]model.VipEntry),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) GetAccount(ctx context.Context, descriptor string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[strings.ToLower(descriptor)]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	cloned := *account
	return &cloned, nil
}

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := *account
	s.accounts[strings.ToLower(account.Descriptor)] = &cloned
	return nil
}

func (s *Storage) GetAccountCharacters(ctx context.Context, accountID uint32) ([]model.CharacterSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	characters := make([]model.CharacterSummary, 0, len(s.characters[accountID]))
	for _, summary := range s.characters[accountID] {
		characters = append(characters, summary)
	}
	sort.Slice(characters, func(i, j int) bool { return characters[i].ID < characters[j].ID })
	return characters, nil
}

// Session operations

func (s *Storage) GetSession(ctx context.Context, token string) (*model.AccountSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok || session.Expired(time.Now()) {
		return nil, model.ErrSessionNotFound
	}
	cloned := *session
	return &cloned, nil
}

func (s *Storage) SaveSession(ctx context.Context, session *model.AccountSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cloned := *session
	s.sessions[session.Token] = &cloned
	return nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Player record operations

func (s *Storage) GetPlayerRecord(ctx context.Context, id uint32) (*storage.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sections, ok := s.players[id]
	if !ok || len(sections) == 0 {
		return nil, model.ErrPlayerNotFound
	}

	// Copy under the read lock so the snapshot is one consistent read.
	cloned := make(map[string]json.RawMessage, len(sections))
	for name, raw := range sections {
		cloned[name] = raw
	}
	return &storage.PlayerRecord{ID: id, Sections: cloned}, nil
}

func (s *Storage) GetPlayerRecordByName(ctx context.Context, name string) (*storage.PlayerRecord, error) {
	id, err := s.PlayerIDByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.GetPlayerRecord(ctx, id)
}

func (s *Storage) GetAccountSection(ctx context.Context, accountID uint32, section string, v any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.accountSections[accountSectionKey{accountID, section}]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

// SavePlayer stages every write in a transaction buffer and applies the whole
// batch under one lock only when fn succeeds. A failing fn leaves storage
// untouched.
func (s *Storage) SavePlayer(ctx context.Context, id uint32, fn func(tx storage.PlayerTx) error) error {
	tx := &playerTx{id: id}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sections, ok := s.players[id]
	if !ok {
		sections = make(map[string]json.RawMessage)
		s.players[id] = sections
	}
	for name, raw := range tx.sections {
		sections[name] = raw
	}
	for key, raw := range tx.accountSections {
		s.accountSections[key] = raw
	}
	for name, indexed := range tx.nameIndex {
		s.nameIndex[name] = indexed
	}
	for accountID, summaries := range tx.characters {
		existing, ok := s.characters[accountID]
		if !ok {
			existing = make(map[uint32]model.CharacterSummary)
			s.characters[accountID] = existing
		}
		for charID, summary := range summaries {
			existing[charID] = summary
		}
	}
	return nil
}

// playerTx buffers writes until SavePlayer commits them.
type playerTx struct {
	id              uint32
	sections        map[string]json.RawMessage
	accountSections map[accountSectionKey]json.RawMessage
	nameIndex       map[string]uint32
	characters      map[uint32]map[uint32]model.CharacterSummary
}

var _ storage.PlayerTx = (*playerTx)(nil)

func (t *playerTx) SetSection(section string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if t.sections == nil {
		t.sections = make(map[string]json.RawMessage)
	}
	t.sections[section] = data
	return nil
}

func (t *playerTx) SetAccountSection(accountID uint32, section string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if t.accountSections == nil {
		t.accountSections = make(map[accountSectionKey]json.RawMessage)
	}
	t.accountSections[accountSectionKey{accountID, section}] = data
	return nil
}

func (t *playerTx) SetNameIndex(name string, id uint32) {
	if t.nameIndex == nil {
		t.nameIndex = make(map[string]uint32)
	}
	t.nameIndex[strings.ToLower(name)] = id
}

func (t *playerTx) SetCharacterIndex(accountID uint32, summary model.CharacterSummary) error {
	if t.characters == nil {
		t.characters = make(map[uint32]map[uint32]model.CharacterSummary)
	}
	if t.characters[accountID] == nil {
		t.characters[accountID] = make(map[uint32]model.CharacterSummary)
	}
	t.characters[accountID][summary.ID] = summary
	return nil
}

// Lookup operations

func (s *Storage) PlayerIDByName(ctx context.Context, name string) (uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.nameIndex[strings.ToLower(name)]
	if !ok {
		return 0, model.ErrPlayerNotFound
	}
	return id, nil
}

func (s *Storage) PlayerNameByID(ctx context.Context, id uint32) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sections, ok := s.players[id]
	if !ok {
		return "", model.ErrPlayerNotFound
	}
	raw, ok := sections[storage.SectionCore]
	if !ok {
		return "", model.ErrPlayerNotFound
	}

	var core struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &core); err != nil {
		return "", err
	}
	return core.Name, nil
}

func (s *Storage) AdjustBankBalance(ctx context.Context, id uint32, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sections, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}

	var balance int64
	if raw, ok := sections[storage.SectionBankBalance]; ok {
		parsed, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return err
		}
		balance = parsed
	}
	sections[storage.SectionBankBalance] = json.RawMessage(strconv.FormatInt(balance+delta, 10))
	return nil
}

func (s *Storage) HasAuctionBid(ctx context.Context, id uint32) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.auctionBidders[id]
	return ok, nil
}

func (s *Storage) SetAuctionBid(ctx context.Context, id uint32, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if active {
		s.auctionBidders[id] = struct{}{}
	} else {
		delete(s.auctionBidders, id)
	}
	return nil
}

// Online presence records

func (s *Storage) InsertOnlineRecord(ctx context.Context, id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online[id] = struct{}{}
	return nil
}

func (s *Storage) DeleteOnlineRecord(ctx context.Context, id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.online, id)
	return nil
}

func (s *Storage) OnlineRecords(ctx context.Context) ([]uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint32, 0, len(s.online))
	for id := range s.online {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// VIP operations

func (s *Storage) GetVipEntries(ctx context.Context, accountID uint32) ([]model.VipEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.VipEntry, 0, len(s.vip[accountID]))
	for _, entry := range s.vip[accountID] {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].PlayerID < entries[j].PlayerID })
	return entries, nil
}

func (s *Storage) AddVipEntry(ctx context.Context, accountID uint32, entry model.VipEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vip[accountID] == nil {
		s.vip[accountID] = make(map[uint32]model.VipEntry)
	}
	if _, exists := s.vip[accountID][entry.PlayerID]; exists {
		return model.ErrVipEntryExists
	}
	s.vip[accountID][entry.PlayerID] = entry
	return nil
}

func (s *Storage) EditVipEntry(ctx context.Context, accountID uint32, entry model.VipEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vip[accountID][entry.PlayerID]; !exists {
		return model.ErrVipEntryNotFound
	}
	s.vip[accountID][entry.PlayerID] = entry
	return nil
}

func (s *Storage) RemoveVipEntry(ctx context.Context, accountID uint32, playerID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.vip[accountID], playerID)
	return nil
}
