package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mverne/openrealm/internal/model"
	"github.com/mverne/openrealm/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) GetAccount(ctx context.Context, descriptor string) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(descriptor)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, accountKey(account.Descriptor), data, 0).Err()
}

func (s *Storage) GetAccountCharacters(ctx context.Context, accountID uint32) ([]model.CharacterSummary, error) {
	fields, err := s.client.HGetAll(ctx, accountCharactersKey(accountID)).Result()
	if err != nil {
		return nil, err
	}

	characters := make([]model.CharacterSummary, 0, len(fields))
	for _, raw := range fields {
		var summary model.CharacterSummary
		if err := json.Unmarshal([]byte(raw), &summary); err != nil {
			return nil, err
		}
		characters = append(characters, summary)
	}
	sort.Slice(characters, func(i, j int) bool { return characters[i].ID < characters[j].ID })
	return characters, nil
}

// Session operations

func (s *Storage) GetSession(ctx context.Context, token string) (*model.AccountSession, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.AccountSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) SaveSession(ctx context.Context, session *model.AccountSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return s.DeleteSession(ctx, session.Token)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.Token), data, ttl).Err()
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

// Player record operations

func (s *Storage) GetPlayerRecord(ctx context.Context, id uint32) (*storage.PlayerRecord, error) {
	// One HGETALL is one consistent snapshot of every section.
	fields, err := s.client.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrPlayerNotFound
	}

	sections := make(map[string]json.RawMessage, len(fields))
	for name, raw := range fields {
		sections[name] = json.RawMessage(raw)
	}
	return &storage.PlayerRecord{ID: id, Sections: sections}, nil
}

func (s *Storage) GetPlayerRecordByName(ctx context.Context, name string) (*storage.PlayerRecord, error) {
	id, err := s.PlayerIDByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.GetPlayerRecord(ctx, id)
}

func (s *Storage) GetAccountSection(ctx context.Context, accountID uint32, section string, v any) (bool, error) {
	data, err := s.client.Get(ctx, accountSectionKey(accountID, section)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// SavePlayer stages every write on a MULTI/EXEC pipeline. The batch executes
// only when fn returns nil; any failure discards the pipeline so storage is
// left exactly as it was before the call.
func (s *Storage) SavePlayer(ctx context.Context, id uint32, fn func(tx storage.PlayerTx) error) error {
	pipe := s.client.TxPipeline()
	tx := &playerTx{ctx: ctx, pipe: pipe, id: id}

	if err := fn(tx); err != nil {
		pipe.Discard()
		return err
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return nil
}

// playerTx queues player writes on a transactional pipeline.
type playerTx struct {
	ctx  context.Context
	pipe redis.Pipeliner
	id   uint32
}

var _ storage.PlayerTx = (*playerTx)(nil)

func (t *playerTx) SetSection(section string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	t.pipe.HSet(t.ctx, playerKey(t.id), section, data)
	return nil
}

func (t *playerTx) SetAccountSection(accountID uint32, section string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	t.pipe.Set(t.ctx, accountSectionKey(accountID, section), data, 0)
	return nil
}

func (t *playerTx) SetNameIndex(name string, id uint32) {
	t.pipe.Set(t.ctx, playerNameIndexKey(name), strconv.FormatUint(uint64(id), 10), 0)
}

func (t *playerTx) SetCharacterIndex(accountID uint32, summary model.CharacterSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	t.pipe.HSet(t.ctx, accountCharactersKey(accountID), strconv.FormatUint(uint64(summary.ID), 10), data)
	return nil
}

// Lookup operations

func (s *Storage) PlayerIDByName(ctx context.Context, name string) (uint32, error) {
	raw, err := s.client.Get(ctx, playerNameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, model.ErrPlayerNotFound
		}
		return 0, err
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(id), nil
}

func (s *Storage) PlayerNameByID(ctx context.Context, id uint32) (string, error) {
	raw, err := s.client.HGet(ctx, playerKey(id), storage.SectionCore).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", model.ErrPlayerNotFound
		}
		return "", err
	}

	var core struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(raw), &core); err != nil {
		return "", err
	}
	return core.Name, nil
}

func (s *Storage) AdjustBankBalance(ctx context.Context, id uint32, delta int64) error {
	exists, err := s.client.Exists(ctx, playerKey(id)).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return model.ErrPlayerNotFound
	}
	// The balance section is a bare integer field, adjusted in place.
	return s.client.HIncrBy(ctx, playerKey(id), storage.SectionBankBalance, delta).Err()
}

func (s *Storage) HasAuctionBid(ctx context.Context, id uint32) (bool, error) {
	return s.client.SIsMember(ctx, auctionBiddersKey(), strconv.FormatUint(uint64(id), 10)).Result()
}

func (s *Storage) SetAuctionBid(ctx context.Context, id uint32, active bool) error {
	member := strconv.FormatUint(uint64(id), 10)
	if active {
		return s.client.SAdd(ctx, auctionBiddersKey(), member).Err()
	}
	return s.client.SRem(ctx, auctionBiddersKey(), member).Err()
}

// Online presence records

func (s *Storage) InsertOnlineRecord(ctx context.Context, id uint32) error {
	return s.client.SAdd(ctx, onlineKey(), strconv.FormatUint(uint64(id), 10)).Err()
}

func (s *Storage) DeleteOnlineRecord(ctx context.Context, id uint32) error {
	return s.client.SRem(ctx, onlineKey(), strconv.FormatUint(uint64(id), 10)).Err()
}

func (s *Storage) OnlineRecords(ctx context.Context) ([]uint32, error) {
	members, err := s.client.SMembers(ctx, onlineKey()).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uint32, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseUint(member, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint32(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// VIP operations

func (s *Storage) GetVipEntries(ctx context.Context, accountID uint32) ([]model.VipEntry, error) {
	fields, err := s.client.HGetAll(ctx, vipKey(accountID)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.VipEntry, 0, len(fields))
	for _, raw := range fields {
		var entry model.VipEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].PlayerID < entries[j].PlayerID })
	return entries, nil
}

func (s *Storage) AddVipEntry(ctx context.Context, accountID uint32, entry model.VipEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	// HSETNX keeps the (account, target) pair unique.
	added, err := s.client.HSetNX(ctx, vipKey(accountID), vipField(entry.PlayerID), data).Result()
	if err != nil {
		return err
	}
	if !added {
		return model.ErrVipEntryExists
	}
	return nil
}

func (s *Storage) EditVipEntry(ctx context.Context, accountID uint32, entry model.VipEntry) error {
	exists, err := s.client.HExists(ctx, vipKey(accountID), vipField(entry.PlayerID)).Result()
	if err != nil {
		return err
	}
	if !exists {
		return model.ErrVipEntryNotFound
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, vipKey(accountID), vipField(entry.PlayerID), data).Err()
}

func (s *Storage) RemoveVipEntry(ctx context.Context, accountID uint32, playerID uint32) error {
	return s.client.HDel(ctx, vipKey(accountID), vipField(playerID)).Err()
}

func vipField(playerID uint32) string {
	return strconv.FormatUint(uint64(playerID), 10)
}
