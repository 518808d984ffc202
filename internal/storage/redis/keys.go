package redis

import (
	"fmt"
	"strings"
)

// Key prefix for all realm data
const keyPrefix = "openrealm"

// Key generation functions for each entity type

// playerKey returns the Redis key of the player record hash. Each hash field
// is one JSON section, so a single HGETALL is one consistent snapshot.
func playerKey(id uint32) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// playerNameIndexKey returns the Redis key for the name -> player id index
func playerNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:player_name:%s", keyPrefix, strings.ToLower(name))
}

// accountKey returns the Redis key for an Account
func accountKey(descriptor string) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, strings.ToLower(descriptor))
}

// accountCharactersKey returns the Redis key of the account's character-list hash
func accountCharactersKey(accountID uint32) string {
	return fmt.Sprintf("%s:account_characters:%d", keyPrefix, accountID)
}

// accountSectionKey returns the Redis key for an account-scoped section
func accountSectionKey(accountID uint32, section string) string {
	return fmt.Sprintf("%s:account_section:%d:%s", keyPrefix, accountID, section)
}

// sessionKey returns the Redis key for a login session token
func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

// onlineKey returns the Redis key of the online-players set
func onlineKey() string {
	return fmt.Sprintf("%s:online", keyPrefix)
}

// vipKey returns the Redis key of an account's VIP hash (field = player id)
func vipKey(accountID uint32) string {
	return fmt.Sprintf("%s:account_vip:%d", keyPrefix, accountID)
}

// auctionBiddersKey returns the Redis key of the outstanding-auction-bid set
func auctionBiddersKey() string {
	return fmt.Sprintf("%s:auction_bidders", keyPrefix)
}
