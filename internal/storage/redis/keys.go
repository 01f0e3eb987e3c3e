package redis

import (
	"fmt"

	"github.com/partywire/partywire/internal/model"
)

// Key prefix for all coordinator data
const keyPrefix = "partywire"

// playerKey returns the Redis key for a Player
func playerKey(id model.ConnID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// playerIndexKey returns the Redis key for the SET of live player keys
func playerIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// roomIndexKey returns the Redis key for the SET of live room keys
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
