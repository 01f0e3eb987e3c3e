package storage

import (
	"context"

	"github.com/partywire/partywire/internal/model"
)

// Storage defines the interface for session state persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.ConnID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.ConnID) error
	PlayerCount(ctx context.Context) (int, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	RoomCount(ctx context.Context) (int, error)
}
