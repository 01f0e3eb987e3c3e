package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/partywire/partywire/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PlayerTTL = time.Hour
	cfg.RoomTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:        "conn-1",
		Name:      "Alice",
		Position:  model.Position{X: 10, Y: 20},
		Color:     "#FF0000",
		RoomCode:  "ABC123",
		CreatedAt: time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "conn-1")
	s.Require().NoError(err)
	s.Equal(player.Name, retrieved.Name)
	s.Equal(player.Position, retrieved.Position)
	s.Equal(player.RoomCode, retrieved.RoomCode)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "conn-1", Name: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.DeletePlayer(s.ctx, "conn-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "conn-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestPlayerCountTracksIndex() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-1"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-2"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "conn-1"})

	count, err := s.storage.PlayerCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	_ = s.storage.DeletePlayer(s.ctx, "conn-1")

	count, err = s.storage.PlayerCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *StorageSuite) TestPlayerTTL() {
	player := &model.Player{ID: "conn-1"}
	_ = s.storage.SavePlayer(s.ctx, player)

	ttl := s.mini.TTL(playerKey(player.ID))
	s.True(ttl > 0, "Player should have TTL")
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		Code:       "ABC123",
		HostID:     "conn-1",
		Members:    []model.ConnID{"conn-1", "conn-2"},
		Phase:      model.PhasePlaying,
		MaxPlayers: 4,
		CreatedAt:  time.Now(),
	}

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(room.HostID, retrieved.HostID)
	s.Equal(room.Members, retrieved.Members)
	s.Equal(room.Phase, retrieved.Phase)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "NOSUCH")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomExists() {
	room := &model.Room{Code: "ABC123", HostID: "conn-1", Members: []model.ConnID{"conn-1"}}
	_ = s.storage.SaveRoom(s.ctx, room)

	exists, err := s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.RoomExists(s.ctx, "NOSUCH")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestDeleteRoom() {
	room := &model.Room{Code: "ABC123", HostID: "conn-1", Members: []model.ConnID{"conn-1"}}
	_ = s.storage.SaveRoom(s.ctx, room)

	err := s.storage.DeleteRoom(s.ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)

	count, err := s.storage.RoomCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *StorageSuite) TestRoomTTL() {
	room := &model.Room{Code: "ABC123"}
	_ = s.storage.SaveRoom(s.ctx, room)

	ttl := s.mini.TTL(roomKey(room.Code))
	s.True(ttl > 0, "Room should have TTL")
}
