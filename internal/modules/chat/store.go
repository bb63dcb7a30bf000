package chat

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RoomStore is the chat state the providers read. Implemented by
// RedisStore in production and by fakes in tests.
type RoomStore interface {
	// Rooms returns all chat rooms as id -> title.
	Rooms(ctx context.Context) (map[string]string, error)

	// RoomMembers returns the display names of a room's members.
	RoomMembers(ctx context.Context, roomID string) ([]string, error)

	// UnreadCount returns the user's unread mention count.
	UnreadCount(ctx context.Context, userID string) (int, error)
}

// RedisStore reads chat state from Redis. Rooms live in the chat:rooms
// hash, members in chat:room:<id>:members sets, unread mention counters
// in chat:unread:<user> keys.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Rooms returns all chat rooms.
func (s *RedisStore) Rooms(ctx context.Context) (map[string]string, error) {
	rooms, err := s.rdb.HGetAll(ctx, "chat:rooms").Result()
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	return rooms, nil
}

// RoomMembers returns a room's member display names.
func (s *RedisStore) RoomMembers(ctx context.Context, roomID string) ([]string, error) {
	members, err := s.rdb.SMembers(ctx, "chat:room:"+roomID+":members").Result()
	if err != nil {
		return nil, fmt.Errorf("load members of %s: %w", roomID, err)
	}
	return members, nil
}

// UnreadCount returns the user's unread mention count. A missing key
// means zero.
func (s *RedisStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := s.rdb.Get(ctx, "chat:unread:"+userID).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("unread count: %w", err)
	}
	return n, nil
}
