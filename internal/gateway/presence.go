package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PresenceRegistry tracks which users are connected to which consultation
// room. The in-memory implementation serves a single instance; the Redis
// one keeps presence consistent across instances.
type PresenceRegistry interface {
	Join(ctx context.Context, consultationID, userID uuid.UUID) error
	Leave(ctx context.Context, consultationID, userID uuid.UUID) error
	Members(ctx context.Context, consultationID uuid.UUID) ([]uuid.UUID, error)
}

type memoryPresence struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewMemoryPresence() PresenceRegistry {
	return &memoryPresence{rooms: make(map[uuid.UUID]map[uuid.UUID]struct{})}
}

func (p *memoryPresence) Join(_ context.Context, consultationID, userID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	room, ok := p.rooms[consultationID]
	if !ok {
		room = make(map[uuid.UUID]struct{})
		p.rooms[consultationID] = room
	}
	room[userID] = struct{}{}
	return nil
}

func (p *memoryPresence) Leave(_ context.Context, consultationID, userID uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if room, ok := p.rooms[consultationID]; ok {
		delete(room, userID)
		if len(room) == 0 {
			delete(p.rooms, consultationID)
		}
	}
	return nil
}

func (p *memoryPresence) Members(_ context.Context, consultationID uuid.UUID) ([]uuid.UUID, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	room := p.rooms[consultationID]
	members := make([]uuid.UUID, 0, len(room))
	for id := range room {
		members = append(members, id)
	}
	return members, nil
}

const presenceTTL = 2 * time.Hour

type redisPresence struct {
	client *redis.Client
}

func NewRedisPresence(client *redis.Client) PresenceRegistry {
	return &redisPresence{client: client}
}

func presenceKey(consultationID uuid.UUID) string {
	return "presence:consultation:" + consultationID.String()
}

func (p *redisPresence) Join(ctx context.Context, consultationID, userID uuid.UUID) error {
	key := presenceKey(consultationID)
	pipe := p.client.TxPipeline()
	pipe.SAdd(ctx, key, userID.String())
	pipe.Expire(ctx, key, presenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record presence: %w", err)
	}
	return nil
}

func (p *redisPresence) Leave(ctx context.Context, consultationID, userID uuid.UUID) error {
	if err := p.client.SRem(ctx, presenceKey(consultationID), userID.String()).Err(); err != nil {
		return fmt.Errorf("failed to clear presence: %w", err)
	}
	return nil
}

func (p *redisPresence) Members(ctx context.Context, consultationID uuid.UUID) ([]uuid.UUID, error) {
	raw, err := p.client.SMembers(ctx, presenceKey(consultationID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read presence: %w", err)
	}
	members := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		members = append(members, id)
	}
	return members, nil
}
