package store

import (
	"context"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/data/redisStore"
	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

type RedisMessageStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisMessageStore returns nil when redis is unreachable so callers
// can fall back to the in-memory store.
func GetRedisMessageStore(ctx context.Context) *RedisMessageStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisMessageStore)
	if inner == nil {
		return nil
	}
	return &RedisMessageStore{
		store:  inner,
		logger: logger_i.NewLogger("MessageStore"),
	}
}

func TestMessageStore(store *redisStore.Store) *RedisMessageStore {
	return &RedisMessageStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}

func (s *RedisMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	log.Debug("validating chatId")
	isFound, err := s.store.Exists(ctx, chatId)
	if s.store.IsNil(err) {
		return false
	} else if err != nil {
		log.Error("Failed to check if chatId exists", "err", err)
		return false
	}
	return isFound
}

// InitNewChat resets the chat list and seeds it with an empty marker so
// the key exists before the first turn lands. GetMessageHistory strips
// the marker back out.
func (s *RedisMessageStore) InitNewChat(ctx context.Context, id string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	log.Debug("Initializing new chat")
	if err := s.store.Del(ctx, id); err != nil && !s.store.IsNil(err) {
		log.Error("Error resetting chat", "error:", err)
		return err
	}
	return s.pushTurns(ctx, id, "")
}

// AppendTurns records conversation turns ("user: …", "bot: …") in
// insertion order, oldest first.
func (s *RedisMessageStore) AppendTurns(ctx context.Context, id string, turns ...string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)
	if !s.ValidateChatId(ctx, id) {
		log.Error("Unknown chat id, dropping turns")
		return errUnknownChat
	}
	if len(turns) == 0 {
		return nil
	}
	return s.pushTurns(ctx, id, turns...)
}

func (s *RedisMessageStore) pushTurns(ctx context.Context, id string, turns ...string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", id)

	values := make([]interface{}, len(turns))
	for i, t := range turns {
		values[i] = t
	}

	if err := s.store.ListPush(ctx, id, values...); err != nil {
		log.Error("error saving chat", "error:", err)
		return err
	}
	if err := s.store.Expire(ctx, id, config.RedisMessageStoreTTL); err != nil {
		log.Error("error refreshing chat ttl", "error:", err)
	}
	log.Debug("Saved chat successfully")
	return nil
}

func (s *RedisMessageStore) GetMessageHistory(ctx context.Context, chatId string) ([]string, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	log.Debug("Getting message history")

	res, err := s.store.ListGetAll(ctx, chatId)
	if err != nil {
		log.Error("Error getting history", "error:", err)
		return nil, err
	}

	history := make([]string, 0, len(res))
	for _, turn := range res {
		if turn == "" {
			continue
		}
		history = append(history, turn)
	}
	return history, nil
}
