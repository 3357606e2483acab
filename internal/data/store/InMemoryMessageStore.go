package store

import (
	"context"
	"errors"
	"sync"
)

var errUnknownChat = errors.New("unknown chat id")

type InMemoryMessageStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]string
}

func InitMessageStore() *InMemoryMessageStore {
	return &InMemoryMessageStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]string),
	}
}

func (store *InMemoryMessageStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemoryMessageStore) InitNewChat(ctx context.Context, id string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = make([]string, 0)
	return nil
}

func (store *InMemoryMessageStore) AppendTurns(ctx context.Context, id string, turns ...string) error {
	if !store.ValidateChatId(ctx, id) {
		return errUnknownChat
	}
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[id] = append(store.chatMap[id], turns...)
	inMemLogger.Info(id, " : Saved convo to chat message store")
	return nil
}

func (store *InMemoryMessageStore) GetMessageHistory(ctx context.Context, chatId string) ([]string, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()

	turns, ok := store.chatMap[chatId]
	if !ok {
		return nil, nil
	}
	history := make([]string, len(turns))
	copy(history, turns)
	return history, nil
}
