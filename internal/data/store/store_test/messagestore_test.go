package store_test

import (
	"context"
	"testing"

	"github.com/Ollennjj/stoa-api/internal/config"
	"github.com/Ollennjj/stoa-api/internal/data/redisStore"
	"github.com/Ollennjj/stoa-api/internal/data/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisMessageStore_Lifecycle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	msgStore := store.TestMessageStore(redisStore.NewTestStore(client))

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	chatID := "chat_abc_123"

	t.Run("Unknown Chat Is Invalid", func(t *testing.T) {
		if msgStore.ValidateChatId(ctx, chatID) {
			t.Error("chat id should not validate before InitNewChat")
		}
		if err := msgStore.AppendTurns(ctx, chatID, "user: hi"); err == nil {
			t.Error("AppendTurns on unknown chat should fail")
		}
	})

	t.Run("Init Then Append Roundtrip", func(t *testing.T) {
		if err := msgStore.InitNewChat(ctx, chatID); err != nil {
			t.Fatalf("InitNewChat failed: %v", err)
		}
		if !msgStore.ValidateChatId(ctx, chatID) {
			t.Fatal("chat id should validate after InitNewChat")
		}

		history, err := msgStore.GetMessageHistory(ctx, chatID)
		if err != nil {
			t.Fatalf("GetMessageHistory failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("fresh chat should have empty history, got %v", history)
		}

		if err := msgStore.AppendTurns(ctx, chatID, "user: hello", "bot: hi there"); err != nil {
			t.Fatalf("AppendTurns failed: %v", err)
		}
		if err := msgStore.AppendTurns(ctx, chatID, "user: next question"); err != nil {
			t.Fatalf("AppendTurns failed: %v", err)
		}

		history, err = msgStore.GetMessageHistory(ctx, chatID)
		if err != nil {
			t.Fatalf("GetMessageHistory failed: %v", err)
		}
		want := []string{"user: hello", "bot: hi there", "user: next question"}
		if len(history) != len(want) {
			t.Fatalf("history length got %d, want %d", len(history), len(want))
		}
		for i := range want {
			if history[i] != want[i] {
				t.Errorf("turn %d got %q, want %q", i, history[i], want[i])
			}
		}
	})

	t.Run("Init Resets History", func(t *testing.T) {
		if err := msgStore.InitNewChat(ctx, chatID); err != nil {
			t.Fatalf("InitNewChat failed: %v", err)
		}
		history, err := msgStore.GetMessageHistory(ctx, chatID)
		if err != nil {
			t.Fatalf("GetMessageHistory failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("re-initialized chat should have empty history, got %v", history)
		}
	})

	t.Run("Chat Key Expires", func(t *testing.T) {
		if mr.TTL(chatID) != config.RedisMessageStoreTTL {
			t.Errorf("chat key ttl got %v, want %v", mr.TTL(chatID), config.RedisMessageStoreTTL)
		}
	})
}

func TestInMemoryMessageStore(t *testing.T) {
	ctx := context.Background()
	msgStore := store.InitMessageStore()

	if msgStore.ValidateChatId(ctx, "nope") {
		t.Error("unknown chat id should not validate")
	}

	if err := msgStore.InitNewChat(ctx, "c1"); err != nil {
		t.Fatalf("InitNewChat failed: %v", err)
	}
	if err := msgStore.AppendTurns(ctx, "c1", "user: a", "bot: b"); err != nil {
		t.Fatalf("AppendTurns failed: %v", err)
	}

	history, err := msgStore.GetMessageHistory(ctx, "c1")
	if err != nil {
		t.Fatalf("GetMessageHistory failed: %v", err)
	}
	if len(history) != 2 || history[0] != "user: a" || history[1] != "bot: b" {
		t.Errorf("history got %v", history)
	}
}
