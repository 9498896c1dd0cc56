package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, ErrNilClient) {
		t.Fatalf("want ErrNilClient, got %v", err)
	}
}

// Nothing listens on port 1; transport errors must surface as errors, not misses.
func TestUnreachableServerIsAnError(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	p, err := New(Config{Client: rdb, KeyPrefix: "t:", CloseClient: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if _, ok, err := p.Get(ctx, "k"); err == nil || ok {
		t.Fatalf("Get: ok=%v err=%v, want transport error", ok, err)
	}
	if ok, err := p.Set(ctx, "k", []byte("v"), 1, 0); err == nil || ok {
		t.Fatalf("Set: ok=%v err=%v, want transport error", ok, err)
	}
	if err := p.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := p.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := Dial(ctx, "127.0.0.1:1", ""); err == nil {
		t.Fatalf("Dial to closed port should fail")
	}
}
