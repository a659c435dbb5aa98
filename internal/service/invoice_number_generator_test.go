package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var randomInvoicePattern = regexp.MustCompile(`^INV-20261015-R[0-9A-F]{8}$`)

func TestInvoiceNumberGenerator_Sequential(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	gen := NewInvoiceNumberGenerator(client, testLogger(), "INV")
	ctx := context.Background()
	day := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	if got := gen.Next(ctx, day); got != "INV-20261015-000001" {
		t.Errorf("first Next() = %s, want INV-20261015-000001", got)
	}
	if got := gen.Next(ctx, day.Add(time.Hour)); got != "INV-20261015-000002" {
		t.Errorf("second Next() = %s, want INV-20261015-000002", got)
	}

	// A new day starts its own sequence
	if got := gen.Next(ctx, day.AddDate(0, 0, 1)); got != "INV-20261016-000001" {
		t.Errorf("next day Next() = %s, want INV-20261016-000001", got)
	}

	if ttl := mr.TTL(RedisInvoiceSeqKeyPrefix + "20261015"); ttl != invoiceSeqTTL {
		t.Errorf("sequence TTL = %v, want %v", ttl, invoiceSeqTTL)
	}
}

func TestInvoiceNumberGenerator_ConcurrentCallsAreUnique(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	gen := NewInvoiceNumberGenerator(client, testLogger(), "INV")
	day := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	const callers = 50
	results := make(chan string, callers)
	for i := 0; i < callers; i++ {
		go func() { results <- gen.Next(context.Background(), day) }()
	}

	seen := make(map[string]bool, callers)
	for i := 0; i < callers; i++ {
		number := <-results
		if seen[number] {
			t.Fatalf("duplicate invoice number %s", number)
		}
		seen[number] = true
	}
}

func TestInvoiceNumberGenerator_FallsBackWithoutRedis(t *testing.T) {
	day := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	t.Run("no client", func(t *testing.T) {
		gen := NewInvoiceNumberGenerator(nil, testLogger(), "")
		if got := gen.Next(context.Background(), day); !randomInvoicePattern.MatchString(got) {
			t.Errorf("Next() = %s, want random fallback", got)
		}
	})

	t.Run("redis down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		defer client.Close()
		mr.Close()

		gen := NewInvoiceNumberGenerator(client, testLogger(), "INV")
		if got := gen.Next(context.Background(), day); !randomInvoicePattern.MatchString(got) {
			t.Errorf("Next() = %s, want random fallback", got)
		}
	})
}
