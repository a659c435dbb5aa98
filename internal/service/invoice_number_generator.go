package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisInvoiceSeqKeyPrefix is followed by the invoice date (YYYYMMDD)
	RedisInvoiceSeqKeyPrefix = "invoice:seq:"

	// Daily counters outlive their day so late retries still see them
	invoiceSeqTTL = 48 * time.Hour

	invoiceRedisTimeout = 2 * time.Second
)

// nextInvoiceSeqScript increments the daily counter and arms its expiry on
// first use, as one atomic step inside Redis
var nextInvoiceSeqScript = redis.NewScript(`
	local seq = redis.call('INCR', KEYS[1])
	if seq == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return seq
`)

// InvoiceNumberGenerator hands out invoice numbers of the form
// PREFIX-YYYYMMDD-NNNNNN. The unique index on bills.invoice_number is the
// final guard.
type InvoiceNumberGenerator interface {
	Next(ctx context.Context, at time.Time) string
}

type invoiceNumberGenerator struct {
	redisClient *redis.Client
	log         *logrus.Logger
	prefix      string
}

func NewInvoiceNumberGenerator(redisClient *redis.Client, log *logrus.Logger, prefix string) InvoiceNumberGenerator {
	if prefix == "" {
		prefix = "INV"
	}
	return &invoiceNumberGenerator{
		redisClient: redisClient,
		log:         log,
		prefix:      prefix,
	}
}

// Next returns the next sequential number for the day of at. When Redis is
// unavailable it falls back to a random suffix (PREFIX-YYYYMMDD-RXXXXXXXX)
// so billing keeps working.
func (g *invoiceNumberGenerator) Next(ctx context.Context, at time.Time) string {
	day := at.Format("20060102")

	if g.redisClient != nil {
		redisCtx, cancel := context.WithTimeout(ctx, invoiceRedisTimeout)
		defer cancel()

		key := RedisInvoiceSeqKeyPrefix + day
		seq, err := nextInvoiceSeqScript.Run(redisCtx, g.redisClient, []string{key}, int(invoiceSeqTTL.Seconds())).Int64()
		if err == nil {
			return fmt.Sprintf("%s-%s-%06d", g.prefix, day, seq)
		}
		g.log.Warnf("Failed to allocate invoice sequence for %s, using random suffix: %+v", day, err)
	}

	return g.randomNumber(day)
}

func (g *invoiceNumberGenerator) randomNumber(day string) string {
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	return fmt.Sprintf("%s-%s-R%08X", g.prefix, day, randomBytes)
}
