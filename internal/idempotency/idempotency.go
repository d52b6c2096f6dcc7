// Package idempotency provides a replay guard for checkout requests keyed by
// a client-supplied idempotency token.
//
// A request first reserves its token; the reservation is what makes the guard
// safe under concurrency. Exactly one of several simultaneous requests with
// the same token wins the reservation and runs the checkout, the others see
// ErrInProgress. Once the winner stores its serialized response, later
// requests with the token replay that response instead of creating a
// duplicate order and provider session.
package idempotency

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// ErrInProgress is returned by Acquire when another request holds the
// token's reservation and has not stored a response yet.
var ErrInProgress = errors.New("idempotency token in progress")

// TTL bounds how long a stored response is remembered.
const TTL = 24 * time.Hour

// reserveTTL bounds how long a reservation can be held, so a crashed request
// does not block its token forever.
const reserveTTL = 2 * time.Minute

const (
	keyPrefix  = "idem:checkout:"
	inProgress = "__in_progress__"
)

// Store remembers checkout responses by idempotency token.
type Store interface {
	// Acquire reserves the token for the calling request. It returns the
	// stored response when the token already completed, ErrInProgress when
	// another request currently holds the reservation, and (nil, nil) when
	// the caller won the reservation and must run the checkout.
	Acquire(ctx context.Context, token string) ([]byte, error)
	// Save stores the response for the token, replacing the reservation.
	Save(ctx context.Context, token string, response []byte) error
	// Release frees the reservation after a failed checkout so a retry with
	// the same token can run again.
	Release(ctx context.Context, token string) error
}

// Redis implements Store on a Redis client.
type Redis struct {
	client *redis.Client
}

var _ Store = (*Redis)(nil)

// NewRedis creates a Redis-backed store for the given address.
func NewRedis(addr string) *Redis {
	return &Redis{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Ping checks connectivity, for readiness probes.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Acquire reserves the token with SET NX, so of several concurrent requests
// exactly one observes the reservation as won.
func (r *Redis) Acquire(ctx context.Context, token string) ([]byte, error) {
	key := keyPrefix + token
	won, err := r.client.SetNX(ctx, key, inProgress, reserveTTL).Result()
	if err != nil {
		return nil, errors.Wrap(err, "reserve idempotency key")
	}
	if won {
		return nil, nil
	}

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// The holder released or expired between SETNX and GET.
			return nil, ErrInProgress
		}
		return nil, errors.Wrap(err, "get idempotency key")
	}
	if string(val) == inProgress {
		return nil, ErrInProgress
	}
	return val, nil
}

// Save overwrites the reservation with the response.
func (r *Redis) Save(ctx context.Context, token string, response []byte) error {
	if err := r.client.Set(ctx, keyPrefix+token, response, TTL).Err(); err != nil {
		return errors.Wrap(err, "save idempotency key")
	}
	return nil
}

// Release drops the reservation.
func (r *Redis) Release(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return errors.Wrap(err, "release idempotency key")
	}
	return nil
}

// Disabled is a no-op Store used when no Redis address is configured: every
// request wins its reservation, matching the unguarded behaviour.
type Disabled struct{}

var _ Store = Disabled{}

func (Disabled) Acquire(context.Context, string) ([]byte, error) { return nil, nil }
func (Disabled) Save(context.Context, string, []byte) error      { return nil }
func (Disabled) Release(context.Context, string) error           { return nil }
