package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"parking-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// NewRedisClient returns a configured client and validates the connection with PING.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// ActiveBookingCache keeps each user's ACTIVE booking for quick reads.
// A nil cache is valid and behaves as permanently empty.
type ActiveBookingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewActiveBookingCache(client *redis.Client, ttl time.Duration) *ActiveBookingCache {
	if client == nil {
		return nil
	}
	return &ActiveBookingCache{client: client, ttl: ttl}
}

func (c *ActiveBookingCache) key(userID uuid.UUID) string {
	return fmt.Sprintf("bookings:active:%s", userID)
}

func (c *ActiveBookingCache) doneKey(bookingID uuid.UUID) string {
	return fmt.Sprintf("bookings:done:%s", bookingID)
}

// Get returns nil, nil on a miss.
func (c *ActiveBookingCache) Get(ctx context.Context, userID uuid.UUID) (*entity.Booking, error) {
	if c == nil {
		return nil, nil
	}

	result, err := c.client.Get(ctx, c.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active booking: %w", err)
	}

	var booking entity.Booking
	if err := json.Unmarshal([]byte(result), &booking); err != nil {
		return nil, fmt.Errorf("decode active booking: %w", err)
	}
	return &booking, nil
}

// Set stores booking unless Delete has already marked it completed. The
// marker is watched, so a Delete racing this write aborts it.
func (c *ActiveBookingCache) Set(ctx context.Context, booking *entity.Booking) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}

	done := c.doneKey(booking.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, done).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(booking.UserID), data, c.ttl)
			return nil
		})
		return err
	}, done)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Delete evicts the user's entry and marks booking completed for the
// lifetime of any entry a late Set could write.
func (c *ActiveBookingCache) Delete(ctx context.Context, booking *entity.Booking) error {
	if c == nil {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.doneKey(booking.ID), 1, c.ttl)
		pipe.Del(ctx, c.key(booking.UserID))
		return nil
	})
	return err
}
