package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"quote-service/internal/models"

	"github.com/go-redis/redis/v8"
)

// Carts are ephemeral: a session that goes quiet for this long loses its cart.
const cartTTL = 48 * time.Hour

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client backing the checkout sessions
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func gatewayKey(sessionID string) string {
	return fmt.Sprintf("session:%s:gateway", sessionID)
}

// GetCartLines returns the current cart contents for a session
func (c *Client) GetCartLines(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	entries, err := c.rdb.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	lines := make([]models.CartLine, 0, len(entries))
	for field, value := range entries {
		productID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart field %q: %w", field, err)
		}
		qty, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart quantity %q: %w", value, err)
		}
		lines = append(lines, models.CartLine{ProductID: productID, Quantity: qty})
	}
	return lines, nil
}

// AddCartLine adds quantity for a product to the session cart
func (c *Client) AddCartLine(ctx context.Context, sessionID string, productID int64, qty int) error {
	key := cartKey(sessionID)

	pipe := c.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, strconv.FormatInt(productID, 10), int64(qty))
	pipe.Expire(ctx, key, cartTTL)

	_, err := pipe.Exec(ctx)
	return err
}

// EmptyCart removes all lines from the session cart
func (c *Client) EmptyCart(ctx context.Context, sessionID string) error {
	return c.rdb.Del(ctx, cartKey(sessionID)).Err()
}

// GetChosenGateway returns the payment method currently selected in the
// session, or "" when none has been chosen yet
func (c *Client) GetChosenGateway(ctx context.Context, sessionID string) (string, error) {
	gateway, err := c.rdb.Get(ctx, gatewayKey(sessionID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return gateway, nil
}

// SetChosenGateway records the payment method selected in the session
func (c *Client) SetChosenGateway(ctx context.Context, sessionID, gateway string) error {
	return c.rdb.Set(ctx, gatewayKey(sessionID), gateway, cartTTL).Err()
}

// GetGlobalQuoteSetting reads the store-wide quote flag
func (c *Client) GetGlobalQuoteSetting(ctx context.Context) (bool, error) {
	value, err := c.rdb.Get(ctx, "settings:quotes_enabled").Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "on", nil
}

// SetGlobalQuoteSetting stores the store-wide quote flag
func (c *Client) SetGlobalQuoteSetting(ctx context.Context, enabled bool) error {
	value := ""
	if enabled {
		value = "on"
	}
	return c.rdb.Set(ctx, "settings:quotes_enabled", value, 0).Err()
}
