package redis

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Network  string `json:"network"` // "tcp" or "unix" for socket path
}

type Client struct {
	client         *redis.Client
	lastPingTime   time.Time
	lastPingError  error
	pingCacheMutex sync.RWMutex
}

var ctx = context.Background()

func New(cfg Config) (*Client, error) {
	// Use Unix socket for local Redis when the addr looks like a path
	network := "tcp"
	if cfg.Network != "" {
		network = cfg.Network
	}
	if len(cfg.Addr) > 0 && cfg.Addr[0] == '/' {
		network = "unix"
	}

	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Network:  network,
		// Pool sized for concurrent per-message tracker round-trips
		PoolSize:     100,
		MinIdleConns: 20,
		MaxRetries:   3,
		PoolTimeout:  4 * time.Second,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if network == "unix" {
		log.Println("✓ Redis connected via Unix socket")
	} else {
		log.Println("✓ Redis connected via TCP")
	}

	return &Client{client: rdb}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Ping() error {
	return c.client.Ping(ctx).Err()
}

// Basic operations

func (c *Client) Set(key string, value interface{}, expiration time.Duration) error {
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *Client) Get(key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *Client) Del(keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

func (c *Client) Expire(key string, expiration time.Duration) error {
	return c.client.Expire(ctx, key, expiration).Err()
}

// ZSet operations (windowed event counters)

func (c *Client) ZAdd(key string, score float64, member interface{}) error {
	return c.client.ZAdd(ctx, key, redis.Z{
		Score:  score,
		Member: member,
	}).Err()
}

func (c *Client) ZCount(key, min, max string) (int64, error) {
	return c.client.ZCount(ctx, key, min, max).Result()
}

func (c *Client) ZRemRangeByScore(key, min, max string) (int64, error) {
	return c.client.ZRemRangeByScore(ctx, key, min, max).Result()
}

// Pipeline returns a Redis pipeline for batching commands
func (c *Client) Pipeline() redis.Pipeliner {
	return c.client.Pipeline()
}

// ExecutePipeline executes a pipeline with multiple commands
func (c *Client) ExecutePipeline(fn func(redis.Pipeliner) error) error {
	pipe := c.client.Pipeline()
	if err := fn(pipe); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}
