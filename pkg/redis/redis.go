package redis

import (
	"strings"
	"time"

	"github.com/go-redis/redis"
)

type _client struct {
	cli *redis.Client
}

var clientMap map[string]_client

func init() {
	clientMap = make(map[string]_client)
	Init("default", "127.0.0.1:6379", "")
}

// Init registers a named redis connection. The default connection is created
// at package load; mains re-Init it with real settings at startup.
func Init(dbName string, host string, password string) error {
	hostSlice := strings.Split(host, ",")
	client := redis.NewClient(&redis.Options{
		Addr:     hostSlice[0],
		Password: password,
		DB:       0,
	})
	_, err := client.Ping().Result()
	if err != nil {
		return err
	}
	clientMap[dbName] = _client{cli: client}
	return nil
}

// Handler wraps a named client.
type Handler struct {
	client *redis.Client
}

// NewRedisHandler returns a handler bound to the named connection.
func NewRedisHandler(db string) *Handler {
	return &Handler{client: Client(db)}
}

// Client returns the raw client for a named connection.
func Client(db string) *redis.Client {
	return clientMap[db].cli
}

// ScanKeys iterates matching keys with SCAN to avoid blocking the server.
func (rh *Handler) ScanKeys(pattern string) ([]string, error) {
	var cursor uint64
	var keys []string
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = rh.client.Scan(cursor, pattern, 10).Result()
		if err != nil {
			return nil, err
		}

		keys = append(keys, currentKeys...)

		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// SetWithExpireTime stores a value with an explicit expiration. Cache
// writes are best effort; errors are dropped.
func (rh *Handler) SetWithExpireTime(key string, value string, expiry time.Duration) {
	_ = rh.client.Set(key, value, expiry).Err()
}

// AcquireLock takes a SETNX lock. Used so only one archive watcher polls
// when several API replicas run.
func (rh *Handler) AcquireLock(key string, value string, expiry time.Duration) (bool, error) {
	return rh.client.SetNX(key, value, expiry).Result()
}

// Pub publishes a message to a channel.
func (rh *Handler) Pub(channel string, message string) error {
	return rh.client.Publish(channel, message).Err()
}

// Subscribe subscribes to a channel.
func (rh *Handler) Subscribe(channel string) *redis.PubSub {
	return rh.client.Subscribe(channel)
}

// SubscribeChannel subscribes and pumps message payloads into a string
// channel, closed when the subscription drops.
func (rh *Handler) SubscribeChannel(channel string) <-chan string {
	pubsub := rh.Subscribe(channel)
	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			out <- msg.Payload
		}
	}()
	return out
}

// Delete removes a key.
func (rh *Handler) Delete(key string) {
	rh.client.Del(key)
}

// Get returns the value for a key, or "" when absent.
func (rh *Handler) Get(key string) string {
	val, err := rh.client.Get(key).Result()
	if err != nil {
		return ""
	}
	return val
}
