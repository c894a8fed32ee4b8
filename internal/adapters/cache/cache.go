// Package cache stores rendered public responses, keyed per resource version.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrMiss is returned by Get when a key is absent
var ErrMiss = errors.New("cache miss")

const keyPrefix = "desaku:"

// Cache is a byte-oriented key/value store with expiry
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

// VersionKey is the counter bumped whenever a resource changes
func VersionKey(resource string) string {
	return keyPrefix + "ver:" + resource
}

// Version reads the current version of a resource; a missing counter is version 0
func Version(ctx context.Context, c Cache, resource string) (int64, error) {
	raw, err := c.Get(ctx, VersionKey(resource))
	if errors.Is(err, ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}

// Invalidate bumps a resource version so older responses are never read again
func Invalidate(ctx context.Context, c Cache, resource string) error {
	_, err := c.Incr(ctx, VersionKey(resource))
	return err
}

// ResponseKey builds a response key from the path and the sorted query string
func ResponseKey(resource string, version int64, path string, query map[string][]string) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(path)
	b.WriteByte('?')
	for _, k := range keys {
		values := append([]string(nil), query[k]...)
		sort.Strings(values)
		for _, v := range values {
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
			b.WriteByte('&')
		}
	}

	sum := md5.Sum([]byte(b.String()))
	return keyPrefix + "resp:" + resource + ":v" + strconv.FormatInt(version, 10) + ":" + hex.EncodeToString(sum[:])
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, error) { return nil, ErrMiss }

func (Noop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error { return nil }

func (Noop) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func (Noop) Close() error { return nil }
