// Package appldb publishes applied switch state to a Redis database as
// SONiC-style "TABLE|key" hashes. Publishing happens after a successful
// reconciliation and never influences its outcome.
//
// Unlike an incremental config writer, the publisher works from a full
// Snapshot of the applied state: every table in the snapshot is wiped and
// rewritten, so the database always mirrors exactly one state generation.
package appldb

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Fields is the field map of one published entry. An entry with no fields
// is still materialized (Redis cannot represent an empty hash, so a NULL
// marker field stands in for it).
type Fields map[string]string

// Snapshot is the rendered applied state: table name → entry key → fields.
type Snapshot map[string]map[string]Fields

// add records one entry, creating the table on first use.
func (s Snapshot) add(table, key string, fields Fields) {
	if s[table] == nil {
		s[table] = make(map[string]Fields)
	}
	s[table][key] = fields
}

// EntryCount returns the number of entries across all tables.
func (s Snapshot) EntryCount() int {
	n := 0
	for _, entries := range s {
		n += len(entries)
	}
	return n
}

// Client wraps a Redis connection to one applied-state database.
type Client struct {
	client *redis.Client
	ctx    context.Context
}

// NewClient connects to the applied-state database at addr.
func NewClient(addr string, db int) *Client {
	return &Client{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ctx:    context.Background(),
	}
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping verifies the database is reachable.
func (c *Client) Ping() error {
	return c.client.Ping(c.ctx).Err()
}

// Publish replaces the published tables with the snapshot's contents.
// Stale keys of every table present in the snapshot are dropped first, so
// entities deleted by reconciliation disappear from the database; tables
// the snapshot does not mention are left alone. The wipe and the rewrite
// each run as one MULTI/EXEC transaction.
func (c *Client) Publish(snap Snapshot) error {
	wipe := c.client.TxPipeline()
	for table := range snap {
		stale, err := c.client.Keys(c.ctx, table+"|*").Result()
		if err != nil {
			return fmt.Errorf("listing stale %s entries: %w", table, err)
		}
		for _, key := range stale {
			wipe.Del(c.ctx, key)
		}
	}
	if _, err := wipe.Exec(c.ctx); err != nil && err != redis.Nil {
		return fmt.Errorf("wiping stale entries: %w", err)
	}

	write := c.client.TxPipeline()
	for table, entries := range snap {
		for key, fields := range entries {
			hashKey := table + "|" + key
			if len(fields) == 0 {
				write.HSet(c.ctx, hashKey, "NULL", "NULL")
				continue
			}
			kv := make([]interface{}, 0, len(fields)*2)
			for field, value := range fields {
				kv = append(kv, field, value)
			}
			write.HSet(c.ctx, hashKey, kv...)
		}
	}
	if _, err := write.Exec(c.ctx); err != nil && err != redis.Nil {
		return fmt.Errorf("writing applied state: %w", err)
	}
	return nil
}
