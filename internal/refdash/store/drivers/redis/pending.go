// Package redis keeps pending authorizations in redis so they survive a
// restart and can be shared between replicas. Every state change runs as a
// Lua script, which gives the same single critical section the in-memory
// table gets from its mutex.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/store"
)

const DefaultPrefix = "refdash:pending:"

// Shared helpers. Times are unix milliseconds.
const luaHelpers = `
local function read_entry(key)
  local flat = redis.call("HGETALL", key)
  if #flat == 0 then return nil end
  local h = {}
  for i = 1, #flat, 2 do h[flat[i]] = flat[i + 1] end
  return h
end

local function is_live(h, now, retention)
  if h.status == "pending" then return now < tonumber(h.expires_at) end
  if h.status == "accepted" then return true end
  if h.status == "rejected" then return now < tonumber(h.decided_at) + retention end
  return false
end
`

// KEYS[1] = entry key
// ARGV[1] = auth key, ARGV[2] = issued_at, ARGV[3] = expires_at
var insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then return 0 end
redis.call("HSET", KEYS[1],
  "auth_key", ARGV[1], "status", "pending",
  "issued_at", ARGV[2], "expires_at", ARGV[3],
  "decided_at", "0", "decided_by", "")
redis.call("PEXPIREAT", KEYS[1], ARGV[3])
return 1
`)

// KEYS[1] = entry key
// ARGV[1] = now, ARGV[2] = retention
var getScript = redis.NewScript(luaHelpers + `
local h = read_entry(KEYS[1])
if not h then return nil end
if not is_live(h, tonumber(ARGV[1]), tonumber(ARGV[2])) then
  redis.call("DEL", KEYS[1])
  return nil
end
return redis.call("HGETALL", KEYS[1])
`)

// KEYS[1] = entry key
// ARGV[1] = now, ARGV[2] = retention, ARGV[3] = new status, ARGV[4] = actor
var decideScript = redis.NewScript(luaHelpers + `
local now = tonumber(ARGV[1])
local retention = tonumber(ARGV[2])
local h = read_entry(KEYS[1])
if not h then return nil end
if not is_live(h, now, retention) then
  redis.call("DEL", KEYS[1])
  return nil
end
if h.status ~= "pending" then return nil end
redis.call("HSET", KEYS[1], "status", ARGV[3], "decided_at", ARGV[1], "decided_by", ARGV[4])
if ARGV[3] == "accepted" then
  redis.call("PERSIST", KEYS[1])
else
  redis.call("PEXPIREAT", KEYS[1], now + retention)
end
return redis.call("HGETALL", KEYS[1])
`)

// KEYS[1] = entry key
// ARGV[1] = now, ARGV[2] = retention
var consumeScript = redis.NewScript(luaHelpers + `
local h = read_entry(KEYS[1])
if not h then return nil end
if not is_live(h, tonumber(ARGV[1]), tonumber(ARGV[2])) then
  redis.call("DEL", KEYS[1])
  return nil
end
local flat = redis.call("HGETALL", KEYS[1])
if h.status == "accepted" then
  redis.call("DEL", KEYS[1])
  table.insert(flat, "consumed")
  table.insert(flat, "1")
end
return flat
`)

// PendingTable implements store.PendingAuthorizations on a redis hash per code.
// Undecided and rejected entries carry a key TTL, so redis does the sweeping.
type PendingTable struct {
	client    redis.UniversalClient
	prefix    string
	retention time.Duration
}

var _ store.PendingAuthorizations = (*PendingTable)(nil)

func NewPendingTable(client redis.UniversalClient, prefix string, retention time.Duration) *PendingTable {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &PendingTable{client: client, prefix: prefix, retention: retention}
}

func (t *PendingTable) key(code string) string { return t.prefix + code }

func (t *PendingTable) Insert(ctx context.Context, req domain.AuthorizationRequest) error {
	ok, err := insertScript.Run(ctx, t.client, []string{t.key(req.Code)},
		req.AuthKey, req.IssuedAt.UnixMilli(), req.ExpiresAt.UnixMilli(),
	).Int()
	if err != nil {
		return fmt.Errorf("redis pending insert: %w", err)
	}
	if ok == 0 {
		return store.ErrAlreadyExists
	}
	return nil
}

func (t *PendingTable) Get(ctx context.Context, code string, now time.Time) (domain.AuthorizationRequest, error) {
	res, err := getScript.Run(ctx, t.client, []string{t.key(code)},
		now.UnixMilli(), t.retention.Milliseconds(),
	).Slice()
	if err != nil {
		return domain.AuthorizationRequest{}, mapNil(err)
	}
	req, _ := decodeEntry(code, res)
	return req, nil
}

func (t *PendingTable) Decide(
	ctx context.Context,
	code string,
	status domain.AuthorizationStatus,
	actor string,
	now time.Time,
) (domain.AuthorizationRequest, error) {
	res, err := decideScript.Run(ctx, t.client, []string{t.key(code)},
		now.UnixMilli(), t.retention.Milliseconds(), string(status), actor,
	).Slice()
	if err != nil {
		return domain.AuthorizationRequest{}, mapNil(err)
	}
	req, _ := decodeEntry(code, res)
	return req, nil
}

func (t *PendingTable) Consume(ctx context.Context, code string, now time.Time) (domain.AuthorizationRequest, bool, error) {
	res, err := consumeScript.Run(ctx, t.client, []string{t.key(code)},
		now.UnixMilli(), t.retention.Milliseconds(),
	).Slice()
	if err != nil {
		return domain.AuthorizationRequest{}, false, mapNil(err)
	}
	req, consumed := decodeEntry(code, res)
	return req, consumed, nil
}

// Sweep is a no-op: key TTLs expire undecided and rejected entries, and
// accepted entries are only removed by Consume.
func (t *PendingTable) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (t *PendingTable) Len(ctx context.Context) (int, error) {
	n := 0
	iter := t.client.Scan(ctx, 0, t.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis pending scan: %w", err)
	}
	return n, nil
}

// Ping is used by the readiness probe.
func (t *PendingTable) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

func (t *PendingTable) Close() error { return t.client.Close() }

func mapNil(err error) error {
	if errors.Is(err, redis.Nil) {
		return store.ErrNotFound
	}
	return fmt.Errorf("redis pending: %w", err)
}

func decodeEntry(code string, flat []any) (domain.AuthorizationRequest, bool) {
	fields := make(map[string]string, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		k, _ := flat[i].(string)
		v, _ := flat[i+1].(string)
		fields[k] = v
	}

	req := domain.AuthorizationRequest{
		Code:      code,
		AuthKey:   fields["auth_key"],
		Status:    domain.AuthorizationStatus(fields["status"]),
		IssuedAt:  fromMillis(fields["issued_at"]),
		ExpiresAt: fromMillis(fields["expires_at"]),
		DecidedAt: fromMillis(fields["decided_at"]),
		DecidedBy: fields["decided_by"],
	}
	return req, fields["consumed"] == "1"
}

func fromMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
