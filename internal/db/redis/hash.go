package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/lostfound/internal/db"
)

// hset builds an HSET with fields in sorted order so the wire command is stable.
func (s *Store) hset(key string, fields map[string]string) rueidis.Completed {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	cmd := s.b().Hset().Key(key).FieldValue()
	for _, k := range names {
		cmd = cmd.FieldValue(k, fields[k])
	}
	return cmd.Build()
}

// HSet sets hash fields. An empty field set is a no-op.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.do(ctx, s.hset(key, fields)).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Key: key, Err: err}
	}
	return nil
}

// HGetAll returns all fields of a hash, or db.ErrKeyNotFound when the hash is absent.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Key: key, Err: err}
	}
	if len(m) == 0 {
		return nil, db.ErrKeyNotFound
	}
	return m, nil
}

// HGetAllMulti fetches all fields for multiple hashes in a single DoMulti round-trip.
// Missing hashes yield a nil entry at their position.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Hgetall().Key(key).Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([]map[string]string, len(results))

	for i, res := range results {
		m, err := res.AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Key: keys[i], Err: err}
		}
		if len(m) > 0 {
			out[i] = m
		}
	}

	return out, nil
}

// Del deletes a key.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Key: key, Err: err}
	}
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	cmd := s.b().Exists().Key(key).Build()
	count, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Key: key, Err: err}
	}
	return count > 0, nil
}

// Scan iterates keys matching a pattern. SCAN may repeat keys across pages,
// so the result is deduplicated.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	seen := make(map[string]struct{})
	var cursor uint64

	for {
		cmd := s.b().Scan().Cursor(cursor).Match(pattern).Count(100).Build()
		res, err := s.do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, &db.Error{Op: db.OpScan, Key: pattern, Err: fmt.Errorf("cursor %d: %w", cursor, err)}
		}
		for _, k := range res.Elements {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		cursor = res.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// hsetIfScript writes ARGV[3:] into the hash only while ARGV[1] holds ARGV[2].
// Returns -1 for a missing hash, 0 on mismatch, 1 when written.
const hsetIfScript = `if redis.call('EXISTS', KEYS[1]) == 0 then return -1 end
if redis.call('HGET', KEYS[1], ARGV[1]) ~= ARGV[2] then return 0 end
redis.call('HSET', KEYS[1], unpack(ARGV, 3))
return 1`

// HSetIf sets fields atomically, provided field still equals expected.
// It reports whether the write happened; a missing hash yields db.ErrKeyNotFound.
func (s *Store) HSetIf(ctx context.Context, key, field, expected string, fields map[string]string) (bool, error) {
	if len(fields) == 0 {
		return false, &db.Error{Op: db.OpEval, Key: key, Err: errors.New("no fields")}
	}
	args := append([]string{field, expected}, sortedPairs(fields)...)

	cmd := s.b().Eval().Script(hsetIfScript).Numkeys(1).Key(key).Arg(args...).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpEval, Key: key, Err: err}
	}
	switch n {
	case -1:
		return false, db.ErrKeyNotFound
	case 0:
		return false, nil
	}
	return true, nil
}

// hsetIndexedScript claims KEYS[2] -> KEYS[1] and writes the hash in one step.
const hsetIndexedScript = `if not redis.call('SET', KEYS[2], KEYS[1], 'NX') then return 0 end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1`

// HSetIndexed writes a new hash together with a unique index key pointing at it.
// It reports false, writing nothing, when the index key is already taken.
func (s *Store) HSetIndexed(ctx context.Context, key, indexKey string, fields map[string]string) (bool, error) {
	if len(fields) == 0 {
		return false, &db.Error{Op: db.OpEval, Key: key, Err: errors.New("no fields")}
	}
	cmd := s.b().Eval().Script(hsetIndexedScript).Numkeys(2).Key(key, indexKey).Arg(sortedPairs(fields)...).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpEval, Key: key, Err: err}
	}
	return n == 1, nil
}

// sortedPairs flattens fields into name/value pairs ordered by name.
func sortedPairs(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]string, 0, 2*len(names))
	for _, k := range names {
		out = append(out, k, fields[k])
	}
	return out
}
