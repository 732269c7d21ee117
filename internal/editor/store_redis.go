// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/constants"
)

// # Redis Store

// redisStore keeps each session as JSON under editor:draft:{id} and indexes
// it by editor:draft_owner:{actor}:{type}:{target}. Both keys share the TTL.
type redisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore constructs a Redis backed draft [Store].
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = constants.DraftSessionTTL
	}
	return &redisStore{client: client, ttl: ttl}
}

// releaseOwner drops the owner index only while it still points at the
// released session, so a newer session for the same target is left alone.
var releaseOwner = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func draftKey(id string) string {
	return constants.RedisPrefixDraft + id
}

func ownerKey(draft *Draft) string {
	return fmt.Sprintf("%s%s:%s:%s", constants.RedisPrefixDraftOwner, draft.ActorID, draft.TargetType, draft.TargetID)
}

// Acquire implements [Store].
func (store *redisStore) Acquire(context context.Context, draft *Draft) (*Draft, bool, error) {
	owner := ownerKey(draft)

	// Two rounds: the second one runs only when the index outlived its session.
	for range 2 {
		claimed, err := store.client.SetNX(context, owner, draft.ID, store.ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("redis: failed to claim draft owner: %w", err)
		}

		if claimed {
			if err := store.write(context, draft, false); err != nil {
				return nil, false, err
			}
			return draft, true, nil
		}

		existingID, err := store.client.Get(context, owner).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("redis: failed to read draft owner: %w", err)
		}

		existing, err := store.Get(context, existingID)
		if err == nil {
			return existing, false, nil
		}
		if !apperr.IsNotFound(err) {
			return nil, false, err
		}

		if err := releaseOwner.Run(context, store.client, []string{owner}, existingID).Err(); err != nil {
			return nil, false, fmt.Errorf("redis: failed to drop stale draft owner: %w", err)
		}
	}

	return nil, false, apperr.Conflict("Draft session is being opened concurrently")
}

// Get implements [Store].
func (store *redisStore) Get(context context.Context, id string) (*Draft, error) {
	raw, err := store.client.Get(context, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("Draft")
	}
	if err != nil {
		return nil, fmt.Errorf("redis: failed to load draft: %w", err)
	}
	return decode(raw)
}

// Save implements [Store].
func (store *redisStore) Save(context context.Context, draft *Draft) error {
	if err := store.write(context, draft, true); err != nil {
		return err
	}

	if err := store.client.Expire(context, ownerKey(draft), store.ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to refresh draft owner: %w", err)
	}
	return nil
}

// Release implements [Store]. GETDEL makes the release single-winner.
func (store *redisStore) Release(context context.Context, id string) (*Draft, error) {
	raw, err := store.client.GetDel(context, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFound("Draft")
	}
	if err != nil {
		return nil, fmt.Errorf("redis: failed to release draft: %w", err)
	}

	draft, err := decode(raw)
	if err != nil {
		return nil, err
	}

	if err := releaseOwner.Run(context, store.client, []string{ownerKey(draft)}, draft.ID).Err(); err != nil {
		return nil, fmt.Errorf("redis: failed to release draft owner: %w", err)
	}
	return draft, nil
}

// # Internal Helpers

// write stores the session. With existingOnly the write is skipped when the
// session is gone, which reports NotFound.
func (store *redisStore) write(context context.Context, draft *Draft, existingOnly bool) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("redis: failed to encode draft: %w", err)
	}

	args := redis.SetArgs{TTL: store.ttl}
	if existingOnly {
		args.Mode = "XX"
	}

	err = store.client.SetArgs(context, draftKey(draft.ID), raw, args).Err()
	if errors.Is(err, redis.Nil) {
		return apperr.NotFound("Draft")
	}
	if err != nil {
		return fmt.Errorf("redis: failed to store draft: %w", err)
	}
	return nil
}

func decode(raw []byte) (*Draft, error) {
	draft := &Draft{}
	if err := json.Unmarshal(raw, draft); err != nil {
		return nil, fmt.Errorf("redis: failed to decode draft: %w", err)
	}
	return draft, nil
}
