// Package author resolves author ids to display nicknames for content
// listings. Resolution is best-effort: a failed lookup yields a placeholder
// and never fails the surrounding request.
package author

import (
	"context"
	"log/slog"
	"slices"

	"brazucas-cork/internal/repository"
)

// UnknownAuthor is shown when a nickname cannot be resolved.
const UnknownAuthor = "unknown author"

// NicknameCache is an optional read-through cache in front of the user table.
type NicknameCache interface {
	// GetMany returns the cached subset of ids.
	GetMany(ctx context.Context, ids []int64) (map[int64]string, error)
	SetMany(ctx context.Context, nicknames map[int64]string) error
}

// Resolver looks nicknames up in the cache first and the user repository
// second.
type Resolver struct {
	Users  repository.UserRepository
	Cache  NicknameCache
	Logger *slog.Logger
}

// Nickname resolves a single author.
func (r *Resolver) Nickname(ctx context.Context, id int64) string {
	return r.Nicknames(ctx, []int64{id})[id]
}

// Nicknames resolves every id in ids. The returned map always has an entry
// for each id, using UnknownAuthor where resolution failed. A nil Resolver
// resolves nothing.
func (r *Resolver) Nicknames(ctx context.Context, ids []int64) map[int64]string {
	out := make(map[int64]string, len(ids))
	missing := uniqueIDs(ids)
	if r == nil {
		missing = nil
	}

	if len(missing) > 0 && r.Cache != nil {
		cached, err := r.Cache.GetMany(ctx, missing)
		if err != nil {
			r.logger().Warn("nickname cache read failed", slog.Any("error", err))
		}
		for id, nick := range cached {
			out[id] = nick
		}
		missing = slices.DeleteFunc(missing, func(id int64) bool {
			_, ok := out[id]
			return ok
		})
	}

	if len(missing) > 0 && r.Users != nil {
		found, err := r.Users.Nicknames(ctx, missing)
		if err != nil {
			r.logger().Warn("nickname lookup failed",
				slog.Int("ids", len(missing)),
				slog.Any("error", err))
		}
		for id, nick := range found {
			out[id] = nick
		}
		if r.Cache != nil && len(found) > 0 {
			if err := r.Cache.SetMany(ctx, found); err != nil {
				r.logger().Warn("nickname cache write failed", slog.Any("error", err))
			}
		}
	}

	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = UnknownAuthor
		}
	}
	return out
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func uniqueIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
