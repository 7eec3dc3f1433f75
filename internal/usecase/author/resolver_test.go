package author_test

import (
	"context"
	"errors"
	"testing"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/usecase/author"

	"github.com/google/go-cmp/cmp"
)

type stubUsers struct {
	nicks map[int64]string
	err   error
	calls [][]int64
}

func (s *stubUsers) Get(context.Context, int64) (*entity.User, error)         { return nil, nil }
func (s *stubUsers) GetByEmail(context.Context, string) (*entity.User, error) { return nil, nil }
func (s *stubUsers) List(context.Context) ([]*entity.User, error)             { return nil, nil }
func (s *stubUsers) Create(context.Context, *entity.User) error               { return nil }
func (s *stubUsers) UpdateRole(context.Context, int64, entity.Role) error     { return nil }
func (s *stubUsers) UpdatePassword(context.Context, int64, string) error      { return nil }
func (s *stubUsers) Nicknames(_ context.Context, ids []int64) (map[int64]string, error) {
	s.calls = append(s.calls, ids)
	if s.err != nil {
		return nil, s.err
	}
	out := map[int64]string{}
	for _, id := range ids {
		if n, ok := s.nicks[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

type stubCache struct {
	data    map[int64]string
	readErr error
	written map[int64]string
}

func (c *stubCache) GetMany(_ context.Context, ids []int64) (map[int64]string, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	out := map[int64]string{}
	for _, id := range ids {
		if n, ok := c.data[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (c *stubCache) SetMany(_ context.Context, m map[int64]string) error {
	if c.written == nil {
		c.written = map[int64]string{}
	}
	for k, v := range m {
		c.written[k] = v
	}
	return nil
}

func TestResolver_Nicknames(t *testing.T) {
	users := &stubUsers{nicks: map[int64]string{1: "maria", 2: "joao"}}
	r := &author.Resolver{Users: users}

	got := r.Nicknames(context.Background(), []int64{1, 2, 1, 99})
	want := map[int64]string{1: "maria", 2: "joao", 99: author.UnknownAuthor}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Nicknames mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]int64{{1, 2, 99}}, users.calls); diff != "" {
		t.Fatalf("lookup must be one deduplicated query (-want +got):\n%s", diff)
	}
}

func TestResolver_LookupFailureYieldsPlaceholder(t *testing.T) {
	r := &author.Resolver{Users: &stubUsers{err: errors.New("connection refused")}}

	if got := r.Nickname(context.Background(), 5); got != author.UnknownAuthor {
		t.Fatalf("Nickname() = %q, want placeholder", got)
	}
}

func TestResolver_UsesCache(t *testing.T) {
	users := &stubUsers{nicks: map[int64]string{2: "joao"}}
	cache := &stubCache{data: map[int64]string{1: "maria"}}
	r := &author.Resolver{Users: users, Cache: cache}

	got := r.Nicknames(context.Background(), []int64{1, 2})
	if diff := cmp.Diff(map[int64]string{1: "maria", 2: "joao"}, got); diff != "" {
		t.Fatalf("Nicknames mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]int64{{2}}, users.calls); diff != "" {
		t.Fatalf("only cache misses should hit the repository (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[int64]string{2: "joao"}, cache.written); diff != "" {
		t.Fatalf("misses must be written back (-want +got):\n%s", diff)
	}
}

func TestResolver_CacheFailureFallsBackToRepository(t *testing.T) {
	users := &stubUsers{nicks: map[int64]string{1: "maria"}}
	r := &author.Resolver{Users: users, Cache: &stubCache{readErr: errors.New("redis down")}}

	if got := r.Nickname(context.Background(), 1); got != "maria" {
		t.Fatalf("Nickname() = %q, want maria", got)
	}
}

func TestResolver_Empty(t *testing.T) {
	r := &author.Resolver{}
	if got := r.Nicknames(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	if got := r.Nickname(context.Background(), 3); got != author.UnknownAuthor {
		t.Fatalf("no repository must still give placeholder, got %q", got)
	}
}
