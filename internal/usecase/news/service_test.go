package news_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"brazucas-cork/internal/common/pagination"
	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/repository"
	"brazucas-cork/internal/usecase/author"
	"brazucas-cork/internal/usecase/moderation"
	newsUC "brazucas-cork/internal/usecase/news"
)

/* ───────── stubs ───────── */

// memRepo is an in-memory NewsRepository. It hands out copies so the
// service cannot mutate stored rows without calling Update.
type memRepo struct {
	mu     sync.Mutex
	data   map[int64]entity.News
	nextID int64
	err    error
}

func newMemRepo() *memRepo {
	return &memRepo{data: map[int64]entity.News{}, nextID: 1}
}

func (m *memRepo) Get(_ context.Context, id int64) (*entity.News, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	n, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (m *memRepo) List(_ context.Context, f repository.ContentFilter) ([]*entity.News, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*entity.News
	for _, n := range m.data {
		if f.AuthorID != 0 && n.AuthorID != f.AuthorID {
			continue
		}
		if f.Status != "" && n.Status() != f.Status {
			continue
		}
		out = append(out, &n)
	}
	slices.SortFunc(out, func(a, b *entity.News) int { return int(a.ID - b.ID) })
	return out, nil
}

func (m *memRepo) ListPublishedPaginated(ctx context.Context, offset, limit int) ([]*entity.News, error) {
	all, err := m.List(ctx, repository.ContentFilter{Status: entity.StatusPublished})
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (m *memRepo) CountPublished(ctx context.Context) (int64, error) {
	all, err := m.List(ctx, repository.ContentFilter{Status: entity.StatusPublished})
	return int64(len(all)), err
}

func (m *memRepo) Create(_ context.Context, n *entity.News) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	n.ID = m.nextID
	m.nextID++
	m.data[n.ID] = *n
	return nil
}

func (m *memRepo) Update(_ context.Context, n *entity.News) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[n.ID] = *n
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return m.err
}

func (m *memRepo) GetForModeration(_ context.Context, id int64) (*repository.ModerationItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.data[id]
	if !ok {
		return nil, m.err
	}
	return &repository.ModerationItem{ID: n.ID, Title: n.Title, Approval: n.Approval}, m.err
}

func (m *memRepo) SetPublished(_ context.Context, id int64, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.data[id]
	n.Published = published
	m.data[id] = n
	return m.err
}

func (m *memRepo) SetDecision(_ context.Context, id int64, approved bool, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.data[id]
	n.Decide(approved, at)
	m.data[id] = n
	return m.err
}

func (m *memRepo) CountByStatus(_ context.Context) (map[entity.Status]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[entity.Status]int64{}
	for _, n := range m.data {
		out[n.Status()]++
	}
	return out, m.err
}

// stubUsers only answers nickname lookups.
type stubUsers struct {
	repository.UserRepository
	nicks map[int64]string
	err   error
}

func (s *stubUsers) Nicknames(_ context.Context, ids []int64) (map[int64]string, error) {
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

type recordingTracker struct {
	changes []moderation.Change
}

func (r *recordingTracker) Track(_ context.Context, c moderation.Change) {
	r.changes = append(r.changes, c)
}

/* ───────── helpers ───────── */

var (
	alice = entity.Principal{ID: 1, Role: entity.RoleNormal, Nickname: "alice"}
	bob   = entity.Principal{ID: 2, Role: entity.RoleAdvertiser, Nickname: "bob"}
	admin = entity.Principal{ID: 9, Role: entity.RoleAdmin, Nickname: "root"}
)

var fixedNow = time.Date(2026, 3, 17, 12, 0, 0, 0, time.UTC)

func newService(repo *memRepo) (*newsUC.Service, *recordingTracker) {
	tr := &recordingTracker{}
	return &newsUC.Service{
		Repo:    repo,
		Authors: &author.Resolver{Users: &stubUsers{nicks: map[int64]string{1: "alice", 2: "bob", 9: "root"}}},
		Tracker: tr,
		Now:     func() time.Time { return fixedNow },
	}, tr
}

func validInput(published bool) newsUC.CreateInput {
	return newsUC.CreateInput{
		Title:     "Festa Junina em Cork",
		Body:      "Come to the **festa** at the Marina Market.",
		Category:  "events",
		Published: published,
	}
}

func ids(items []newsUC.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

/* ───────── tests ───────── */

func TestService_Create_StoredWithoutDecision(t *testing.T) {
	repo := newMemRepo()
	svc, tr := newService(repo)

	item, err := svc.Create(context.Background(), alice, validInput(false))
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if item.ID == 0 {
		t.Fatal("Create did not assign an id")
	}
	if item.Approved != nil || item.ApprovedAt != nil {
		t.Fatalf("new post carries a decision: approved=%v approvedAt=%v", item.Approved, item.ApprovedAt)
	}
	if item.AuthorID != alice.ID || item.AuthorNickname != "alice" {
		t.Fatalf("author = %d/%q", item.AuthorID, item.AuthorNickname)
	}
	if item.Status() != entity.StatusDraft {
		t.Fatalf("status = %s, want draft", item.Status())
	}
	if item.Slug != "festa-junina-em-cork" {
		t.Fatalf("slug = %q", item.Slug)
	}
	if !strings.Contains(item.BodyHTML, "<strong>festa</strong>") {
		t.Fatalf("body html = %q", item.BodyHTML)
	}
	if item.Summary == "" {
		t.Fatal("summary was not generated from the body")
	}

	mine, err := svc.ListMine(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListMine err=%v", err)
	}
	if len(mine) != 1 || mine[0].ID != item.ID || mine[0].Approved != nil {
		t.Fatalf("ListMine = %+v", mine)
	}

	if len(tr.changes) != 1 || tr.changes[0].From != "" || tr.changes[0].To != entity.StatusDraft {
		t.Fatalf("tracked changes = %+v", tr.changes)
	}
}

func TestService_Create_Errors(t *testing.T) {
	tests := []struct {
		name   string
		caller entity.Principal
		in     newsUC.CreateInput
		want   error
	}{
		{"anonymous", entity.Principal{}, validInput(false), entity.ErrForbidden},
		{"short title", alice, newsUC.CreateInput{Title: "Hi", Body: "x"}, entity.ErrValidationFailed},
		{"empty body", alice, newsUC.CreateInput{Title: "Valid title"}, entity.ErrValidationFailed},
		{"private image", alice, newsUC.CreateInput{Title: "Valid title", Body: "x", ImageURL: "http://127.0.0.1/a.png"}, entity.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(newMemRepo())
			if _, err := svc.Create(context.Background(), tt.caller, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want %v", err, tt.want)
			}
		})
	}
}

func TestService_ApprovalScenario(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc, _ := newService(repo)
	mod := &moderation.Service{
		Stores: map[entity.Kind]repository.ApprovalStore{entity.KindNews: repo},
		Now:    func() time.Time { return fixedNow },
	}
	svc.Tracker = mod

	item, err := svc.Create(ctx, alice, validInput(true))
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	draft, err := svc.Create(ctx, alice, validInput(false))
	if err != nil {
		t.Fatalf("Create draft err=%v", err)
	}

	pending, err := svc.ListPending(ctx, admin)
	if err != nil {
		t.Fatalf("ListPending err=%v", err)
	}
	if got := ids(pending); !slices.Equal(got, []int64{item.ID}) {
		t.Fatalf("pending ids = %v, want [%d] (draft %d excluded)", got, item.ID, draft.ID)
	}

	if _, err := mod.Approve(ctx, admin, entity.KindNews, item.ID); err != nil {
		t.Fatalf("Approve err=%v", err)
	}

	published, err := svc.ListPublished(ctx)
	if err != nil {
		t.Fatalf("ListPublished err=%v", err)
	}
	if len(published) != 1 || published[0].ID != item.ID {
		t.Fatalf("published = %v", ids(published))
	}
	if published[0].ApprovedAt == nil || !published[0].ApprovedAt.Equal(fixedNow) {
		t.Fatalf("approvedAt = %v, want %v", published[0].ApprovedAt, fixedNow)
	}

	pending, err = svc.ListPending(ctx, admin)
	if err != nil {
		t.Fatalf("ListPending err=%v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after approval = %v", ids(pending))
	}
}

func TestService_ListPending_AdminOnly(t *testing.T) {
	svc, _ := newService(newMemRepo())
	for _, p := range []entity.Principal{{}, alice, bob} {
		if _, err := svc.ListPending(context.Background(), p); !errors.Is(err, entity.ErrForbidden) {
			t.Fatalf("ListPending(%+v) err=%v, want forbidden", p, err)
		}
		if _, err := svc.ListAll(context.Background(), p); !errors.Is(err, entity.ErrForbidden) {
			t.Fatalf("ListAll(%+v) err=%v, want forbidden", p, err)
		}
	}
}

func TestService_NonOwnerCannotEditOrDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc, _ := newService(repo)
	item, err := svc.Create(ctx, alice, validInput(true))
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	title := "Hijacked title"
	if _, err := svc.Update(ctx, bob, newsUC.UpdateInput{ID: item.ID, Title: &title}); !errors.Is(err, entity.ErrForbidden) {
		t.Fatalf("Update by stranger err=%v, want forbidden", err)
	}
	if err := svc.Delete(ctx, bob, item.ID); !errors.Is(err, entity.ErrForbidden) {
		t.Fatalf("Delete by stranger err=%v, want forbidden", err)
	}
	if got, _ := repo.Get(ctx, item.ID); got == nil || got.Title != item.Title {
		t.Fatalf("stored post changed: %+v", got)
	}

	if err := svc.Delete(ctx, admin, item.ID); err != nil {
		t.Fatalf("Delete by admin err=%v", err)
	}
	if err := svc.Delete(ctx, admin, item.ID); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("second Delete err=%v, want not found", err)
	}
}

func TestService_Update_ApprovalPolicy(t *testing.T) {
	newTitle := "Updated festa title"
	unpublish := false

	tests := []struct {
		name       string
		caller     entity.Principal
		in         newsUC.UpdateInput
		wantStatus entity.Status
		wantReset  bool
	}{
		{"owner content edit resets", alice, newsUC.UpdateInput{Title: &newTitle}, entity.StatusPendingApproval, true},
		{"admin content edit keeps", admin, newsUC.UpdateInput{Title: &newTitle}, entity.StatusPublished, false},
		{"owner unpublish keeps", alice, newsUC.UpdateInput{Published: &unpublish}, entity.StatusDraft, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newMemRepo()
			svc, _ := newService(repo)
			item, err := svc.Create(ctx, alice, validInput(true))
			if err != nil {
				t.Fatalf("Create err=%v", err)
			}
			_ = repo.SetDecision(ctx, item.ID, true, fixedNow)

			tt.in.ID = item.ID
			got, err := svc.Update(ctx, tt.caller, tt.in)
			if err != nil {
				t.Fatalf("Update err=%v", err)
			}
			if got.Status() != tt.wantStatus {
				t.Fatalf("status = %s, want %s", got.Status(), tt.wantStatus)
			}
			if reset := got.Approved == nil && got.ApprovedAt == nil; reset != tt.wantReset {
				t.Fatalf("reset = %v, want %v", reset, tt.wantReset)
			}
			stored, _ := repo.Get(ctx, item.ID)
			if stored.Status() != tt.wantStatus {
				t.Fatalf("stored status = %s, want %s", stored.Status(), tt.wantStatus)
			}
		})
	}
}

func TestService_Update_RerendersBody(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(newMemRepo())
	item, err := svc.Create(ctx, alice, validInput(false))
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	body := "New body with <script>alert(1)</script> *emphasis*"
	got, err := svc.Update(ctx, alice, newsUC.UpdateInput{ID: item.ID, Body: &body})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if strings.Contains(got.BodyHTML, "<script>") {
		t.Fatalf("body html not sanitized: %q", got.BodyHTML)
	}
	if !strings.Contains(got.BodyHTML, "<em>emphasis</em>") {
		t.Fatalf("body html = %q", got.BodyHTML)
	}
}

func TestService_Update_RefreshesGeneratedSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(newMemRepo())
	item, err := svc.Create(ctx, alice, validInput(false))
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if item.Summary != "Come to the festa at the Marina Market." {
		t.Fatalf("summary = %q", item.Summary)
	}

	body := "Completely different text about the Marina."
	got, err := svc.Update(ctx, alice, newsUC.UpdateInput{ID: item.ID, Body: &body})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if got.Summary != body {
		t.Fatalf("summary after body edit = %q, want %q", got.Summary, body)
	}
}

func TestService_Update_KeepsAuthorSummary(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(newMemRepo())
	in := validInput(false)
	in.Summary = "Festa no sábado"
	item, err := svc.Create(ctx, alice, in)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	body := "Completely different text about the Marina."
	got, err := svc.Update(ctx, alice, newsUC.UpdateInput{ID: item.ID, Body: &body})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if got.Summary != "Festa no sábado" {
		t.Fatalf("author summary overwritten: %q", got.Summary)
	}
}

func TestService_MultiByteBodyStaysEditable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(newMemRepo())
	in := validInput(false)
	in.Body = strings.Repeat("🎉 ", 200)
	item, err := svc.Create(ctx, alice, in)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if len(item.Summary) <= entity.MaxSummaryLength {
		t.Fatalf("summary is only %d bytes, want a multi-byte excerpt over the limit in bytes", len(item.Summary))
	}

	title := "Festa junina remarcada"
	if _, err := svc.Update(ctx, admin, newsUC.UpdateInput{ID: item.ID, Title: &title}); err != nil {
		t.Fatalf("title-only Update err=%v", err)
	}
}

func TestService_Get_Visibility(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc, _ := newService(repo)
	draft, _ := svc.Create(ctx, alice, validInput(false))
	live, _ := svc.Create(ctx, alice, validInput(true))
	_ = repo.SetDecision(ctx, live.ID, true, fixedNow)

	tests := []struct {
		name    string
		caller  entity.Principal
		id      int64
		wantErr error
	}{
		{"published to anonymous", entity.Principal{}, live.ID, nil},
		{"draft to owner", alice, draft.ID, nil},
		{"draft to admin", admin, draft.ID, nil},
		{"draft to stranger", bob, draft.ID, entity.ErrNotFound},
		{"draft to anonymous", entity.Principal{}, draft.ID, entity.ErrNotFound},
		{"missing", admin, 999, entity.ErrNotFound},
		{"invalid id", admin, 0, entity.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Get(ctx, tt.caller, tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err=%v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got.ID != tt.id {
				t.Fatalf("Get = %+v, %v", got, err)
			}
		})
	}
}

func TestService_Enrichment_FallsBackToPlaceholder(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc, _ := newService(repo)
	if _, err := svc.Create(ctx, alice, validInput(false)); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	svc.Authors = &author.Resolver{Users: &stubUsers{err: errors.New("db down")}}

	mine, err := svc.ListMine(ctx, alice)
	if err != nil {
		t.Fatalf("ListMine err=%v, enrichment must not fail the request", err)
	}
	if len(mine) != 1 || mine[0].AuthorNickname != author.UnknownAuthor {
		t.Fatalf("ListMine = %+v", mine)
	}
}

func TestService_ListMine_RequiresIdentity(t *testing.T) {
	svc, _ := newService(newMemRepo())
	if _, err := svc.ListMine(context.Background(), entity.Principal{}); !errors.Is(err, entity.ErrUnauthorized) {
		t.Fatalf("err=%v, want unauthorized", err)
	}
}

func TestService_ListPublishedPage(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc, _ := newService(repo)
	for i := 0; i < 5; i++ {
		item, err := svc.Create(ctx, alice, validInput(true))
		if err != nil {
			t.Fatalf("Create err=%v", err)
		}
		_ = repo.SetDecision(ctx, item.ID, true, fixedNow)
	}

	res, err := svc.ListPublishedPage(ctx, pagination.Params{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListPublishedPage err=%v", err)
	}
	if len(res.Data) != 2 {
		t.Fatalf("page size = %d, want 2", len(res.Data))
	}
	want := pagination.Metadata{Total: 5, Page: 2, Limit: 2, TotalPages: 3}
	if res.Pagination != want {
		t.Fatalf("pagination = %+v, want %+v", res.Pagination, want)
	}
}

func TestService_RepositoryErrorPropagates(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection reset")
	svc, _ := newService(repo)
	if _, err := svc.ListPublished(context.Background()); err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("err=%v", err)
	}
}
