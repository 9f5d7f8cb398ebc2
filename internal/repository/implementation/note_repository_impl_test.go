package implementation_test

import (
	"context"
	"testing"
	"time"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/testdb"
	"notekeeper-be/internal/repository/implementation"
	"notekeeper-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, ctx context.Context, repo interface {
	Create(context.Context, *entity.User) error
}, username string) uuid.UUID {
	t.Helper()
	u := &entity.User{Id: uuid.New(), Username: username, PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	return u.Id
}

func newNote(owner uuid.UUID, title string, tags []string, at time.Time) *entity.Note {
	return &entity.Note{
		Id:        uuid.New(),
		UserId:    owner,
		Title:     title,
		Content:   "body of " + title,
		Tags:      tags,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestNoteRepository_TagSearchIsExactAndCaseSensitive(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	users := implementation.NewUserRepository(db)
	notes := implementation.NewNoteRepository(db)

	owner := seedUser(t, ctx, users, "alice")
	other := seedUser(t, ctx, users, "bob")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newNote(owner, "first", []string{"work", "urgent"}, base)
	require.NoError(t, notes.Create(ctx, first))
	require.NoError(t, notes.Create(ctx, newNote(owner, "second", []string{"Work"}, base.Add(time.Second))))
	require.NoError(t, notes.Create(ctx, newNote(owner, "third", []string{"workshop"}, base.Add(2*time.Second))))
	require.NoError(t, notes.Create(ctx, newNote(other, "foreign", []string{"work"}, base.Add(3*time.Second))))

	found, err := notes.FindAll(ctx,
		specification.NoteOwnedByUser{UserID: owner},
		specification.HasTag{Tag: "work"},
	)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.Id, found[0].Id)
	assert.Equal(t, []string{"work", "urgent"}, found[0].Tags)

	none, err := notes.FindAll(ctx,
		specification.NoteOwnedByUser{UserID: owner},
		specification.HasTag{Tag: "missing"},
	)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNoteRepository_ApplyPatchOnlyTouchesPresentFields(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	users := implementation.NewUserRepository(db)
	notes := implementation.NewNoteRepository(db)

	owner := seedUser(t, ctx, users, "alice")
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := newNote(owner, "A", []string{"x"}, created)
	n.Content = "B"
	require.NoError(t, notes.Create(ctx, n))

	content := "C"
	updated := created.Add(time.Minute)
	ok, err := notes.ApplyPatch(ctx, n.Id, owner, entity.NotePatch{Content: &content}, updated)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := notes.FindOne(ctx, specification.ByID{ID: n.Id})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.Equal(t, []string{"x"}, got.Tags)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(updated))

	empty := ""
	noTags := []string{}
	ok, err = notes.ApplyPatch(ctx, n.Id, owner, entity.NotePatch{Content: &empty, Tags: &noTags}, updated)
	require.NoError(t, err)
	require.True(t, ok)

	got, err = notes.FindOne(ctx, specification.ByID{ID: n.Id})
	require.NoError(t, err)
	assert.Equal(t, "", got.Content)
	assert.Empty(t, got.Tags)
	assert.NotNil(t, got.Tags)
}

func TestNoteRepository_OwnerScopedWrites(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	users := implementation.NewUserRepository(db)
	notes := implementation.NewNoteRepository(db)

	owner := seedUser(t, ctx, users, "alice")
	intruder := seedUser(t, ctx, users, "mallory")
	n := newNote(owner, "secret", nil, time.Now().UTC())
	require.NoError(t, notes.Create(ctx, n))

	title := "pwned"
	ok, err := notes.ApplyPatch(ctx, n.Id, intruder, entity.NotePatch{Title: &title}, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := notes.Delete(ctx, n.Id, intruder)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = notes.Delete(ctx, n.Id, owner)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = notes.Delete(ctx, n.Id, owner)
	require.NoError(t, err)
	assert.False(t, deleted)

	count, err := notes.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNoteRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	users := implementation.NewUserRepository(db)
	notes := implementation.NewNoteRepository(db)

	owner := seedUser(t, ctx, users, "alice")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"old", "mid", "new"} {
		require.NoError(t, notes.Create(ctx, newNote(owner, title, nil, base.Add(time.Duration(i)*time.Hour))))
	}

	found, err := notes.FindAll(ctx,
		specification.NoteOwnedByUser{UserID: owner},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "new", found[0].Title)
	assert.Equal(t, "old", found[2].Title)
}
