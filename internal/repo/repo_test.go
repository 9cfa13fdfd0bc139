package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pulsebrief/newsletter-api/internal/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Interest{},
		&models.Newsletter{},
		&models.ContentItem{},
	))
	return New(db)
}

func TestRepo_CreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.CreateUser(ctx, "a@example.com", "hash1")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := r.CreateUser(ctx, "a@example.com", "hash2")
	require.ErrorIs(t, err, ErrUserExists)
	assert.Nil(t, second)
}

func TestRepo_GetUser(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.CreateUser(ctx, "a@example.com", "hash")
	require.NoError(t, err)

	byEmail, err := r.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := r.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID.Email)

	_, err = r.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.GetUserByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepo_DeleteUser_CascadesOwnedRows(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	user, err := r.CreateUser(ctx, "a@example.com", "hash")
	require.NoError(t, err)

	_, err = r.UpsertInterest(ctx, user.ID, "go")
	require.NoError(t, err)
	newsletter, err := r.CreateNewsletter(ctx, user.ID, "Weekly Go")
	require.NoError(t, err)
	_, err = r.AddContentItem(ctx, newsletter.ID, "go", "https://blog.example/post-1", "a post")
	require.NoError(t, err)

	require.NoError(t, r.DeleteUser(ctx, user.ID))

	_, err = r.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	interests, err := r.ListInterests(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, interests)

	newsletters, err := r.ListNewsletters(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, newsletters)

	items, err := r.ListContentItems(ctx, newsletter.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepo_UpsertInterest(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	user, err := r.CreateUser(ctx, "a@example.com", "hash")
	require.NoError(t, err)

	first, err := r.UpsertInterest(ctx, user.ID, "go")
	require.NoError(t, err)
	assert.True(t, first.Active)

	// Same name again does not create a second row.
	again, err := r.UpsertInterest(ctx, user.ID, "go")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	require.NoError(t, r.DeactivateInterest(ctx, user.ID, "go"))
	interests, err := r.ListInterests(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, interests)

	// Upserting a deactivated interest reactivates it.
	revived, err := r.UpsertInterest(ctx, user.ID, "go")
	require.NoError(t, err)
	assert.Equal(t, first.ID, revived.ID)
	assert.True(t, revived.Active)

	// The same name under another user is a distinct row.
	other, err := r.CreateUser(ctx, "b@example.com", "hash")
	require.NoError(t, err)
	otherInterest, err := r.UpsertInterest(ctx, other.ID, "go")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, otherInterest.ID)
}

func TestRepo_AddContentItem_DeduplicatesBySourceURL(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	user, err := r.CreateUser(ctx, "a@example.com", "hash")
	require.NoError(t, err)
	newsletter, err := r.CreateNewsletter(ctx, user.ID, "Weekly Go")
	require.NoError(t, err)

	_, err = r.AddContentItem(ctx, newsletter.ID, "go", "https://blog.example/post-1", "a post")
	require.NoError(t, err)

	_, err = r.AddContentItem(ctx, newsletter.ID, "go generics", "https://blog.example/post-1", "same url")
	assert.ErrorIs(t, err, ErrDuplicateContent)
}
