package database

import (
	"testing"
	"time"

	"github.com/asharma/portfolio-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestProjectRepo_AddNormalizesListFields(t *testing.T) {
	repo := NewProjectRepo(setupTestDB(t))

	project := &models.Project{
		Title:       "Portfolio Site",
		Description: "The site itself",
		Tags:        []string{"go"},
	}
	require.NoError(t, repo.Add(project))
	assert.NotEqual(t, uuid.Nil, project.ID)

	stored, err := repo.FindByID(project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	// tags is never null and keeps at least the creation entry
	require.NotNil(t, stored.Tags)
	assert.Equal(t, []string{"go"}, []string(stored.Tags))
	// techStack and seo keywords default to empty, never absent
	assert.NotNil(t, stored.TechStack)
	assert.NotNil(t, stored.SEO.Keywords)
	assert.Empty(t, stored.SEO.Title)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.False(t, stored.UpdatedAt.IsZero())
}

func TestProjectRepo_FindByIDAbsentIsNotAnError(t *testing.T) {
	repo := NewProjectRepo(setupTestDB(t))

	project, err := repo.FindByID(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, project)
}

func TestProjectRepo_FindAllOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepo(db)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p := &models.Project{Title: "p", Description: "d", Tags: []string{"t"}}
		require.NoError(t, repo.Add(p))
		require.NoError(t, db.Model(p).Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
		ids = append(ids, p.ID)
	}

	projects, err := repo.FindAll(0)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, ids[2], projects[0].ID)
	assert.Equal(t, ids[0], projects[2].ID)

	capped, err := repo.FindAll(2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestProjectRepo_ReplaceStampsUpdatedAt(t *testing.T) {
	repo := NewProjectRepo(setupTestDB(t))

	project := &models.Project{Title: "before", Description: "d", Tags: []string{"t"}}
	require.NoError(t, repo.Add(project))
	created := project.CreatedAt

	project.Title = "after"
	project.Tags = nil // edits may empty the list; it must stay non-null
	require.NoError(t, repo.Replace(project))

	stored, err := repo.FindByID(project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "after", stored.Title)
	assert.NotNil(t, stored.Tags)
	assert.Empty(t, []string(stored.Tags))
	assert.Equal(t, created.Unix(), stored.CreatedAt.Unix())
	assert.True(t, stored.UpdatedAt.After(created) || stored.UpdatedAt.Equal(created))
}

func TestProjectRepo_DeleteIsIdempotent(t *testing.T) {
	repo := NewProjectRepo(setupTestDB(t))

	project := &models.Project{Title: "p", Description: "d", Tags: []string{"t"}}
	require.NoError(t, repo.Add(project))

	deleted, err := repo.Delete(project.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// second delete reports nothing deleted, not an error
	deleted, err = repo.Delete(project.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestContactMessageRepo_CreatedUnread(t *testing.T) {
	repo := NewContactMessageRepo(setupTestDB(t))

	message := &models.ContactMessage{
		Name:    "Jordan Lee",
		Email:   "jordan@example.com",
		Message: "twelve chars",
		Read:    true, // callers cannot create an already-read message
	}
	require.NoError(t, repo.Add(message))

	stored, err := repo.FindByID(message.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Read)
}

func TestContactMessageRepo_MarkReadIsMonotonic(t *testing.T) {
	repo := NewContactMessageRepo(setupTestDB(t))

	message := &models.ContactMessage{Name: "n", Email: "e@example.com", Message: "hello there!"}
	require.NoError(t, repo.Add(message))

	found, err := repo.MarkRead(message.ID)
	require.NoError(t, err)
	assert.True(t, found)

	// marking again is a no-op success; read never transitions back
	found, err = repo.MarkRead(message.ID)
	require.NoError(t, err)
	assert.True(t, found)

	stored, err := repo.FindByID(message.ID)
	require.NoError(t, err)
	assert.True(t, stored.Read)

	found, err = repo.MarkRead(uuid.New())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestContactMessageRepo_UnreadCount(t *testing.T) {
	repo := NewContactMessageRepo(setupTestDB(t))

	first := &models.ContactMessage{Name: "a", Email: "a@example.com", Message: "first message"}
	second := &models.ContactMessage{Name: "b", Email: "b@example.com", Message: "second message"}
	require.NoError(t, repo.Add(first))
	require.NoError(t, repo.Add(second))

	count, err := repo.UnreadCount()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, err = repo.MarkRead(first.ID)
	require.NoError(t, err)

	count, err = repo.UnreadCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUserRepo_FindByEmail(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))

	user, err := repo.FindByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	require.NoError(t, repo.Add(&models.User{Name: "Ananta", Email: "me@example.com"}))

	user, err = repo.FindByEmail("me@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.RoleUser, user.Role, "first sign-in defaults to user role")
}

func TestUserRepo_UpdateRole(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	require.NoError(t, repo.Add(&models.User{Email: "other@example.com"}))

	updated, err := repo.UpdateRole("other@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, updated)

	user, err := repo.FindByEmail("other@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	updated, err = repo.UpdateRole("ghost@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, updated)
}
