package repository

import (
	"fmt"
	"testing"
	"time"

	"notibox-backend/internal/notification/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInboxDB(t *testing.T) (InboxRepository, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatal("failed to connect database")
	}
	if err := db.AutoMigrate(&domain.Notification{}); err != nil {
		t.Fatal(err)
	}
	return NewInboxRepository(db), db
}

func TestAppendAndListNewestFirst(t *testing.T) {
	repo, _ := setupInboxDB(t)

	first := &domain.Notification{UserID: "user-1", Title: "first", Body: "a", SenderName: "admin"}
	assert.NoError(t, repo.Append(first))
	time.Sleep(5 * time.Millisecond)
	second := &domain.Notification{UserID: "user-1", Title: "second", Body: "b", SenderName: "admin"}
	assert.NoError(t, repo.Append(second))

	// Another user's record must not leak into the listing.
	assert.NoError(t, repo.Append(&domain.Notification{UserID: "user-2", Title: "other", Body: "c"}))

	list, err := repo.ListByUserID("user-1")
	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "first", list[1].Title)
}

func TestAppendedRecordsKeepTheirContent(t *testing.T) {
	repo, db := setupInboxDB(t)

	record := &domain.Notification{
		UserID:       "user-1",
		Title:        "Maintenance",
		Body:         "Service restarts at 5pm",
		SenderName:   "admin",
		MessageTitle: "Maintenance",
		Read:         false,
	}
	assert.NoError(t, repo.Append(record))
	assert.NotEmpty(t, record.ID)

	// Re-running the flow appends, never rewrites: the stored record stays
	// byte-for-byte what was appended.
	var stored domain.Notification
	assert.NoError(t, db.First(&stored, "id = ?", record.ID).Error)
	assert.Equal(t, record.Title, stored.Title)
	assert.Equal(t, record.Body, stored.Body)
	assert.Equal(t, record.SenderName, stored.SenderName)
	assert.False(t, stored.Read)

	list, err := repo.ListByUserID("user-1")
	assert.NoError(t, err)
	assert.Len(t, list, 1)
}
