package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	authdomain "notibox-backend/internal/auth/domain"
	authrepo "notibox-backend/internal/auth/repository"
	notifdomain "notibox-backend/internal/notification/domain"
	notifrepo "notibox-backend/internal/notification/repository"
	"notibox-backend/pkg/push"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeSender records every relay call and fails for configured tokens.
type fakeSender struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, token string, msg push.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, token)
	if f.fail[token] {
		return errors.New("relay rejected message")
	}
	return nil
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type testEnv struct {
	db          *gorm.DB
	tokenRepo   authrepo.PushTokenRepository
	counterRepo notifrepo.CounterRepository
	inboxRepo   notifrepo.InboxRepository
	sender      *fakeSender
	usecase     NotificationUsecase
}

func setupBroadcastEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatal("failed to connect database")
	}
	// Serialize DB access so the concurrent fan-out does not trip over
	// sqlite's single-writer limitation in tests.
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&authdomain.User{}, &authdomain.PushToken{}, &notifdomain.Notification{}, &notifdomain.UnreadCounter{})
	if err != nil {
		t.Fatal(err)
	}

	sender := &fakeSender{fail: map[string]bool{}}
	tokenRepo := authrepo.NewPushTokenRepository(db)
	counterRepo := notifrepo.NewCounterRepository(db)
	inboxRepo := notifrepo.NewInboxRepository(db)

	return &testEnv{
		db:          db,
		tokenRepo:   tokenRepo,
		counterRepo: counterRepo,
		inboxRepo:   inboxRepo,
		sender:      sender,
		usecase:     NewNotificationUsecase(tokenRepo, inboxRepo, counterRepo, sender, nil),
	}
}

func adminUser() *authdomain.User {
	return &authdomain.User{ID: "admin-1", Email: "admin@example.com", Username: "admin", Role: authdomain.RoleAdmin}
}

func TestBroadcastExcludesSenderAndEmptyTokens(t *testing.T) {
	env := setupBroadcastEnv(t)
	sender := adminUser()

	// Sender has a token too; it must never be addressed.
	assert.NoError(t, env.tokenRepo.SaveToken(sender.ID, "ExponentPushToken[admin]", "ios", "", ""))
	assert.NoError(t, env.tokenRepo.SaveToken("user-b", "ExponentPushToken[b]", "ios", "", ""))
	assert.NoError(t, env.tokenRepo.SaveToken("user-c", "ExponentPushToken[c]", "android", "", ""))
	assert.NoError(t, env.tokenRepo.SaveToken("user-d", "", "web", "", ""))

	result, err := env.usecase.Broadcast(context.Background(), sender, "Maintenance", "Service restarts at 5pm")
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 2, env.sender.callCount())
	assert.NotContains(t, env.sender.calls, "ExponentPushToken[admin]")

	for _, userID := range []string{"user-b", "user-c"} {
		counter, err := env.counterRepo.Get(userID)
		assert.NoError(t, err)
		assert.NotNil(t, counter)
		assert.Equal(t, 1, counter.UnreadCount)

		inbox, err := env.inboxRepo.ListByUserID(userID)
		assert.NoError(t, err)
		assert.Len(t, inbox, 1)
		assert.Equal(t, "Maintenance", inbox[0].Title)
		assert.Equal(t, "Service restarts at 5pm", inbox[0].Body)
		assert.Equal(t, "admin", inbox[0].SenderName)
		assert.False(t, inbox[0].Read)
	}

	// The user with an empty token was never addressed.
	counter, err := env.counterRepo.Get("user-d")
	assert.NoError(t, err)
	assert.Nil(t, counter)
}

func TestBroadcastPartialFailureTouchesOnlySuccesses(t *testing.T) {
	env := setupBroadcastEnv(t)
	sender := adminUser()

	assert.NoError(t, env.tokenRepo.SaveToken("user-b", "ExponentPushToken[b]", "ios", "", ""))
	assert.NoError(t, env.tokenRepo.SaveToken("user-c", "ExponentPushToken[c]", "ios", "", ""))
	assert.NoError(t, env.tokenRepo.SaveToken("user-d", "ExponentPushToken[d]", "ios", "", ""))
	env.sender.fail["ExponentPushToken[c]"] = true

	result, err := env.usecase.Broadcast(context.Background(), sender, "Hello", "World")
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, env.sender.callCount())

	// The failed recipient keeps no counter and no inbox record.
	counter, err := env.counterRepo.Get("user-c")
	assert.NoError(t, err)
	assert.Nil(t, counter)
	inbox, err := env.inboxRepo.ListByUserID("user-c")
	assert.NoError(t, err)
	assert.Len(t, inbox, 0)

	for _, userID := range []string{"user-b", "user-d"} {
		counter, err := env.counterRepo.Get(userID)
		assert.NoError(t, err)
		assert.NotNil(t, counter)
		assert.Equal(t, 1, counter.UnreadCount)
	}
}

func TestBroadcastNoRecipientsFailsWithoutRelayCalls(t *testing.T) {
	env := setupBroadcastEnv(t)
	sender := adminUser()

	// Only the sender's own token is registered.
	assert.NoError(t, env.tokenRepo.SaveToken(sender.ID, "ExponentPushToken[admin]", "ios", "", ""))

	result, err := env.usecase.Broadcast(context.Background(), sender, "Hello", "World")
	assert.ErrorIs(t, err, ErrNoRecipients)
	assert.Nil(t, result)
	assert.Equal(t, 0, env.sender.callCount())
}

func TestBroadcastAllDeliveriesFailed(t *testing.T) {
	env := setupBroadcastEnv(t)
	sender := adminUser()

	assert.NoError(t, env.tokenRepo.SaveToken("user-b", "ExponentPushToken[b]", "ios", "", ""))
	assert.NoError(t, env.tokenRepo.SaveToken("user-c", "ExponentPushToken[c]", "ios", "", ""))
	env.sender.fail["ExponentPushToken[b]"] = true
	env.sender.fail["ExponentPushToken[c]"] = true

	result, err := env.usecase.Broadcast(context.Background(), sender, "Hello", "World")
	assert.ErrorIs(t, err, ErrAllFailed)
	assert.NotNil(t, result)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 2, result.Failed)
	// All relay attempts were still made before reporting the failure.
	assert.Equal(t, 2, env.sender.callCount())
}

func TestBroadcastRejectsNonAdmin(t *testing.T) {
	env := setupBroadcastEnv(t)
	assert.NoError(t, env.tokenRepo.SaveToken("user-b", "ExponentPushToken[b]", "ios", "", ""))

	user := &authdomain.User{ID: "user-a", Username: "alice", Role: authdomain.RoleUser}
	_, err := env.usecase.Broadcast(context.Background(), user, "Hello", "World")
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.Equal(t, 0, env.sender.callCount())
}

func TestBroadcastRejectsEmptyFields(t *testing.T) {
	env := setupBroadcastEnv(t)

	_, err := env.usecase.Broadcast(context.Background(), adminUser(), "  ", "World")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = env.usecase.Broadcast(context.Background(), adminUser(), "Hello", "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, env.sender.callCount())
}

func TestMarkViewedResetsCounterToZero(t *testing.T) {
	env := setupBroadcastEnv(t)

	assert.NoError(t, env.counterRepo.Increment("user-b", 5))
	assert.NoError(t, env.usecase.MarkViewed("user-b"))

	counter, err := env.counterRepo.Get("user-b")
	assert.NoError(t, err)
	assert.NotNil(t, counter)
	assert.Equal(t, 0, counter.UnreadCount)
}

func TestUnreadCreatesCounterLazily(t *testing.T) {
	env := setupBroadcastEnv(t)

	counter, err := env.usecase.Unread("user-new")
	assert.NoError(t, err)
	assert.NotNil(t, counter)
	assert.Equal(t, 0, counter.UnreadCount)
}
