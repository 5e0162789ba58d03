package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	authdomain "notibox-backend/internal/auth/domain"
	authrepo "notibox-backend/internal/auth/repository"
	"notibox-backend/internal/notification/domain"
	"notibox-backend/internal/notification/repository"
	"notibox-backend/pkg/logger"
	"notibox-backend/pkg/push"
)

// notificationUsecase implements NotificationUsecase interface
type notificationUsecase struct {
	tokenRepo   authrepo.PushTokenRepository
	inboxRepo   repository.InboxRepository
	counterRepo repository.CounterRepository
	sender      push.Sender
	events      EventPublisher
}

// NewNotificationUsecase creates a new instance of notificationUsecase.
// events may be nil when no live stream is attached.
func NewNotificationUsecase(tokenRepo authrepo.PushTokenRepository, inboxRepo repository.InboxRepository, counterRepo repository.CounterRepository, sender push.Sender, events EventPublisher) NotificationUsecase {
	return &notificationUsecase{
		tokenRepo:   tokenRepo,
		inboxRepo:   inboxRepo,
		counterRepo: counterRepo,
		sender:      sender,
		events:      events,
	}
}

func (u *notificationUsecase) Broadcast(ctx context.Context, sender *authdomain.User, title, body string) (*BroadcastResult, error) {
	if sender == nil || !sender.IsAdmin() {
		return nil, ErrNotAdmin
	}

	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return nil, ErrEmptyMessage
	}

	// A failure here aborts the whole broadcast before any relay call.
	tokens, err := u.tokenRepo.GetAll()
	if err != nil {
		logger.Errorf("broadcast aborted, token fetch failed: %v", err)
		return nil, err
	}

	var recipients []authdomain.PushToken
	for _, t := range tokens {
		if t.UserID == sender.ID || t.Token == "" {
			continue
		}
		recipients = append(recipients, t)
	}

	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	sentAt := time.Now()
	data := map[string]string{
		"type":         "message",
		"senderId":     sender.ID,
		"senderName":   sender.Username,
		"timestamp":    sentAt.Format(time.RFC3339),
		"messageTitle": title,
		"messageBody":  body,
	}

	results := make([]RecipientResult, len(recipients))

	var wg sync.WaitGroup
	for i, rec := range recipients {
		wg.Add(1)
		go func(i int, rec authdomain.PushToken) {
			defer wg.Done()
			results[i] = u.deliver(ctx, rec, sender, title, body, sentAt, data)
		}(i, rec)
	}
	wg.Wait()

	result := &BroadcastResult{Recipients: results}
	for _, r := range results {
		if r.Delivered {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	logger.Infof("broadcast %q by %s: %d sent, %d failed", title, sender.Email, result.Sent, result.Failed)

	if result.Sent == 0 {
		return result, ErrAllFailed
	}
	return result, nil
}

// deliver handles one recipient: push first, then record the delivery. The
// counter increment and inbox append happen only after the relay reported
// success, so a failed send leaves the recipient's state untouched.
func (u *notificationUsecase) deliver(ctx context.Context, rec authdomain.PushToken, sender *authdomain.User, title, body string, sentAt time.Time, data map[string]string) RecipientResult {
	msg := push.Message{
		Title: title,
		Body:  body,
		Data:  data,
		Badge: 1,
	}

	if err := u.sender.Send(ctx, rec.Token, msg); err != nil {
		logger.Errorf("push to user %s failed: %v", rec.UserID, err)
		return RecipientResult{UserID: rec.UserID}
	}

	// A counter failure is swallowed: the push already went out and a stale
	// badge is tolerable.
	if err := u.counterRepo.Increment(rec.UserID, 1); err != nil {
		logger.Errorf("unread increment for user %s failed: %v", rec.UserID, err)
	}

	record := &domain.Notification{
		UserID:       rec.UserID,
		Title:        title,
		Body:         body,
		SenderName:   sender.Username,
		MessageTitle: title,
		Read:         false,
	}
	if err := u.inboxRepo.Append(record); err != nil {
		logger.Errorf("inbox append for user %s failed: %v", rec.UserID, err)
		return RecipientResult{UserID: rec.UserID}
	}

	u.publishInboxUpdate(rec.UserID, record)
	return RecipientResult{UserID: rec.UserID, Delivered: true}
}

func (u *notificationUsecase) publishInboxUpdate(userID string, record *domain.Notification) {
	if u.events == nil {
		return
	}
	count := 0
	if counter, err := u.counterRepo.Get(userID); err == nil && counter != nil {
		count = counter.UnreadCount
	}
	u.events.SendToUser(userID, "inbox_update", map[string]interface{}{
		"unread_count": count,
		"notification": record,
	})
}

func (u *notificationUsecase) List(userID string) ([]domain.Notification, error) {
	return u.inboxRepo.ListByUserID(userID)
}

func (u *notificationUsecase) Unread(userID string) (*domain.UnreadCounter, error) {
	counter, err := u.counterRepo.Get(userID)
	if err != nil {
		return nil, err
	}
	if counter == nil {
		if err := u.counterRepo.Ensure(userID); err != nil {
			return nil, err
		}
		return u.counterRepo.Get(userID)
	}
	return counter, nil
}

func (u *notificationUsecase) MarkViewed(userID string) error {
	if err := u.counterRepo.Reset(userID); err != nil {
		return err
	}
	if u.events != nil {
		u.events.SendToUser(userID, "unread_reset", map[string]interface{}{
			"unread_count": 0,
		})
	}
	return nil
}

func (u *notificationUsecase) EnsureCounter(userID string) {
	if err := u.counterRepo.Ensure(userID); err != nil {
		logger.Errorf("failed to initialize unread counter for user %s: %v", userID, err)
	}
}
