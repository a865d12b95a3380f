package services

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
)

const testAdminID uint = 1

// fakeNotificationRepo records created notifications in memory.
type fakeNotificationRepo struct {
	mu             sync.Mutex
	created        []models.Notification
	failRecipients map[uint]bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{failRecipients: make(map[uint]bool)}
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRecipients[n.RecipientID] {
		return errors.New("insert failed")
	}
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.created {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	_, total, err := r.GetByRecipientID(recipientID, 1, 0)
	return total, err
}

func (r *fakeNotificationRepo) MarkAsRead(uint) error      { return nil }
func (r *fakeNotificationRepo) MarkAllAsRead(uint) error   { return nil }
func (r *fakeNotificationRepo) DeleteNotification(uint) error { return nil }

func (r *fakeNotificationRepo) all() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.created...)
}

func testNotificationService(notifications *fakeNotificationRepo, users *fakeUserRepo) *NotificationService {
	return NewNotificationService(notifications, users, testAdminID)
}

func TestNotifyLike(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 7, Username: "mai", DisplayName: "Mai"})
	svc := testNotificationService(notifications, users)

	require.NoError(t, svc.NotifyLike("abc123", 3, 7))

	created := notifications.all()
	require.Len(t, created, 1)
	n := created[0]
	assert.Equal(t, models.NotificationTypeLike, n.Type)
	assert.Equal(t, uint(7), n.ActorID)
	assert.Equal(t, uint(3), n.RecipientID)
	assert.Equal(t, "abc123", n.TargetID)
	assert.Equal(t, "post", n.TargetType)
	assert.Contains(t, n.Message, "Mai")
}

func TestNotifyLikeSuppressesSelf(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 7, Username: "mai"})
	svc := testNotificationService(notifications, users)

	require.NoError(t, svc.NotifyLike("abc123", 7, 7))
	assert.Empty(t, notifications.all(), "liking your own post must not notify")
}

func TestNotifyCommentExcerptsLongText(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 4, Username: "linh"})
	svc := testNotificationService(notifications, users)

	long := strings.Repeat("rất dài ", 40)
	require.NoError(t, svc.NotifyComment("p1", 2, 4, long))

	created := notifications.all()
	require.Len(t, created, 1)
	assert.Equal(t, models.NotificationTypeComment, created[0].Type)
	assert.True(t, strings.HasSuffix(created[0].Message, "…"))
	assert.Less(t, len([]rune(created[0].Message)), len([]rune(long)))
}

func TestNotifyCommentSuppressesSelf(t *testing.T) {
	notifications := newFakeNotificationRepo()
	svc := testNotificationService(notifications, newFakeUserRepo())

	require.NoError(t, svc.NotifyComment("p1", 4, 4, "talking to myself"))
	assert.Empty(t, notifications.all())
}

func TestNotifyReportTargetsAdmin(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 9, Username: "bao"})
	svc := testNotificationService(notifications, users)

	require.NoError(t, svc.NotifyReport("p9", 9, "spam", "buy now!!!", 5))

	created := notifications.all()
	require.Len(t, created, 1)
	n := created[0]
	assert.Equal(t, models.NotificationTypePostReport, n.Type)
	assert.Equal(t, testAdminID, n.RecipientID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(n.Data), &payload))
	assert.Equal(t, "spam", payload["reportReason"])
	assert.Equal(t, "buy now!!!", payload["postContent"])
}

func TestNotifyViolation(t *testing.T) {
	notifications := newFakeNotificationRepo()
	svc := testNotificationService(notifications, newFakeUserRepo())

	require.NoError(t, svc.NotifyViolation(6, "harassment", "Your post was removed.", "original text"))

	created := notifications.all()
	require.Len(t, created, 1)
	n := created[0]
	assert.Equal(t, models.NotificationTypeViolation, n.Type)
	assert.Equal(t, uint(6), n.RecipientID)
	assert.Equal(t, testAdminID, n.ActorID)
	assert.Equal(t, "Your post was removed.", n.Message)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(n.Data), &payload))
	assert.Equal(t, "harassment", payload["violationReason"])
	assert.Equal(t, "original text", payload["originalContent"])
}

func TestNotifyUserUnknownRecipient(t *testing.T) {
	svc := testNotificationService(newFakeNotificationRepo(), newFakeUserRepo())

	err := svc.NotifyUser(42, "Hello", "message", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotifyUserDefaultsPriority(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(&models.User{ID: 2, Username: "an"})
	svc := testNotificationService(notifications, users)

	require.NoError(t, svc.NotifyUser(2, "Hello", "message", ""))

	created := notifications.all()
	require.Len(t, created, 1)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(created[0].Data), &payload))
	assert.Equal(t, "medium", payload["priority"])
}

func TestBroadcastFansOutToAllUsers(t *testing.T) {
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo(
		&models.User{ID: 1, Username: "a"},
		&models.User{ID: 2, Username: "b"},
		&models.User{ID: 3, Username: "c"},
	)
	svc := testNotificationService(notifications, users)

	sent, err := svc.Broadcast("Maintenance", "Back at noon", "high")
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	recipients := make(map[uint]bool)
	for _, n := range notifications.all() {
		assert.Equal(t, models.NotificationTypeAnnouncement, n.Type)
		recipients[n.RecipientID] = true
	}
	assert.Len(t, recipients, 3, "each user gets exactly one notification")
}

func TestBroadcastPartialFailure(t *testing.T) {
	notifications := newFakeNotificationRepo()
	notifications.failRecipients[2] = true
	users := newFakeUserRepo(
		&models.User{ID: 1, Username: "a"},
		&models.User{ID: 2, Username: "b"},
		&models.User{ID: 3, Username: "c"},
	)
	svc := testNotificationService(notifications, users)

	sent, err := svc.Broadcast("Maintenance", "Back at noon", "")
	assert.Error(t, err)
	assert.Equal(t, 2, sent, "failures must not stop the remaining sends")
	assert.Len(t, notifications.all(), 2)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "exactlyten", excerpt("exactlyten", 10))
	assert.Equal(t, "chào các b…", excerpt("chào các bạn nhé", 10))
}
