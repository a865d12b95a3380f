package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
)

const commentExcerptLength = 80

// NotificationService translates social events into persisted notification
// records, one per recipient. A user acting on their own content never
// notifies themselves.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	adminUserID   uint
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications repositories.NotificationRepository, users repositories.UserRepository, adminUserID uint) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		adminUserID:   adminUserID,
	}
}

// NotifyLike records a like notification for the post owner
func (s *NotificationService) NotifyLike(postID string, postOwnerID, likerID uint) error {
	if likerID == postOwnerID {
		// No self-notification.
		return nil
	}

	liker, err := s.users.GetUserByID(likerID)
	if err != nil {
		return fmt.Errorf("notify like: loading actor %d: %w", likerID, err)
	}

	return s.notifications.CreateNotification(&models.Notification{
		Type:        models.NotificationTypeLike,
		ActorID:     likerID,
		RecipientID: postOwnerID,
		TargetID:    postID,
		TargetType:  "post",
		Title:       "New like",
		Message:     fmt.Sprintf("%s liked your post", liker.Name()),
	})
}

// NotifyComment records a comment notification for the post owner
func (s *NotificationService) NotifyComment(postID string, postOwnerID, commenterID uint, commentText string) error {
	if commenterID == postOwnerID {
		// No self-notification.
		return nil
	}

	commenter, err := s.users.GetUserByID(commenterID)
	if err != nil {
		return fmt.Errorf("notify comment: loading actor %d: %w", commenterID, err)
	}

	return s.notifications.CreateNotification(&models.Notification{
		Type:        models.NotificationTypeComment,
		ActorID:     commenterID,
		RecipientID: postOwnerID,
		TargetID:    postID,
		TargetType:  "post",
		Title:       "New comment",
		Message:     fmt.Sprintf("%s commented: %s", commenter.Name(), excerpt(commentText, commentExcerptLength)),
	})
}

// NotifyReport records a post report as a notification to the admin user
func (s *NotificationService) NotifyReport(postID string, reporterID uint, reason, postContent string, postOwnerID uint) error {
	reporter, err := s.users.GetUserByID(reporterID)
	if err != nil {
		return fmt.Errorf("notify report: loading reporter %d: %w", reporterID, err)
	}

	data, _ := json.Marshal(map[string]interface{}{
		"postId":       postID,
		"postContent":  postContent,
		"postOwnerId":  postOwnerID,
		"reportedBy":   reporterID,
		"reportReason": reason,
	})

	return s.notifications.CreateNotification(&models.Notification{
		Type:        models.NotificationTypePostReport,
		ActorID:     reporterID,
		RecipientID: s.adminUserID,
		TargetID:    postID,
		TargetType:  "post",
		Title:       "Post Reported",
		Message:     fmt.Sprintf("User %s reported a post: %s", reporter.Name(), reason),
		Data:        string(data),
	})
}

// NotifyViolation records a content violation notice for the offending user
func (s *NotificationService) NotifyViolation(userID uint, reason, adminMessage, originalContent string) error {
	data, _ := json.Marshal(map[string]string{
		"violationReason": reason,
		"adminMessage":    adminMessage,
		"originalContent": originalContent,
	})

	return s.notifications.CreateNotification(&models.Notification{
		Type:        models.NotificationTypeViolation,
		ActorID:     s.adminUserID,
		RecipientID: userID,
		TargetType:  "user",
		Title:       "Content Violation Notice",
		Message:     adminMessage,
		Data:        string(data),
	})
}

// NotifyUser sends an admin notification to a single user
func (s *NotificationService) NotifyUser(userID uint, title, message, priority string) error {
	if _, err := s.users.GetUserByID(userID); err != nil {
		return fmt.Errorf("notify user: %w: user %d", ErrNotFound, userID)
	}

	data, _ := json.Marshal(map[string]interface{}{
		"priority": priorityOrDefault(priority),
		"senderId": s.adminUserID,
	})

	return s.notifications.CreateNotification(&models.Notification{
		Type:        models.NotificationTypeAdminMessage,
		ActorID:     s.adminUserID,
		RecipientID: userID,
		TargetType:  "user",
		Title:       title,
		Message:     message,
		Data:        string(data),
	})
}

// Broadcast fans one notification out to every known user, one independent
// create per recipient. Partial failure degrades to a success count rather
// than failing the whole broadcast.
func (s *NotificationService) Broadcast(title, message, priority string) (int, error) {
	users, err := s.users.GetUsers()
	if err != nil {
		return 0, fmt.Errorf("broadcast: listing users: %w", err)
	}

	data, _ := json.Marshal(map[string]interface{}{
		"priority": priorityOrDefault(priority),
		"senderId": s.adminUserID,
	})

	sent := 0
	var lastErr error
	for _, user := range users {
		err := s.notifications.CreateNotification(&models.Notification{
			Type:        models.NotificationTypeAnnouncement,
			ActorID:     s.adminUserID,
			RecipientID: user.ID,
			TargetType:  "user",
			Title:       title,
			Message:     message,
			Data:        string(data),
		})
		if err != nil {
			log.Printf("broadcast: failed to notify user %d: %v", user.ID, err)
			lastErr = err
			continue
		}
		sent++
	}
	return sent, lastErr
}

func priorityOrDefault(priority string) string {
	if priority == "" {
		return "medium"
	}
	return priority
}

func excerpt(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}
