package service

import (
	"fmt"

	"hospital-management-api/internal/domain/entity"
	"hospital-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationService writes in-app notifications on the caller's
// transaction, so a notification exists iff the event that caused it committed.
type NotificationService interface {
	Notify(tx *gorm.DB, userID uuid.UUID, title, message string) error
	NotifyRole(tx *gorm.DB, roleID int, title, message string) error
}

type notificationService struct {
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotificationService(
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) NotificationService {
	return &notificationService{
		log:              log,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// Notify sends a notification to a single user
func (s *notificationService) Notify(tx *gorm.DB, userID uuid.UUID, title, message string) error {
	notification := &entity.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}

	if err := s.notificationRepo.Create(tx, notification); err != nil {
		s.log.Warnf("Failed to create notification for user %s: %+v", userID, err)
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// NotifyRole sends the same notification to every active user of a role
func (s *notificationService) NotifyRole(tx *gorm.DB, roleID int, title, message string) error {
	userIDs, err := s.userRepo.FindActiveIDsByRole(tx, roleID)
	if err != nil {
		s.log.Warnf("Failed to find users of role %d: %+v", roleID, err)
		return fmt.Errorf("find users by role: %w", err)
	}

	for _, userID := range userIDs {
		if err := s.Notify(tx, userID, title, message); err != nil {
			return err
		}
	}

	return nil
}
