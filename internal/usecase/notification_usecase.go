package usecase

import (
	"context"
	"fmt"

	"hospital-management-api/internal/converter"
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/repository"
	"hospital-management-api/pkg/apperror"

	"github.com/sirupsen/logrus"
)

var ErrNotificationNotFound = apperror.NotFound("notification not found")

type NotificationUsecase interface {
	ListMine(ctx context.Context) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, notificationID int64) error
}

type notificationUsecase struct {
	transactor       repository.Transactor
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(
	transactor repository.Transactor,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
) NotificationUsecase {
	return &notificationUsecase{
		transactor:       transactor,
		log:              log,
		notificationRepo: notificationRepo,
	}
}

// ListMine returns the caller's notifications, newest first
func (u *notificationUsecase) ListMine(ctx context.Context) (*dto.NotificationListResponse, error) {
	c, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	notifications, err := u.notificationRepo.FindByUserID(u.transactor.DB(ctx), c.userID)
	if err != nil {
		u.log.Warnf("Failed to list notifications of user %s: %+v", c.userID, err)
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return converter.NotificationsToResponses(notifications), nil
}

// MarkRead only touches notifications addressed to the caller
func (u *notificationUsecase) MarkRead(ctx context.Context, notificationID int64) error {
	c, err := callerFromContext(ctx)
	if err != nil {
		return err
	}

	rows, err := u.notificationRepo.MarkRead(u.transactor.DB(ctx), notificationID, c.userID)
	if err != nil {
		u.log.Warnf("Failed to mark notification %d read: %+v", notificationID, err)
		return fmt.Errorf("mark notification read: %w", err)
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
