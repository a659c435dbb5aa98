package converter

import (
	"hospital-management-api/internal/delivery/dto"
	"hospital-management-api/internal/domain/entity"
)

// NotificationsToResponses converts notifications and counts the unread ones
func NotificationsToResponses(notifications []entity.Notification) *dto.NotificationListResponse {
	response := &dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, len(notifications)),
		Total:         len(notifications),
	}

	for i, n := range notifications {
		response.Notifications[i] = dto.NotificationResponse{
			ID:        n.ID,
			UserID:    n.UserID,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if !n.IsRead {
			response.Unread++
		}
	}

	return response
}
