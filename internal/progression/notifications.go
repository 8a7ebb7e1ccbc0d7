package progression

import (
	"fmt"

	"github.com/yamiko-app/yamiko/internal/domain"
)

func (s *service) newNotification(userID string, typ domain.NotificationType, title, message string, data map[string]interface{}) *domain.Notification {
	return &domain.Notification{
		ID:        s.newID(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: s.now(),
	}
}

func (s *service) levelUpNotification(userID string, level int) *domain.Notification {
	return s.newNotification(userID, domain.NotificationLevelUp,
		NotificationTitleLevelUp,
		fmt.Sprintf(NotificationMsgLevelUpFormat, level, LevelUpEnergyReward),
		map[string]interface{}{
			"level":         level,
			"energy_reward": LevelUpEnergyReward,
		})
}

func (s *service) expGrantedNotification(userID string, amount int64, reason string) *domain.Notification {
	return s.newNotification(userID, domain.NotificationExpGranted,
		NotificationTitleExpGranted,
		fmt.Sprintf(NotificationMsgExpGrantedFormat, amount, reason),
		map[string]interface{}{
			"amount": amount,
			"reason": reason,
		})
}

func (s *service) rubiesGrantedNotification(userID string, amount int64, reason string) *domain.Notification {
	return s.newNotification(userID, domain.NotificationRubiesGranted,
		NotificationTitleRubiesGranted,
		fmt.Sprintf(NotificationMsgRubiesGrantedFormat, amount, reason),
		map[string]interface{}{
			"amount": amount,
			"reason": reason,
		})
}
