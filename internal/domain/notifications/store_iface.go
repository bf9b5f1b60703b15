package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, tenantID, userID, ntype, title, body string) error
	UsersByRole(ctx context.Context, tenantID, roleName string) ([]Recipient, error)
	ListNotifications(ctx context.Context, tenantID, userID string, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context, tenantID, userID string) (int, error)
	MarkRead(ctx context.Context, tenantID, userID, notificationID string) error
}
