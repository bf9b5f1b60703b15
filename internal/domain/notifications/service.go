package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer) *Service {
	return &Service{store: store, Mailer: mailer, DefaultFrom: "no-reply@example.com"}
}

// NotifyRole stores an in-app notification for every active user holding the
// role and mails them when a mailer is configured. Mail failures are logged.
func (s *Service) NotifyRole(ctx context.Context, tenantID, role, ntype, title, body string) error {
	recipients, err := s.store.UsersByRole(ctx, tenantID, role)
	if err != nil {
		return err
	}
	for _, r := range recipients {
		if err := s.store.CreateNotification(ctx, tenantID, r.UserID, ntype, title, body); err != nil {
			return err
		}
		if s.Mailer == nil || r.Email == "" {
			continue
		}
		if err := s.Mailer.Send(ctx, s.DefaultFrom, r.Email, title, body); err != nil {
			slog.Warn("notification email send failed", "userId", r.UserID, "err", err)
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, tenantID, userID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, tenantID, userID, limit, offset)
}

func (s *Service) Count(ctx context.Context, tenantID, userID string) (int, error) {
	return s.store.CountNotifications(ctx, tenantID, userID)
}

func (s *Service) MarkRead(ctx context.Context, tenantID, userID, notificationID string) error {
	return s.store.MarkRead(ctx, tenantID, userID, notificationID)
}
