package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicore/clinic-api/internal/email"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/pkg/messaging"
)

// ErrChannelNotImplemented marks channels that are declared but have no
// delivery backend yet. The notification row is still persisted.
var ErrChannelNotImplemented = errors.New("notification channel not implemented")

// Sender delivers a notification over one channel
type Sender interface {
	Channel() string
	Send(ctx context.Context, user *model.User, n *model.Notification) error
}

// EmailSender delivers notifications over SMTP
type EmailSender struct {
	mailer email.Service
}

func NewEmailSender(mailer email.Service) *EmailSender {
	return &EmailSender{mailer: mailer}
}

func (s *EmailSender) Channel() string { return model.ChannelEmail }

func (s *EmailSender) Send(ctx context.Context, user *model.User, n *model.Notification) error {
	body := fmt.Sprintf("<p>%s</p>", n.Message)
	if n.ActionURL != nil {
		body += fmt.Sprintf(`<p><a href="%s">View details</a></p>`, *n.ActionURL)
	}
	return s.mailer.Send(ctx, user.Email, n.Title, body)
}

// InAppSender persists the notification and publishes it to the user's
// realtime channel so connected clients pick it up immediately.
type InAppSender struct {
	broker messaging.Broker
}

func NewInAppSender(broker messaging.Broker) *InAppSender {
	return &InAppSender{broker: broker}
}

func (s *InAppSender) Channel() string { return model.ChannelInApp }

func (s *InAppSender) Send(ctx context.Context, user *model.User, n *model.Notification) error {
	return s.broker.Publish(ctx, UserChannel(user.ID.String()), messaging.Message{
		Type:    "notification",
		Payload: n,
	})
}

// UserChannel names the pub/sub channel carrying a user's in-app events.
func UserChannel(userID string) string {
	return "notifications:user:" + userID
}

// NotImplementedSender records the channel as failed until a real backend
// exists. SMS and push ship this way.
type NotImplementedSender struct {
	channel string
}

func NewNotImplementedSender(channel string) *NotImplementedSender {
	return &NotImplementedSender{channel: channel}
}

func (s *NotImplementedSender) Channel() string { return s.channel }

func (s *NotImplementedSender) Send(ctx context.Context, user *model.User, n *model.Notification) error {
	return fmt.Errorf("%w: %s", ErrChannelNotImplemented, s.channel)
}
