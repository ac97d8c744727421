package adapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/naufallariff/credia-system/pkg/kafka"
)

// notificationMessage is the wire shape consumed by the notification
// service. Exactly one of Role or UserID is set.
type notificationMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// KafkaNotifier implements port.NotificationDispatcher by publishing to a
// notifications topic. Delivery is fire-and-forget: publish failures are
// logged and swallowed.
type KafkaNotifier struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaNotifier creates the dispatcher.
func NewKafkaNotifier(producer *kafka.Producer, topic string, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic, logger: logger}
}

// NotifyRole fans a notification out to every holder of a role.
func (n *KafkaNotifier) NotifyRole(ctx context.Context, role, severity, title, message string) {
	n.publish(ctx, notificationMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Severity:  severity,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
}

// NotifyUser targets a single user.
func (n *KafkaNotifier) NotifyUser(ctx context.Context, userID, severity, title, message string) {
	n.publish(ctx, notificationMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Severity:  severity,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, msg notificationMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("notification marshal failed", "title", msg.Title, "error", err)
		return
	}

	key := msg.UserID
	if key == "" {
		key = msg.Role
	}
	err = n.producer.Publish(ctx, n.topic, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		n.logger.Error("notification publish failed", "title", msg.Title, "error", err)
	}
}
