package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
)

const notificationsCollection = "notifications"

// NotificationRepository stores notifications as documents, one per provider message.
type NotificationRepository struct {
	coll *mongo.Collection
}

type notificationDoc struct {
	ID        string    `bson:"_id"`
	Content   string    `bson:"content"`
	User      int64     `bson:"user"`
	Read      bool      `bson:"read"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewNotificationRepository(ctx context.Context, db *mongo.Database) (*NotificationRepository, error) {
	coll := db.Collection(notificationsCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created_at"),
	})
	if err != nil {
		return nil, err
	}
	return &NotificationRepository{coll: coll}, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	now := time.Now().UTC()
	doc := notificationDoc{
		ID:        n.ID.String(),
		Content:   n.Content,
		User:      n.UserID,
		Read:      n.Read,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	n.CreatedAt = now
	return nil
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
