package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swipehq/interview-assistant/internal/models"
	"github.com/swipehq/interview-assistant/internal/utils"
)

// There is exactly one live session; it is stored as a single document so the
// whole aggregate (chat, questions, transcript, countdown) restores on boot.
const liveSessionID = "live"

type SessionStore interface {
	Save(ctx context.Context, s *models.InterviewSession) error
	Load(ctx context.Context) (*models.InterviewSession, error)
	Delete(ctx context.Context) error
}

type sessionStore struct {
	col *mongo.Collection
}

func NewSessionStore(db *mongo.Database) SessionStore {
	return &sessionStore{col: db.Collection("interview_sessions")}
}

type sessionDoc struct {
	ID      string                  `bson:"_id"`
	Session models.InterviewSession `bson:"session"`
	SavedAt time.Time               `bson:"saved_at"`
}

func (r *sessionStore) Save(ctx context.Context, s *models.InterviewSession) error {
	doc := sessionDoc{ID: liveSessionID, Session: *s, SavedAt: time.Now().UTC()}
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"_id": liveSessionID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *sessionStore) Load(ctx context.Context) (*models.InterviewSession, error) {
	var doc sessionDoc
	err := r.col.FindOne(ctx, bson.M{"_id": liveSessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc.Session, nil
}

func (r *sessionStore) Delete(ctx context.Context) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": liveSessionID})
	return err
}
