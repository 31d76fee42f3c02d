package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"focusos/internal/model"
	"focusos/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	plansCollection      = "saved_plans"
	summariesCollection  = "saved_summaries"
	sessionsCollection   = "saved_learning_sessions"
	checklistCollection  = "task_checklist_items"
	activitiesCollection = "calendar_activities"
)

// Connect opens a client whose embedded documents decode into maps, so free-form
// learning session payloads round-trip to JSON unchanged.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

type MongoSavedStore struct {
	db *mongo.Database
}

func NewMongoSavedStore(db *mongo.Database) *MongoSavedStore {
	return &MongoSavedStore{db: db}
}

// EnsureIndexes creates the unique checklist task id index and the lookup indexes.
func (s *MongoSavedStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(checklistCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "taskId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create checklist indexes: %w", err)
	}
	_, err = s.db.Collection(activitiesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "expiresAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create calendar activity index: %w", err)
	}
	return nil
}

func (s *MongoSavedStore) SavePlan(ctx context.Context, plan *model.SavedPlan) error {
	_, err := s.db.Collection(plansCollection).InsertOne(ctx, plan)
	return err
}

func (s *MongoSavedStore) ListPlans(ctx context.Context, userID string) ([]*model.SavedPlan, error) {
	var plans []*model.SavedPlan
	err := s.findSorted(ctx, plansCollection, bson.M{"userId": userID}, "createdAt", &plans)
	return plans, err
}

func (s *MongoSavedStore) SaveSummary(ctx context.Context, summary *model.SavedSummary) error {
	_, err := s.db.Collection(summariesCollection).InsertOne(ctx, summary)
	return err
}

func (s *MongoSavedStore) SaveLearningSession(ctx context.Context, session *model.SavedLearningSession) error {
	_, err := s.db.Collection(sessionsCollection).InsertOne(ctx, session)
	return err
}

func (s *MongoSavedStore) ListLearningSessions(ctx context.Context, userID string) ([]*model.SavedLearningSession, error) {
	var sessions []*model.SavedLearningSession
	err := s.findSorted(ctx, sessionsCollection, bson.M{"userId": userID}, "savedAt", &sessions)
	return sessions, err
}

func (s *MongoSavedStore) ListChecklist(ctx context.Context, userID string) ([]*model.ChecklistItem, error) {
	var items []*model.ChecklistItem
	err := s.findSorted(ctx, checklistCollection, bson.M{"userId": userID}, "createdAt", &items)
	return items, err
}

func (s *MongoSavedStore) AddChecklistItem(ctx context.Context, item *model.ChecklistItem) error {
	_, err := s.db.Collection(checklistCollection).InsertOne(ctx, item)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (s *MongoSavedStore) ClearChecklist(ctx context.Context, userID string) error {
	_, err := s.db.Collection(checklistCollection).DeleteMany(ctx, bson.M{"userId": userID})
	return err
}

func (s *MongoSavedStore) FindChecklistItem(ctx context.Context, userID, id string) (*model.ChecklistItem, error) {
	filter := bson.M{
		"userId": userID,
		"$or":    bson.A{bson.M{"_id": id}, bson.M{"taskId": id}},
	}
	item := &model.ChecklistItem{}
	err := s.db.Collection(checklistCollection).FindOne(ctx, filter).Decode(item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MongoSavedStore) UpdateChecklistItem(ctx context.Context, item *model.ChecklistItem) error {
	res, err := s.db.Collection(checklistCollection).ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *MongoSavedStore) AddCalendarActivity(ctx context.Context, activity *model.CalendarActivity) error {
	_, err := s.db.Collection(activitiesCollection).InsertOne(ctx, activity)
	return err
}

func (s *MongoSavedStore) ListActiveCalendarActivities(ctx context.Context, userID string, now time.Time) ([]*model.CalendarActivity, error) {
	var activities []*model.CalendarActivity
	filter := bson.M{"userId": userID, "expiresAt": bson.M{"$gt": now}}
	err := s.findSorted(ctx, activitiesCollection, filter, "addedAt", &activities)
	return activities, err
}

// findSorted decodes every match into out, newest first by sortField.
func (s *MongoSavedStore) findSorted(ctx context.Context, collection string, filter bson.M, sortField string, out interface{}) error {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}
