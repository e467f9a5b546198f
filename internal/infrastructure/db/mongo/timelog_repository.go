package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/billable/timesheet-api/internal/core/domain"
	"github.com/billable/timesheet-api/internal/core/ports"
)

const collectionTimeLogs = "timelogs"

// TimeLogRepository implements ports.TimeLogRepository using MongoDB.
type TimeLogRepository struct {
	col *mongo.Collection
}

var _ ports.TimeLogRepository = (*TimeLogRepository)(nil)

func NewTimeLogRepository(db *mongo.Database) *TimeLogRepository {
	return &TimeLogRepository{col: db.Collection(collectionTimeLogs)}
}

type mongoTimeLog struct {
	ID        string    `bson:"_id"`
	ProjectID string    `bson:"project_id"`
	UserID    string    `bson:"user_id"`
	Hours     string    `bson:"hours"`
	Notes     string    `bson:"notes"`
	LogDate   time.Time `bson:"log_date"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toMongoTimeLog(l *domain.TimeLog) mongoTimeLog {
	return mongoTimeLog{
		ID:        l.ID,
		ProjectID: l.ProjectID,
		UserID:    l.UserID,
		Hours:     l.Hours.String(),
		Notes:     l.Notes,
		LogDate:   l.LogDate.UTC(),
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
	}
}

func (m mongoTimeLog) toDomain() (*domain.TimeLog, error) {
	hours, err := decimal.NewFromString(m.Hours)
	if err != nil {
		return nil, fmt.Errorf("time log %s: decode hours %q: %w", m.ID, m.Hours, err)
	}
	return &domain.TimeLog{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Hours:     hours,
		Notes:     m.Notes,
		LogDate:   m.LogDate.UTC(),
		Status:    domain.TimeLogStatus(m.Status),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}, nil
}

func (r *TimeLogRepository) FindTimeLogByID(ctx context.Context, id string) (*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoTimeLog
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTimeLogNotFound
		}
		return nil, fmt.Errorf("find time log: %w", err)
	}
	return ml.toDomain()
}

// ListTimeLogs returns matching logs ordered by (log_date, created_at, _id).
func (r *TimeLogRepository) ListTimeLogs(ctx context.Context, filter ports.TimeLogFilter) ([]*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, timeLogQuery(filter), options.Find().SetSort(bson.D{
		{Key: "log_date", Value: 1},
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, fmt.Errorf("find time logs: %w", err)
	}
	var docs []mongoTimeLog
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode time logs: %w", err)
	}

	out := make([]*domain.TimeLog, 0, len(docs))
	for _, d := range docs {
		l, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// timeLogQuery translates a filter into a BSON query. A date filter matches
// the whole UTC day.
func timeLogQuery(filter ports.TimeLogFilter) bson.M {
	query := bson.M{}
	if filter.ProjectID != "" {
		query["project_id"] = filter.ProjectID
	}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Date != nil {
		start := domain.TruncateDay(*filter.Date)
		query["log_date"] = bson.M{"$gte": start, "$lt": start.AddDate(0, 0, 1)}
	}
	return query
}

func (r *TimeLogRepository) InsertTimeLog(ctx context.Context, l *domain.TimeLog) (*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoTimeLog(l)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert time log: %w", err)
	}
	return doc.toDomain()
}

// UpdateTimeLog applies the patch with a single $set and returns the new document.
func (r *TimeLogRepository) UpdateTimeLog(ctx context.Context, id string, patch domain.TimeLogPatch, updatedAt time.Time) (*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": updatedAt.UTC()}
	if patch.Hours != nil {
		set["hours"] = patch.Hours.String()
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}

	var ml mongoTimeLog
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&ml)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTimeLogNotFound
		}
		return nil, fmt.Errorf("update time log: %w", err)
	}
	return ml.toDomain()
}

func (r *TimeLogRepository) DeleteTimeLog(ctx context.Context, id string) (*domain.TimeLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoTimeLog
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTimeLogNotFound
		}
		return nil, fmt.Errorf("delete time log: %w", err)
	}
	return ml.toDomain()
}

// EnsureIndexes creates the indexes used by the billing and daily-cap scans.
func (r *TimeLogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "log_date", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "log_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
