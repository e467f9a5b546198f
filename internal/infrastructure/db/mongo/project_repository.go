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

const collectionProjects = "projects"

// ProjectRepository implements ports.ProjectRepository using MongoDB.
type ProjectRepository struct {
	col *mongo.Collection
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

// mongoProject stores the billing rate as a decimal string so no precision
// is lost in BSON.
type mongoProject struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	BillingRate string    `bson:"billing_rate"`
	Status      string    `bson:"status"`
	CreatedBy   string    `bson:"created_by"`
	CreatedAt   time.Time `bson:"created_at"`
}

func toMongoProject(p *domain.Project) mongoProject {
	return mongoProject{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BillingRate: p.BillingRate.String(),
		Status:      string(p.Status),
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt.UTC(),
	}
}

func (m mongoProject) toDomain() (*domain.Project, error) {
	rate, err := decimal.NewFromString(m.BillingRate)
	if err != nil {
		return nil, fmt.Errorf("project %s: decode billing_rate %q: %w", m.ID, m.BillingRate, err)
	}
	return &domain.Project{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		BillingRate: rate,
		Status:      domain.ProjectStatus(m.Status),
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt.UTC(),
	}, nil
}

func (r *ProjectRepository) FindProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProject
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return mp.toDomain()
}

// ListProjects returns a page of projects, newest first.
func (r *ProjectRepository) ListProjects(ctx context.Context, filter ports.ProjectFilter) ([]*domain.Project, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query["status"] = bson.M{"$in": statuses}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(filter.Skip))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find projects: %w", err)
	}
	var docs []mongoProject
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode projects: %w", err)
	}

	out := make([]*domain.Project, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, nil
}

func (r *ProjectRepository) InsertProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoProject(p)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return doc.toDomain()
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoProject(p)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, doc)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return doc.toDomain()
}

// EnsureIndexes creates the listing indexes on the projects collection.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
