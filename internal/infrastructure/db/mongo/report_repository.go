package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fixmycity/report-system/internal/core/domain"
	"github.com/fixmycity/report-system/internal/core/ports"
)

const reportsCollection = "reports"

type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(reportsCollection)}
}

type mongoReport struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Title       string              `bson:"title"`
	Description string              `bson:"description"`
	Category    string              `bson:"type"`
	ImagePath   string              `bson:"image,omitempty"`
	Latitude    float64             `bson:"latitude"`
	Longitude   float64             `bson:"longitude"`
	Status      domain.ReportStatus `bson:"status"`
	UserID      primitive.ObjectID  `bson:"user_id"`
	Reporter    *domain.Reporter    `bson:"reporter,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
}

func (mr *mongoReport) toDomain() *domain.Report {
	return &domain.Report{
		ID:          mr.ID.Hex(),
		Title:       mr.Title,
		Description: mr.Description,
		Category:    mr.Category,
		ImagePath:   mr.ImagePath,
		Latitude:    mr.Latitude,
		Longitude:   mr.Longitude,
		Status:      mr.Status,
		UserID:      mr.UserID.Hex(),
		Reporter:    mr.Reporter,
		CreatedAt:   mr.CreatedAt,
		UpdatedAt:   mr.UpdatedAt,
	}
}

// Create inserts a new report document.
func (r *ReportRepository) Create(ctx context.Context, report *domain.Report) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ownerID, err := primitive.ObjectIDFromHex(report.UserID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	doc := mongoReport{
		Title:       report.Title,
		Description: report.Description,
		Category:    report.Category,
		ImagePath:   report.ImagePath,
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		Status:      report.Status,
		UserID:      ownerID,
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}

	created := *report
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// FindByID retrieves a report by its ObjectID hex. When withReporter is
// true, the owning user's name/email is attached via a $lookup join.
func (r *ReportRepository) FindByID(ctx context.Context, id string, withReporter bool) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	if !withReporter {
		var mr mongoReport
		if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrReportNotFound
			}
			return nil, fmt.Errorf("find report: %w", err)
		}
		return mr.toDomain(), nil
	}

	reports, err := r.aggregate(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return reports[0], nil
}

// List returns all reports matching filter. Owner scoping (UserID) and the
// equality filters compose; no pagination is applied.
func (r *ReportRepository) List(ctx context.Context, filter ports.ListReportsFilter) ([]*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if filter.Status != "" {
		match["status"] = filter.Status
	}
	if filter.Category != "" {
		match["type"] = filter.Category
	}
	if filter.UserID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.UserID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		match["user_id"] = oid
	}

	if filter.WithReporter {
		return r.aggregate(ctx, match)
	}

	cursor, err := r.col.Find(ctx, match, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeReports(ctx, cursor)
}

// UpdateStatus overwrites the status field and returns the updated document.
// Deliberately no transition check: any status may replace any other.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) (*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mr mongoReport
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("update report status: %w", err)
	}
	return mr.toDomain(), nil
}

// aggregate runs the reporter-embedding pipeline: match, join users on
// user_id, project the owner down to name/email.
func (r *ReportRepository) aggregate(ctx context.Context, match bson.M) ([]*domain.Report, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "reporter",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$reporter",
			"preserveNullAndEmptyArrays": true,
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"reporter": bson.M{
				"name":  "$reporter.name",
				"email": "$reporter.email",
			},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate reports: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeReports(ctx, cursor)
}

func decodeReports(ctx context.Context, cursor *mongo.Cursor) ([]*domain.Report, error) {
	reports := make([]*domain.Report, 0)
	for cursor.Next(ctx) {
		var mr mongoReport
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		reports = append(reports, mr.toDomain())
	}
	return reports, cursor.Err()
}

// EnsureIndexes creates the indexes backing owner-scoped and filtered listings.
func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
