package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/addisbites/ordering-system/internal/core/domain"
)

const staffCollection = "staff"

type StaffRepository struct {
	coll *mongo.Collection
}

func NewStaffRepository(db *mongo.Database) *StaffRepository {
	return &StaffRepository{coll: db.Collection(staffCollection)}
}

type mongoStaff struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	TelegramID   int64              `bson:"telegram_id,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

// EnsureIndexes creates the unique username index duplicate detection
// relies on.
func (r *StaffRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *StaffRepository) Create(ctx context.Context, staff *domain.Staff) (*domain.Staff, error) {
	doc := mongoStaff{
		Username:     staff.Username,
		PasswordHash: staff.PasswordHash,
		Role:         staff.Role,
		TelegramID:   staff.TelegramID,
		CreatedAt:    staff.CreatedAt.Unix(),
		UpdatedAt:    staff.UpdatedAt.Unix(),
	}

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrStaffExists
		}
		return nil, fmt.Errorf("insert staff: %w", err)
	}

	// fetch back to get ID
	created, err := r.FindByUsername(ctx, staff.Username)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *StaffRepository) FindByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	var ms mongoStaff
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrStaffNotFound
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *StaffRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*domain.Staff, error) {
	var ms mongoStaff
	if err := r.coll.FindOne(ctx, bson.M{"telegram_id": telegramID}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrStaffNotFound
		}
		return nil, fmt.Errorf("find staff by telegram id: %w", err)
	}
	return ms.toDomain(), nil
}

func (ms *mongoStaff) toDomain() *domain.Staff {
	return &domain.Staff{
		ID:           ms.ID.Hex(),
		Username:     ms.Username,
		PasswordHash: ms.PasswordHash,
		Role:         ms.Role,
		TelegramID:   ms.TelegramID,
		CreatedAt:    unixToTime(ms.CreatedAt),
		UpdatedAt:    unixToTime(ms.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
