package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

type clientDoc struct {
	ID                    string     `bson:"_id"`
	UserID                *string    `bson:"user_id,omitempty"`
	Email                 string     `bson:"email"`
	FirstName             string     `bson:"first_name,omitempty"`
	LastName              string     `bson:"last_name,omitempty"`
	Phone                 string     `bson:"phone,omitempty"`
	Address               string     `bson:"address,omitempty"`
	City                  string     `bson:"city,omitempty"`
	State                 string     `bson:"state,omitempty"`
	ZipCode               string     `bson:"zip_code,omitempty"`
	DateOfBirth           *time.Time `bson:"date_of_birth,omitempty"`
	EmergencyContactName  string     `bson:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string     `bson:"emergency_contact_phone,omitempty"`
	Notes                 string     `bson:"notes,omitempty"`
	CreatedAt             time.Time  `bson:"created_at"`
	UpdatedAt             time.Time  `bson:"updated_at"`
}

func toClientDoc(p *domain.ClientProfile) clientDoc {
	return clientDoc{
		ID:                    p.ID,
		UserID:                p.UserID,
		Email:                 p.Email,
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		Phone:                 p.Phone,
		Address:               p.Address,
		City:                  p.City,
		State:                 p.State,
		ZipCode:               p.ZipCode,
		DateOfBirth:           p.DateOfBirth,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		Notes:                 p.Notes,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func (d clientDoc) toDomain() *domain.ClientProfile {
	p := &domain.ClientProfile{
		ID:                    d.ID,
		UserID:                d.UserID,
		Email:                 d.Email,
		FirstName:             d.FirstName,
		LastName:              d.LastName,
		Phone:                 d.Phone,
		Address:               d.Address,
		City:                  d.City,
		State:                 d.State,
		ZipCode:               d.ZipCode,
		EmergencyContactName:  d.EmergencyContactName,
		EmergencyContactPhone: d.EmergencyContactPhone,
		Notes:                 d.Notes,
		CreatedAt:             d.CreatedAt.UTC(),
		UpdatedAt:             d.UpdatedAt.UTC(),
	}
	if d.DateOfBirth != nil {
		dob := d.DateOfBirth.UTC()
		p.DateOfBirth = &dob
	}
	return p
}

func clientConflict(err error) error {
	if duplicateIndex(err, indexClientsUserID) {
		return domain.ErrDuplicateProfile
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateClientEmail
	}
	return nil
}

func (r *ClientRepository) Create(ctx context.Context, p *domain.ClientProfile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toClientDoc(p)); err != nil {
		if conflict := clientConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.ClientProfile, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *ClientRepository) FindByUserID(ctx context.Context, userID string) (*domain.ClientProfile, error) {
	return r.findOne(ctx, bson.M{"user_id": userID})
}

func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*domain.ClientProfile, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *ClientRepository) findOne(ctx context.Context, filter bson.M) (*domain.ClientProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc clientDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) Update(ctx context.Context, p *domain.ClientProfile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, toClientDoc(p))
	if err != nil {
		if conflict := clientConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("update client: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) List(ctx context.Context, f ports.ListClientsFilter) ([]*domain.ClientProfile, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := searchFilter(f.Search, "email", "first_name", "last_name")
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	cur, err := r.col.Find(ctx, filter, pageOptions(f.Page, f.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	var docs []clientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode clients: %w", err)
	}

	profiles := make([]*domain.ClientProfile, len(docs))
	for i, d := range docs {
		profiles[i] = d.toDomain()
	}
	return profiles, total, nil
}
