package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection       = "users"
	productsCollection    = "products"
	enrollmentsCollection = "enrollments"
)

type userDoc struct {
	ID             string `bson:"_id"`
	Email          string `bson:"email"`
	Name           string `bson:"name"`
	LastName       string `bson:"last_name,omitempty"`
	Role           string `bson:"role"`
	PlanID         string `bson:"plan_id,omitempty"`
	CouponCode     string `bson:"coupon_code,omitempty"`
	StripeID       string `bson:"stripe_id,omitempty"`
	StripeSource   string `bson:"stripe_source,omitempty"`
	SubscriptionID string `bson:"subscription_id,omitempty"`
}

func (d userDoc) toDomain() (*User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:             id,
		Email:          d.Email,
		Name:           d.Name,
		LastName:       d.LastName,
		Role:           Role(d.Role),
		PlanID:         d.PlanID,
		CouponCode:     d.CouponCode,
		StripeID:       d.StripeID,
		StripeSource:   d.StripeSource,
		SubscriptionID: d.SubscriptionID,
	}, nil
}

// MongoUserStore is a UserStore backed by the "users" collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

// NewMongoUserStore creates a user store over db.
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	if db == nil {
		panic("billing: mongo database is required")
	}
	return &MongoUserStore{coll: db.Collection(usersCollection)}
}

func (s *MongoUserStore) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	var doc userDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (s *MongoUserStore) FindSubscribedByRole(ctx context.Context, role Role) ([]User, error) {
	criteria := bson.M{
		"role":            string(role),
		"subscription_id": bson.M{"$exists": true, "$ne": ""},
	}

	cursor, err := s.coll.Find(ctx, criteria)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(docs))
	for _, doc := range docs {
		u, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (s *MongoUserStore) Save(ctx context.Context, u *User) error {
	doc := userDoc{
		ID:             u.ID.String(),
		Email:          u.Email,
		Name:           u.Name,
		LastName:       u.LastName,
		Role:           string(u.Role),
		PlanID:         u.PlanID,
		CouponCode:     u.CouponCode,
		StripeID:       u.StripeID,
		StripeSource:   u.StripeSource,
		SubscriptionID: u.SubscriptionID,
	}

	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc,
		options.Replace().SetUpsert(true))
	return err
}

type productDoc struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	Name           string        `bson:"name"`
	ProviderPlanID string        `bson:"provider_plan_id"`
}

// MongoProductStore is a ProductStore backed by the "products" collection.
type MongoProductStore struct {
	coll *mongo.Collection
}

// NewMongoProductStore creates a product store over db.
func NewMongoProductStore(db *mongo.Database) *MongoProductStore {
	if db == nil {
		panic("billing: mongo database is required")
	}
	return &MongoProductStore{coll: db.Collection(productsCollection)}
}

func (s *MongoProductStore) Get(ctx context.Context, id string) (*Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var doc productDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &Product{
		ID:             doc.ID.Hex(),
		Name:           doc.Name,
		ProviderPlanID: doc.ProviderPlanID,
	}, nil
}

type enrollmentDoc struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	UserID     string        `bson:"user_id"`
	StartYear  int           `bson:"start_year"`
	StartMonth int           `bson:"start_month"`
}

// MongoEnrollmentStore is an EnrollmentStore backed by the "enrollments"
// collection.
type MongoEnrollmentStore struct {
	coll *mongo.Collection
}

// NewMongoEnrollmentStore creates an enrollment store over db.
func NewMongoEnrollmentStore(db *mongo.Database) *MongoEnrollmentStore {
	if db == nil {
		panic("billing: mongo database is required")
	}
	return &MongoEnrollmentStore{coll: db.Collection(enrollmentsCollection)}
}

func (s *MongoEnrollmentStore) FindByUser(ctx context.Context, userID uuid.UUID) ([]Enrollment, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []enrollmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	enrollments := make([]Enrollment, len(docs))
	for i, doc := range docs {
		uid, err := uuid.Parse(doc.UserID)
		if err != nil {
			return nil, err
		}
		enrollments[i] = Enrollment{
			UserID:     uid,
			StartYear:  doc.StartYear,
			StartMonth: doc.StartMonth,
		}
	}
	return enrollments, nil
}
