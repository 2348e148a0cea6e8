package coupon

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const couponsCollection = "coupons"

type couponDoc struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Code       string        `bson:"code"`
	DateFrom   *time.Time    `bson:"date_from,omitempty"`
	DateUntil  *time.Time    `bson:"date_until,omitempty"`
	PlanID     string        `bson:"plan_id,omitempty"`
	Duration   int           `bson:"duration"`
	Redemption *int          `bson:"redemption,omitempty"`
}

func (d couponDoc) toDomain() *Coupon {
	return &Coupon{
		ID:         d.ID.Hex(),
		Code:       d.Code,
		DateFrom:   d.DateFrom,
		DateUntil:  d.DateUntil,
		PlanID:     d.PlanID,
		Duration:   d.Duration,
		Redemption: d.Redemption,
	}
}

// MongoStore is a Store backed by a mongo collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a coupon store over the "coupons" collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		panic("coupon: mongo database is required")
	}
	return &MongoStore{coll: db.Collection(couponsCollection)}
}

func (s *MongoStore) FindByCode(ctx context.Context, code string) (*Coupon, error) {
	var doc couponDoc
	err := s.coll.FindOne(ctx, bson.M{"code": code}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (s *MongoStore) Save(ctx context.Context, c *Coupon) error {
	doc := couponDoc{
		Code:       c.Code,
		DateFrom:   c.DateFrom,
		DateUntil:  c.DateUntil,
		PlanID:     c.PlanID,
		Duration:   c.Duration,
		Redemption: c.Redemption,
	}

	if c.ID == "" {
		doc.ID = bson.NewObjectID()
		if _, err := s.coll.InsertOne(ctx, doc); err != nil {
			return err
		}
		c.ID = doc.ID.Hex()
		return nil
	}

	id, err := bson.ObjectIDFromHex(c.ID)
	if err != nil {
		return err
	}
	doc.ID = id

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	return err
}

// ListOptions controls coupon listing for administrative views.
type ListOptions struct {
	Criteria bson.M
	Page     int64
	Limit    int64
}

// List returns a page of coupons matching the criteria, most basic admin
// listing: zero Limit defaults to 30 per page.
func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]Coupon, error) {
	criteria := opts.Criteria
	if criteria == nil {
		criteria = bson.M{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 30
	}

	cursor, err := s.coll.Find(ctx, criteria,
		options.Find().SetLimit(limit).SetSkip(limit*opts.Page))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []couponDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	coupons := make([]Coupon, len(docs))
	for i, doc := range docs {
		coupons[i] = *doc.toDomain()
	}
	return coupons, nil
}
