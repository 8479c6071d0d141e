// Package catalog implements the generic owner-scoped query engine backing
// every record resource: paginated listing with search and relation joins,
// dropdown selection, and CRUD with shallow partial updates.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stylevault/stylevault/pkg/observability/logger"
	"github.com/stylevault/stylevault/pkg/observability/metrics"
)

// DropdownLimit caps the number of records a dropdown query returns.
const DropdownLimit = 25

// DefaultPageSize is the page size used when the caller does not ask for one.
const DefaultPageSize = 10

// Executor is the store surface the service runs against.
// *mongodb.Adapter satisfies it; tests substitute fakes.
type Executor interface {
	InsertOne(ctx context.Context, collection string, doc interface{}) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, collection string, filter interface{}, result interface{}) error
	Find(ctx context.Context, collection string, filter interface{}, opts *options.FindOptions, results interface{}) error
	Aggregate(ctx context.Context, collection string, pipeline interface{}, results interface{}) error
	UpdateOne(ctx context.Context, collection string, filter, update interface{}) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, collection string, filter interface{}) (*mongo.DeleteResult, error)
}

// PageRequest carries pagination and search parameters for listings.
type PageRequest struct {
	Page   int64
	Limit  int64
	Search string
}

// Normalize coerces page and limit to sane values (page >= 1, limit >= 1,
// defaulting to page 1 of DefaultPageSize) and returns skip and limit.
func (p PageRequest) Normalize() (skip, limit int64) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit = p.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	return (page - 1) * limit, limit
}

// Page is one page of records together with the total match count.
type Page[T any] struct {
	Result []T   `bson:"result" json:"result"`
	Total  int64 `bson:"total" json:"total"`
}

// Service runs descriptor-driven queries for one resource type.
// T is the read model records decode into.
type Service[T any] struct {
	desc Descriptor
	exec Executor
	log  logger.Logger
}

// NewService validates the descriptor and builds a service around it.
// Descriptor problems surface here, at wiring time, not per request.
func NewService[T any](desc Descriptor, exec Executor, log logger.Logger) (*Service[T], error) {
	if exec == nil {
		return nil, fmt.Errorf("catalog: executor is required")
	}
	if log == nil {
		return nil, fmt.Errorf("catalog: logger is required")
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return &Service[T]{desc: desc, exec: exec, log: log}, nil
}

// Descriptor returns the resource descriptor the service was built with.
func (s *Service[T]) Descriptor() Descriptor {
	return s.desc
}

// List returns one page of the caller's records, optionally narrowed by a
// case-insensitive substring search over the descriptor's search fields.
func (s *Service[T]) List(ctx context.Context, ownerID string, req PageRequest) (page *Page[T], err error) {
	defer s.observe("list", time.Now(), &err)

	owner, err := s.ownerFilter(ownerID)
	if err != nil {
		return nil, err
	}

	skip, limit := req.Normalize()
	return s.runPagedPipeline(ctx, listPipeline(s.desc, owner, req.Search, skip, limit))
}

// ListByRelation returns one page of records referencing the given foreign
// record. Only resources declaring a relation support it.
func (s *Service[T]) ListByRelation(ctx context.Context, relationID string, req PageRequest) (page *Page[T], err error) {
	defer s.observe("list_by_relation", time.Now(), &err)

	if s.desc.Relation == nil {
		return nil, invalidQuery("%s has no relation to list by", s.desc.Name)
	}

	relID, err := s.parseID(relationID)
	if err != nil {
		return nil, err
	}

	skip, limit := req.Normalize()
	return s.runPagedPipeline(ctx, byRelationPipeline(s.desc, relID, req.Search, skip, limit))
}

// GetByID returns a single record by ID within the caller's owner scope,
// with the relation joined when the descriptor declares one.
func (s *Service[T]) GetByID(ctx context.Context, ownerID, id string) (record *T, err error) {
	defer s.observe("get", time.Now(), &err)
	return s.getByID(ctx, ownerID, id)
}

func (s *Service[T]) getByID(ctx context.Context, ownerID, id string) (*T, error) {
	owner, err := s.ownerFilter(ownerID)
	if err != nil {
		return nil, err
	}
	oid, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err := s.exec.Aggregate(ctx, s.desc.Collection, getPipeline(s.desc, owner, oid), &rows); err != nil {
		return nil, storeError(err)
	}
	if len(rows) == 0 {
		return nil, &NotFoundError{Resource: s.desc.Name, ID: id}
	}
	return &rows[0], nil
}

// Create validates the payload against the field allow-list, stamps the
// owner and timestamps, stores the record and returns it as read back
// through the normal projection.
func (s *Service[T]) Create(ctx context.Context, ownerID string, payload map[string]interface{}) (record *T, err error) {
	defer s.observe("create", time.Now(), &err)

	doc := bson.M{}
	for key, value := range payload {
		field := s.desc.storedField(key)
		if !s.desc.HasField(field) {
			return nil, invalidQuery("unknown field %q for %s", key, s.desc.Name)
		}
		converted, err := s.convertFieldValue(field, value)
		if err != nil {
			return nil, err
		}
		doc[field] = converted
	}

	for _, required := range s.desc.RequiredFields {
		if v, ok := doc[required]; !ok || v == nil {
			return nil, invalidQuery("field %q is required for %s", s.desc.wireField(required), s.desc.Name)
		}
	}

	if s.desc.OwnerScoped {
		owner, err := s.parseOwner(ownerID)
		if err != nil {
			return nil, err
		}
		doc[OwnerField] = owner
	}

	now := time.Now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	result, err := s.exec.InsertOne(ctx, s.desc.Collection, doc)
	if err != nil {
		return nil, storeError(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, invalidQuery("store returned unexpected id type %T", result.InsertedID)
	}

	s.log.Debug("record created", "resource", s.desc.Name, "id", insertedID.Hex())
	return s.getByID(ctx, ownerID, insertedID.Hex())
}

// Update applies a shallow partial update: only fields explicitly present
// in the patch change, explicit nulls included, and updatedAt is bumped.
// The updated record is returned as read back through the projection.
func (s *Service[T]) Update(ctx context.Context, ownerID, id string, patch map[string]interface{}) (record *T, err error) {
	defer s.observe("update", time.Now(), &err)

	converted := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		field := s.desc.storedField(key)
		if !s.desc.HasField(field) {
			return nil, invalidQuery("unknown field %q for %s", key, s.desc.Name)
		}
		v, err := s.convertFieldValue(field, value)
		if err != nil {
			return nil, err
		}
		converted[field] = v
	}

	filter, err := s.recordFilter(ownerID, id)
	if err != nil {
		return nil, err
	}

	var existing bson.M
	if err := s.exec.FindOne(ctx, s.desc.Collection, filter, &existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Resource: s.desc.Name, ID: id}
		}
		return nil, storeError(err)
	}

	merged := MergePatch(existing, converted)
	delete(merged, "_id")
	merged["updatedAt"] = time.Now().UTC()

	if _, err := s.exec.UpdateOne(ctx, s.desc.Collection, filter, bson.M{"$set": merged}); err != nil {
		return nil, storeError(err)
	}

	s.log.Debug("record updated", "resource", s.desc.Name, "id", id, "fields", len(patch))
	return s.getByID(ctx, ownerID, id)
}

// Delete removes a record by ID within the caller's owner scope.
func (s *Service[T]) Delete(ctx context.Context, ownerID, id string) (err error) {
	defer s.observe("delete", time.Now(), &err)

	filter, err := s.recordFilter(ownerID, id)
	if err != nil {
		return err
	}

	result, err := s.exec.DeleteOne(ctx, s.desc.Collection, filter)
	if err != nil {
		return storeError(err)
	}
	if result.DeletedCount == 0 {
		return &NotFoundError{Resource: s.desc.Name, ID: id}
	}

	s.log.Debug("record deleted", "resource", s.desc.Name, "id", id)
	return nil
}

// Dropdown returns up to DropdownLimit thin records for selection lists.
// Each requested field is matched against the keyword with the same
// case-insensitive substring semantics as List; an empty field list is
// defined to match nothing.
func (s *Service[T]) Dropdown(ctx context.Context, ownerID string, fields []string, keyword string) (records []T, err error) {
	defer s.observe("dropdown", time.Now(), &err)

	if len(fields) == 0 {
		return []T{}, nil
	}

	filter := bson.M{}
	if s.desc.OwnerScoped {
		owner, err := s.parseOwner(ownerID)
		if err != nil {
			return nil, err
		}
		filter[OwnerField] = owner
	}

	conditions := bson.A{}
	projection := bson.D{}
	for _, f := range fields {
		if !s.desc.isSelectable(f) {
			return nil, invalidQuery("unknown dropdown field %q for %s", f, s.desc.Name)
		}
		name := f
		if name == "id" {
			name = "_id"
		}
		conditions = append(conditions, bson.D{{Key: name, Value: searchRegex(keyword)}})
		projection = append(projection, bson.E{Key: name, Value: 1})
	}
	filter["$or"] = conditions

	opts := options.Find().
		SetProjection(projection).
		SetLimit(DropdownLimit)

	records = []T{}
	if err := s.exec.Find(ctx, s.desc.Collection, filter, opts, &records); err != nil {
		return nil, storeError(err)
	}
	return records, nil
}

// runPagedPipeline executes a pipeline ending in the pagination facet and
// decodes its single row. An empty reply means zero matches.
func (s *Service[T]) runPagedPipeline(ctx context.Context, pipeline mongo.Pipeline) (*Page[T], error) {
	var rows []Page[T]
	if err := s.exec.Aggregate(ctx, s.desc.Collection, pipeline, &rows); err != nil {
		return nil, storeError(err)
	}
	if len(rows) == 0 {
		return &Page[T]{Result: []T{}, Total: 0}, nil
	}
	page := rows[0]
	if page.Result == nil {
		page.Result = []T{}
	}
	return &page, nil
}

// ownerFilter returns the parsed owner ID for scoped resources and nil
// for globally addressable ones.
func (s *Service[T]) ownerFilter(ownerID string) (*primitive.ObjectID, error) {
	if !s.desc.OwnerScoped {
		return nil, nil
	}
	owner, err := s.parseOwner(ownerID)
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (s *Service[T]) recordFilter(ownerID, id string) (bson.M, error) {
	oid, err := s.parseID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if s.desc.OwnerScoped {
		owner, err := s.parseOwner(ownerID)
		if err != nil {
			return nil, err
		}
		filter[OwnerField] = owner
	}
	return filter, nil
}

func (s *Service[T]) parseOwner(ownerID string) (primitive.ObjectID, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return primitive.NilObjectID, invalidQuery("invalid owner id %q", ownerID)
	}
	return owner, nil
}

func (s *Service[T]) parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, invalidQuery("invalid %s id %q", s.desc.Name, id)
	}
	return oid, nil
}

// convertFieldValue coerces payload values that need a store type, which
// today is only the relation reference (hex string to ObjectID).
func (s *Service[T]) convertFieldValue(key string, value interface{}) (interface{}, error) {
	if s.desc.Relation == nil || key != s.desc.Relation.LocalField || value == nil {
		return value, nil
	}

	raw, ok := value.(string)
	if !ok {
		return nil, invalidQuery("field %q must be a %s id string", key, s.desc.Relation.Collection)
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, invalidQuery("invalid %s reference %q", key, raw)
	}
	return oid, nil
}

func (s *Service[T]) observe(operation string, start time.Time, err *error) {
	outcome := "ok"
	switch {
	case err == nil || *err == nil:
	case IsNotFound(*err):
		outcome = "not_found"
	case IsUnavailable(*err):
		outcome = "unavailable"
	default:
		outcome = "invalid"
	}
	metrics.RecordCatalogQuery(s.desc.Name, operation, outcome, time.Since(start))
}
