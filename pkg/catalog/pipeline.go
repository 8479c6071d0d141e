package catalog

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// listPipeline assembles the full aggregation for a paginated listing:
// owner scope, relation join, projection, search and the pagination facet,
// in that order. Page and total come back in a single round trip.
func listPipeline(d Descriptor, owner *primitive.ObjectID, search string, skip, limit int64) mongo.Pipeline {
	p := mongo.Pipeline{}
	if owner != nil {
		p = append(p, ownerStage(*owner))
	}
	if d.Relation != nil {
		p = append(p, relationStages(d.Relation)...)
	}
	p = append(p, projectionStage(d, true))
	if search != "" {
		p = append(p, searchStage(d.SearchFields, search))
	}
	return append(p, paginationStages(skip, limit)...)
}

// getPipeline assembles the single-record read: ID (and owner) match,
// relation join and projection, capped at one document.
func getPipeline(d Descriptor, owner *primitive.ObjectID, id primitive.ObjectID) mongo.Pipeline {
	match := bson.D{{Key: "_id", Value: id}}
	if owner != nil {
		match = append(match, bson.E{Key: OwnerField, Value: *owner})
	}

	p := mongo.Pipeline{bson.D{{Key: "$match", Value: match}}}
	if d.Relation != nil {
		p = append(p, relationStages(d.Relation)...)
	}
	p = append(p, projectionStage(d, true))
	return append(p, bson.D{{Key: "$limit", Value: 1}})
}

// byRelationPipeline lists records referencing one foreign record. Only
// the resource's own fields are projected and searched; the join is
// skipped since the caller already knows the related record.
func byRelationPipeline(d Descriptor, relationID primitive.ObjectID, search string, skip, limit int64) mongo.Pipeline {
	p := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: d.Relation.LocalField, Value: relationID}}}},
		projectionStage(d, false),
	}
	if search != "" {
		p = append(p, searchStage(ownSearchFields(d), search))
	}
	return append(p, paginationStages(skip, limit)...)
}

func ownerStage(owner primitive.ObjectID) bson.D {
	return bson.D{{Key: "$match", Value: bson.D{{Key: OwnerField, Value: owner}}}}
}

// relationStages joins the foreign collection and flattens the resulting
// array. preserveNullAndEmptyArrays keeps records whose reference does
// not resolve.
func relationStages(r *Relation) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: r.Collection},
			{Key: "localField", Value: r.LocalField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: r.LocalField},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + r.LocalField},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// projectionStage projects exactly the descriptor's allow-listed fields.
// The relation field, when included, is reshaped to {_id, <display>} or
// null when the reference did not resolve.
func projectionStage(d Descriptor, includeRelation bool) bson.D {
	proj := bson.D{}
	for _, f := range d.Fields {
		if d.Relation != nil && f == d.Relation.LocalField {
			if !includeRelation {
				continue
			}
			local := "$" + d.Relation.LocalField
			proj = append(proj, bson.E{Key: f, Value: bson.D{
				{Key: "$cond", Value: bson.D{
					{Key: "if", Value: bson.D{{Key: "$ifNull", Value: bson.A{local + "._id", false}}}},
					{Key: "then", Value: bson.D{
						{Key: "_id", Value: local + "._id"},
						{Key: d.Relation.DisplayField, Value: local + "." + d.Relation.DisplayField},
					}},
					{Key: "else", Value: nil},
				}},
			}})
			continue
		}
		proj = append(proj, bson.E{Key: f, Value: 1})
	}
	return bson.D{{Key: "$project", Value: proj}}
}

// searchStage builds the case-insensitive substring disjunction over the
// given fields. The term is quoted so regex metacharacters match
// literally.
func searchStage(fields []string, term string) bson.D {
	conditions := bson.A{}
	for _, f := range fields {
		conditions = append(conditions, bson.D{{Key: f, Value: searchRegex(term)}})
	}
	return bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: conditions}}}}
}

func searchRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}

// paginationStages produces the page slice and the total match count from
// one pass: a $facet runs the skip/limit branch and the count branch over
// the same input, and the final $project collapses a missing count (zero
// matches) to 0.
func paginationStages(skip, limit int64) []bson.D {
	return []bson.D{
		{{Key: "$facet", Value: bson.D{
			{Key: "result", Value: bson.A{
				bson.D{{Key: "$skip", Value: skip}},
				bson.D{{Key: "$limit", Value: limit}},
			}},
			{Key: "totalCount", Value: bson.A{
				bson.D{{Key: "$count", Value: "count"}},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "result", Value: 1},
			{Key: "total", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$totalCount.count", 0}}},
				0,
			}}}},
		}}},
	}
}

// ownSearchFields filters out the joined relation path, leaving only
// fields present on the resource's own documents.
func ownSearchFields(d Descriptor) []string {
	fields := make([]string, 0, len(d.SearchFields))
	for _, f := range d.SearchFields {
		if d.HasField(f) {
			fields = append(fields, f)
		}
	}
	return fields
}
