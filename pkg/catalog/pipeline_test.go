package catalog

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func trendingDescriptor() Descriptor {
	return Descriptor{
		Name:           "trendingFashion",
		Collection:     "trending_fashions",
		Fields:         []string{"trendStartDate", "trendEndDate", "trendDescription", "design"},
		RequiredFields: []string{"design"},
		SearchFields:   []string{"trendDescription", "design.designName"},
		Relation: &Relation{
			LocalField:   "design",
			PayloadField: "designId",
			Collection:   "clothing_designs",
			DisplayField: "designName",
		},
	}
}

func stageKey(t *testing.T, stage bson.D) string {
	t.Helper()
	if len(stage) == 0 {
		t.Fatal("empty pipeline stage")
	}
	return stage[0].Key
}

func TestListPipeline_StageOrder(t *testing.T) {
	owner := primitive.NewObjectID()
	d := validDescriptor()

	p := listPipeline(d, &owner, "shirt", 10, 5)

	want := []string{"$match", "$project", "$match", "$facet", "$project"}
	if len(p) != len(want) {
		t.Fatalf("pipeline has %d stages, want %d", len(p), len(want))
	}
	for i, key := range want {
		if got := stageKey(t, p[i]); got != key {
			t.Fatalf("stage %d = %s, want %s", i, got, key)
		}
	}

	// Owner scope is the first stage.
	match := p[0][0].Value.(bson.D)
	if match[0].Key != OwnerField || match[0].Value != owner {
		t.Fatalf("first stage must match owner, got %v", match)
	}
}

func TestListPipeline_UnscopedSkipsOwnerStage(t *testing.T) {
	d := trendingDescriptor()

	p := listPipeline(d, nil, "", 0, 10)

	want := []string{"$lookup", "$unwind", "$project", "$facet", "$project"}
	if len(p) != len(want) {
		t.Fatalf("pipeline has %d stages, want %d", len(p), len(want))
	}
	for i, key := range want {
		if got := stageKey(t, p[i]); got != key {
			t.Fatalf("stage %d = %s, want %s", i, got, key)
		}
	}
}

func TestListPipeline_NoSearchStageForEmptyTerm(t *testing.T) {
	owner := primitive.NewObjectID()
	p := listPipeline(validDescriptor(), &owner, "", 0, 10)
	for i, stage := range p[1:] {
		if stageKey(t, stage) == "$match" {
			t.Fatalf("unexpected $match stage at %d for empty search", i+1)
		}
	}
}

func TestRelationStages_PreservesUnresolvedReferences(t *testing.T) {
	stages := relationStages(trendingDescriptor().Relation)

	lookup := stages[0][0].Value.(bson.D)
	got := map[string]interface{}{}
	for _, e := range lookup {
		got[e.Key] = e.Value
	}
	if got["from"] != "clothing_designs" || got["localField"] != "design" || got["foreignField"] != "_id" {
		t.Fatalf("lookup stage = %v", got)
	}

	unwind := stages[1][0].Value.(bson.D)
	preserved := false
	for _, e := range unwind {
		if e.Key == "preserveNullAndEmptyArrays" && e.Value == true {
			preserved = true
		}
	}
	if !preserved {
		t.Fatal("unwind must preserve records with unresolved references")
	}
}

func TestProjectionStage_RelationShape(t *testing.T) {
	stage := projectionStage(trendingDescriptor(), true)
	proj := stage[0].Value.(bson.D)

	var relationExpr interface{}
	for _, e := range proj {
		if e.Key == "design" {
			relationExpr = e.Value
		}
	}
	if relationExpr == nil {
		t.Fatal("relation field missing from projection")
	}
	cond := relationExpr.(bson.D)
	if cond[0].Key != "$cond" {
		t.Fatalf("relation projection should be conditional, got %s", cond[0].Key)
	}
}

func TestProjectionStage_WithoutRelation(t *testing.T) {
	stage := projectionStage(trendingDescriptor(), false)
	proj := stage[0].Value.(bson.D)
	for _, e := range proj {
		if e.Key == "design" {
			t.Fatal("relation field must be excluded")
		}
	}
	if len(proj) != 3 {
		t.Fatalf("projection has %d fields, want 3", len(proj))
	}
}

func TestSearchStage_QuotesRegexMetacharacters(t *testing.T) {
	stage := searchStage([]string{"designName"}, "50% off (sale)")
	match := stage[0].Value.(bson.D)
	or := match[0].Value.(bson.A)
	cond := or[0].(bson.D)
	regex := cond[0].Value.(primitive.Regex)

	if regex.Options != "i" {
		t.Fatalf("regex options = %q, want i", regex.Options)
	}
	if regex.Pattern != `50% off \(sale\)` {
		t.Fatalf("regex pattern = %q", regex.Pattern)
	}
}

func TestSearchStage_OneConditionPerField(t *testing.T) {
	fields := []string{"trendDescription", "design.designName"}
	stage := searchStage(fields, "velvet")
	or := stage[0].Value.(bson.D)[0].Value.(bson.A)
	if len(or) != len(fields) {
		t.Fatalf("disjunction has %d branches, want %d", len(or), len(fields))
	}
}

func TestPaginationStages_SkipAndLimit(t *testing.T) {
	stages := paginationStages(20, 10)

	facet := stages[0][0].Value.(bson.D)
	var resultBranch bson.A
	for _, e := range facet {
		if e.Key == "result" {
			resultBranch = e.Value.(bson.A)
		}
	}
	if resultBranch == nil {
		t.Fatal("facet has no result branch")
	}

	skip := resultBranch[0].(bson.D)
	if skip[0].Key != "$skip" || skip[0].Value != int64(20) {
		t.Fatalf("skip stage = %v", skip)
	}
	limit := resultBranch[1].(bson.D)
	if limit[0].Key != "$limit" || limit[0].Value != int64(10) {
		t.Fatalf("limit stage = %v", limit)
	}
}

func TestByRelationPipeline_MatchesReferenceAndSkipsJoin(t *testing.T) {
	relID := primitive.NewObjectID()
	p := byRelationPipeline(trendingDescriptor(), relID, "summer", 0, 10)

	match := p[0][0].Value.(bson.D)
	if match[0].Key != "design" || match[0].Value != relID {
		t.Fatalf("first stage must match the reference, got %v", match)
	}

	for _, stage := range p {
		if stageKey(t, stage) == "$lookup" {
			t.Fatal("by-relation listing must not join")
		}
	}

	// Search must only cover the resource's own fields.
	search := p[2][0].Value.(bson.D)[0].Value.(bson.A)
	if len(search) != 1 {
		t.Fatalf("search branches = %d, want 1", len(search))
	}
	if search[0].(bson.D)[0].Key != "trendDescription" {
		t.Fatalf("search field = %s", search[0].(bson.D)[0].Key)
	}
}

func TestPageRequest_Normalize(t *testing.T) {
	cases := []struct {
		req       PageRequest
		wantSkip  int64
		wantLimit int64
	}{
		{PageRequest{}, 0, 10},
		{PageRequest{Page: 0, Limit: 0}, 0, 10},
		{PageRequest{Page: -3, Limit: -1}, 0, 10},
		{PageRequest{Page: 1, Limit: 25}, 0, 25},
		{PageRequest{Page: 4, Limit: 10}, 30, 10},
	}
	for _, c := range cases {
		skip, limit := c.req.Normalize()
		if skip != c.wantSkip || limit != c.wantLimit {
			t.Fatalf("Normalize(%+v) = (%d, %d), want (%d, %d)", c.req, skip, limit, c.wantSkip, c.wantLimit)
		}
	}
}

func TestPageRequestNormalizeProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property tests in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	pageGen := gen.Int64Range(-1000, 1000)
	limitGen := gen.Int64Range(-1000, 1000)

	properties.Property("skip is non-negative and limit is positive", prop.ForAll(
		func(page, limit int64) bool {
			skip, lim := PageRequest{Page: page, Limit: limit}.Normalize()
			return skip >= 0 && lim >= 1
		},
		pageGen, limitGen,
	))

	properties.Property("skip addresses the start of the requested page", prop.ForAll(
		func(page, limit int64) bool {
			skip, lim := PageRequest{Page: page, Limit: limit}.Normalize()
			effectivePage := page
			if effectivePage < 1 {
				effectivePage = 1
			}
			return skip == (effectivePage-1)*lim
		},
		pageGen, limitGen,
	))

	properties.Property("valid limits pass through unchanged", prop.ForAll(
		func(page, limit int64) bool {
			_, lim := PageRequest{Page: page, Limit: limit}.Normalize()
			if limit >= 1 {
				return lim == limit
			}
			return lim == DefaultPageSize
		},
		pageGen, limitGen,
	))

	properties.TestingRun(t)
}
