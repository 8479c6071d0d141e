package catalog

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMergePatch_OverwritesOnlyPatchedKeys(t *testing.T) {
	existing := bson.M{
		"designName":  "Summer Dress",
		"description": "light fabric",
		"price":       49.90,
	}
	patch := map[string]interface{}{
		"designName": "Winter Dress",
	}

	merged := MergePatch(existing, patch)

	if merged["designName"] != "Winter Dress" {
		t.Fatalf("designName = %v", merged["designName"])
	}
	if merged["description"] != "light fabric" || merged["price"] != 49.90 {
		t.Fatalf("unpatched fields changed: %v", merged)
	}
}

func TestMergePatch_ExplicitNullOverwrites(t *testing.T) {
	existing := bson.M{"description": "light fabric"}
	patch := map[string]interface{}{"description": nil}

	merged := MergePatch(existing, patch)

	v, ok := merged["description"]
	if !ok {
		t.Fatal("explicitly nulled key must remain present")
	}
	if v != nil {
		t.Fatalf("description = %v, want nil", v)
	}
}

func TestMergePatch_ReplacesNestedValuesWhole(t *testing.T) {
	existing := bson.M{"sizes": bson.M{"chest": 90, "waist": 70}}
	patch := map[string]interface{}{"sizes": map[string]interface{}{"chest": 95}}

	merged := MergePatch(existing, patch)

	sizes := merged["sizes"].(map[string]interface{})
	if _, ok := sizes["waist"]; ok {
		t.Fatal("nested values must be replaced, not merged")
	}
}

func TestMergePatch_DoesNotMutateInputs(t *testing.T) {
	existing := bson.M{"designName": "Summer Dress"}
	patch := map[string]interface{}{"designName": "Winter Dress"}

	_ = MergePatch(existing, patch)

	if existing["designName"] != "Summer Dress" {
		t.Fatal("existing document was mutated")
	}
}

func TestMergePatchProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property tests in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	docGen := gen.MapOf(gen.Identifier(), gen.Int())

	properties.Property("patched keys take the patch value", prop.ForAll(
		func(existing map[string]int, patch map[string]int) bool {
			merged := MergePatch(toBsonM(existing), toPatch(patch))
			for k, v := range patch {
				if merged[k] != v {
					return false
				}
			}
			return true
		},
		docGen, docGen,
	))

	properties.Property("keys absent from the patch are unchanged", prop.ForAll(
		func(existing map[string]int, patch map[string]int) bool {
			merged := MergePatch(toBsonM(existing), toPatch(patch))
			for k, v := range existing {
				if _, patched := patch[k]; patched {
					continue
				}
				if merged[k] != v {
					return false
				}
			}
			return true
		},
		docGen, docGen,
	))

	properties.Property("an empty patch is the identity", prop.ForAll(
		func(existing map[string]int) bool {
			merged := MergePatch(toBsonM(existing), nil)
			return reflect.DeepEqual(merged, toBsonM(existing))
		},
		docGen,
	))

	properties.Property("merged key set is the union of both key sets", prop.ForAll(
		func(existing map[string]int, patch map[string]int) bool {
			merged := MergePatch(toBsonM(existing), toPatch(patch))
			keys := map[string]struct{}{}
			for k := range existing {
				keys[k] = struct{}{}
			}
			for k := range patch {
				keys[k] = struct{}{}
			}
			return len(merged) == len(keys)
		},
		docGen, docGen,
	))

	properties.TestingRun(t)
}

func toBsonM(m map[string]int) bson.M {
	out := bson.M{}
	for k, v := range m {
		out[k] = v
	}
	return out
}

func toPatch(m map[string]int) map[string]interface{} {
	out := map[string]interface{}{}
	for k, v := range m {
		out[k] = v
	}
	return out
}
