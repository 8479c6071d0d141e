package catalog

import (
	"go.mongodb.org/mongo-driver/bson"
)

// MergePatch returns a copy of existing with every key present in patch
// overwritten, including keys whose patch value is an explicit null.
// Keys absent from the patch are untouched; values are replaced whole,
// never merged recursively.
func MergePatch(existing bson.M, patch map[string]interface{}) bson.M {
	merged := make(bson.M, len(existing)+len(patch))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}
