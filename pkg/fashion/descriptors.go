package fashion

import (
	"github.com/stylevault/stylevault/pkg/catalog"
)

// BodyMeasurementDescriptor describes the body_measurements collection.
var BodyMeasurementDescriptor = catalog.Descriptor{
	Name:           "bodyMeasurement",
	Collection:     "body_measurements",
	OwnerScoped:    true,
	Fields:         []string{"height", "weight", "chestSize", "waistSize", "hipSize"},
	RequiredFields: []string{"height", "weight"},
	SearchFields:   []string{"height", "weight", "chestSize", "waistSize", "hipSize"},
	DropdownFields: []string{"id"},
}

// ClothingDesignDescriptor describes the clothing_designs collection.
var ClothingDesignDescriptor = catalog.Descriptor{
	Name:        "clothingDesign",
	Collection:  "clothing_designs",
	OwnerScoped: true,
	Fields: []string{
		"designName", "description", "imageUrl", "price",
		"isVirtual", "isCustomizable", "gender",
	},
	RequiredFields: []string{"designName"},
	SearchFields: []string{
		"designName", "description", "imageUrl", "price",
		"isVirtual", "isCustomizable", "gender",
	},
	DropdownFields: []string{"id", "designName"},
}

// TrendingFashionDescriptor describes the trending_fashions collection.
// Trending fashions are globally addressable and always join their
// clothing design reference on reads.
var TrendingFashionDescriptor = catalog.Descriptor{
	Name:           "trendingFashion",
	Collection:     "trending_fashions",
	OwnerScoped:    false,
	Fields:         []string{"trendStartDate", "trendEndDate", "trendDescription", "design"},
	RequiredFields: []string{"design"},
	SearchFields:   []string{"trendStartDate", "trendEndDate", "trendDescription", "design.designName"},
	DropdownFields: []string{"id"},
	Relation: &catalog.Relation{
		LocalField:   "design",
		PayloadField: "designId",
		Collection:   "clothing_designs",
		DisplayField: "designName",
	},
}

// UserPreferenceDescriptor describes the user_preferences collection.
var UserPreferenceDescriptor = catalog.Descriptor{
	Name:           "userPreference",
	Collection:     "user_preferences",
	OwnerScoped:    true,
	Fields:         []string{"preferredColors", "preferredStyles", "preferredMaterials"},
	SearchFields:   []string{"preferredColors", "preferredStyles", "preferredMaterials"},
	DropdownFields: []string{"id"},
}
