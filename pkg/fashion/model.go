// Package fashion exposes the record resources over HTTP: body
// measurements, clothing designs, trending fashions and user
// preferences, all served by the catalog query engine.
package fashion

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DesignRef is the joined shape of a clothing design reference: the
// referenced id plus its display name, or null when the reference does
// not resolve.
type DesignRef struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	DesignName string             `bson:"designName" json:"designName"`
}

// BodyMeasurement is one user's set of body measurements in centimeters
// and kilograms.
type BodyMeasurement struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Height    float64            `bson:"height" json:"height"`
	Weight    float64            `bson:"weight" json:"weight"`
	ChestSize *float64           `bson:"chestSize" json:"chestSize"`
	WaistSize *float64           `bson:"waistSize" json:"waistSize"`
	HipSize   *float64           `bson:"hipSize" json:"hipSize"`
}

// ClothingDesign is a single design owned by a user.
type ClothingDesign struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	DesignName     string             `bson:"designName" json:"designName"`
	Description    *string            `bson:"description" json:"description"`
	ImageURL       *string            `bson:"imageUrl" json:"imageUrl"`
	Price          *float64           `bson:"price" json:"price"`
	IsVirtual      *bool              `bson:"isVirtual" json:"isVirtual"`
	IsCustomizable *bool              `bson:"isCustomizable" json:"isCustomizable"`
	Gender         *string            `bson:"gender" json:"gender"`
}

// TrendingFashion marks a clothing design as trending over a date range.
// It is globally addressable rather than owner scoped.
type TrendingFashion struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	TrendStartDate   *string            `bson:"trendStartDate" json:"trendStartDate"`
	TrendEndDate     *string            `bson:"trendEndDate" json:"trendEndDate"`
	TrendDescription *string            `bson:"trendDescription" json:"trendDescription"`
	Design           *DesignRef         `bson:"design" json:"design"`
}

// UserPreference holds a user's style preferences.
type UserPreference struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	PreferredColors    []string           `bson:"preferredColors" json:"preferredColors"`
	PreferredStyles    []string           `bson:"preferredStyles" json:"preferredStyles"`
	PreferredMaterials []string           `bson:"preferredMaterials" json:"preferredMaterials"`
}
