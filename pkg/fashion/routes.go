package fashion

import (
	"github.com/stylevault/stylevault/pkg/catalog"
	"github.com/stylevault/stylevault/pkg/observability/logger"
	"github.com/stylevault/stylevault/pkg/server/router"
)

// Services bundles the catalog services for every record resource.
type Services struct {
	BodyMeasurements *catalog.Service[BodyMeasurement]
	ClothingDesigns  *catalog.Service[ClothingDesign]
	TrendingFashions *catalog.Service[TrendingFashion]
	UserPreferences  *catalog.Service[UserPreference]
}

// NewServices builds the per-resource catalog services on a shared
// store executor. Descriptor problems surface here, at wiring time.
func NewServices(exec catalog.Executor, log logger.Logger) (*Services, error) {
	bodyMeasurements, err := catalog.NewService[BodyMeasurement](BodyMeasurementDescriptor, exec, log)
	if err != nil {
		return nil, err
	}
	clothingDesigns, err := catalog.NewService[ClothingDesign](ClothingDesignDescriptor, exec, log)
	if err != nil {
		return nil, err
	}
	trendingFashions, err := catalog.NewService[TrendingFashion](TrendingFashionDescriptor, exec, log)
	if err != nil {
		return nil, err
	}
	userPreferences, err := catalog.NewService[UserPreference](UserPreferenceDescriptor, exec, log)
	if err != nil {
		return nil, err
	}

	return &Services{
		BodyMeasurements: bodyMeasurements,
		ClothingDesigns:  clothingDesigns,
		TrendingFashions: trendingFashions,
		UserPreferences:  userPreferences,
	}, nil
}

// RegisterRoutes mounts every resource on the given router, which is
// expected to already carry the authentication middleware.
func RegisterRoutes(r router.Router, s *Services) {
	trending := NewHandler(s.TrendingFashions, TrendingFashionDescriptor.DropdownFields)

	mount(r, "/bodyMeasurements", NewHandler(s.BodyMeasurements, BodyMeasurementDescriptor.DropdownFields))
	mount(r, "/clothingDesigns", NewHandler(s.ClothingDesigns, ClothingDesignDescriptor.DropdownFields))
	mount(r, "/trendingFashions", trending)
	mount(r, "/userPreferences", NewHandler(s.UserPreferences, UserPreferenceDescriptor.DropdownFields))

	// Trending fashions filtered by the design they reference. The
	// parameter is named id to line up with the sibling design routes.
	r.GET("/clothingDesigns/:id/trendingFashion", trending.ListByRelation("id"))
}

func mount[T any](r router.Router, path string, h *Handler[T]) {
	r.GET(path, h.List)
	r.GET(path+"/dropdown", h.Dropdown)
	r.GET(path+"/:id", h.Get)
	r.POST(path, h.Create)
	r.PUT(path+"/:id", h.Update)
	r.DELETE(path+"/:id", h.Delete)
}
