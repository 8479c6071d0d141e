package fashion

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/stylevault/stylevault/pkg/catalog"
	"github.com/stylevault/stylevault/pkg/controller"
	"github.com/stylevault/stylevault/pkg/middleware/authz"
	"github.com/stylevault/stylevault/pkg/server/router"
)

// resourceService is the catalog surface a handler needs.
// *catalog.Service[T] satisfies it; tests substitute fakes.
type resourceService[T any] interface {
	List(ctx context.Context, ownerID string, req catalog.PageRequest) (*catalog.Page[T], error)
	ListByRelation(ctx context.Context, relationID string, req catalog.PageRequest) (*catalog.Page[T], error)
	GetByID(ctx context.Context, ownerID, id string) (*T, error)
	Create(ctx context.Context, ownerID string, payload map[string]interface{}) (*T, error)
	Update(ctx context.Context, ownerID, id string, patch map[string]interface{}) (*T, error)
	Delete(ctx context.Context, ownerID, id string) error
	Dropdown(ctx context.Context, ownerID string, fields []string, keyword string) ([]T, error)
}

// Handler serves one record resource over HTTP. The owner identity
// always comes from the authenticated claims, never from the request.
type Handler[T any] struct {
	svc            resourceService[T]
	dropdownFields []string
}

// NewHandler builds a handler around a catalog service. dropdownFields
// is the field list used when a dropdown request names none.
func NewHandler[T any](svc resourceService[T], dropdownFields []string) *Handler[T] {
	return &Handler[T]{svc: svc, dropdownFields: dropdownFields}
}

// List responds with one page of the caller's records as
// {result: [...], total: n}.
func (h *Handler[T]) List(c router.Context) error {
	page, err := h.svc.List(c.Request().Context(), authz.OwnerID(c), pageRequest(c))
	if err != nil {
		return controller.Error(c, mapCatalogError(err))
	}
	return controller.OK(c, page)
}

// Get responds with a single record by id.
func (h *Handler[T]) Get(c router.Context) error {
	record, err := h.svc.GetByID(c.Request().Context(), authz.OwnerID(c), c.Param("id"))
	if err != nil {
		return controller.Error(c, mapCatalogError(err))
	}
	return controller.OK(c, record)
}

// Create stores a new record and responds with it as stored.
func (h *Handler[T]) Create(c router.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return controller.Error(c, controller.NewValidationError("request body must be a JSON object", nil))
	}

	record, err := h.svc.Create(c.Request().Context(), authz.OwnerID(c), payload)
	if err != nil {
		return controller.Error(c, mapCatalogError(err))
	}
	return controller.Created(c, record)
}

// Update applies a partial update and responds with the updated record.
// Only fields present in the body change; explicit nulls overwrite.
func (h *Handler[T]) Update(c router.Context) error {
	var patch map[string]interface{}
	if err := c.Bind(&patch); err != nil {
		return controller.Error(c, controller.NewValidationError("request body must be a JSON object", nil))
	}

	record, err := h.svc.Update(c.Request().Context(), authz.OwnerID(c), c.Param("id"), patch)
	if err != nil {
		return controller.Error(c, mapCatalogError(err))
	}
	return controller.OK(c, record)
}

// Delete removes a record and responds with no body.
func (h *Handler[T]) Delete(c router.Context) error {
	if err := h.svc.Delete(c.Request().Context(), authz.OwnerID(c), c.Param("id")); err != nil {
		return controller.Error(c, mapCatalogError(err))
	}
	return controller.NoContent(c)
}

// Dropdown responds with a bare array of thin records for selection
// lists. fields is a comma-separated list of projected fields, keyword
// narrows the records with the same substring semantics as List.
func (h *Handler[T]) Dropdown(c router.Context) error {
	fields := splitFields(c.Query("fields"))
	if len(fields) == 0 {
		fields = h.dropdownFields
	}

	records, err := h.svc.Dropdown(c.Request().Context(), authz.OwnerID(c), fields, c.Query("keyword"))
	if err != nil {
		return controller.Error(c, mapCatalogError(err))
	}
	return controller.OK(c, records)
}

// ListByRelation returns a handler listing records that reference the
// record named by the given route parameter.
func (h *Handler[T]) ListByRelation(param string) router.HandlerFunc {
	return func(c router.Context) error {
		page, err := h.svc.ListByRelation(c.Request().Context(), c.Param(param), pageRequest(c))
		if err != nil {
			return controller.Error(c, mapCatalogError(err))
		}
		return controller.OK(c, page)
	}
}

// pageRequest reads page, limit and search from the query string.
// Malformed or missing numbers fall back to the catalog defaults.
func pageRequest(c router.Context) catalog.PageRequest {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	return catalog.PageRequest{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	}
}

func splitFields(raw string) []string {
	if raw == "" {
		return nil
	}
	fields := make([]string, 0, 4)
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// mapCatalogError translates catalog errors into the shared HTTP error
// contract: not found is 404, bad input is 400, a store that cannot be
// reached is 503.
func mapCatalogError(err error) error {
	switch {
	case catalog.IsNotFound(err):
		return controller.NewNotFoundError(err.Error())
	case catalog.IsUnavailable(err):
		return controller.NewUnavailableError("record store unavailable", err)
	case catalog.IsInvalidQuery(err):
		var details map[string]interface{}
		var iq *catalog.InvalidQueryError
		if errors.As(err, &iq) && iq.Code != "" {
			details = map[string]interface{}{"store_code": iq.Code}
		}
		return controller.NewValidationError(err.Error(), details)
	default:
		return controller.NewInternalError("query failed", err)
	}
}
