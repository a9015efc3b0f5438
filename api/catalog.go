package api

import (
	"strconv"

	"github.com/dfryer1193/travelcatalog/catalog/domain"
)

// Prefix is the mount point of every resource collection.
const Prefix = "/api"

// ErrorResponse is the body of every non-success response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// CollectionPath returns /api/{type}.
func CollectionPath(kind domain.ResourceType) string {
	return Prefix + "/" + string(kind)
}

// RecordPath returns /api/{type}/{id}.
func RecordPath(kind domain.ResourceType, id int64) string {
	return CollectionPath(kind) + "/" + strconv.FormatInt(id, 10)
}
