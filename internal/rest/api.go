package rest

import (
	"context"

	"github.com/dfryer1193/travelcatalog/api"
	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/dfryer1193/travelcatalog/catalog/persistence"
	"github.com/dfryer1193/travelcatalog/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RecordRepository is the storage behind the REST resources.
type RecordRepository interface {
	Insert(ctx context.Context, kind domain.ResourceType, body []byte) (int64, error)
	Get(ctx context.Context, kind domain.ResourceType, id int64) (*persistence.StoredRecord, error)
	List(ctx context.Context, kind domain.ResourceType) ([]*persistence.StoredRecord, error)
	Delete(ctx context.Context, kind domain.ResourceType, id int64) error
}

// NewRouter returns a gin engine with the standard middleware and every
// catalog resource mounted.
func NewRouter(repo RecordRepository) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.LogRequests(),
		gin.CustomRecovery(middleware.HandlePanics()),
	)
	NewApi(router, repo)
	return router
}

func NewApi(router *gin.Engine, repo RecordRepository) {
	group := router.Group(api.Prefix)

	registerResource[domain.Category](group, &resource[domain.Category]{
		kind: domain.ResourceCategories,
		repo: repo,
	})
	registerResource[domain.Province](group, &resource[domain.Province]{
		kind:       domain.ResourceProvinces,
		parentKind: domain.ResourceCategories,
		repo:       repo,
	})
	registerResource[domain.Food](group, &resource[domain.Food]{
		kind:       domain.ResourceFood,
		parentKind: domain.ResourceProvinces,
		repo:       repo,
	})
}

func registerResource[T any, PT record[T]](group *gin.RouterGroup, res *resource[T]) {
	path := "/" + string(res.kind)
	group.GET(path, list[T, PT](res))
	group.POST(path, create[T, PT](res))
	group.DELETE(path+"/:id", remove(res))
}
