package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dfryer1193/travelcatalog/api"
	"github.com/dfryer1193/travelcatalog/catalog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// record is satisfied by *Category, *Province and *Food.
type record[T any] interface {
	*T
	domain.Record
	SetID(id int64)
}

// child is implemented by records that reference a parent.
type child interface {
	ParentID() int64
}

type resource[T any] struct {
	kind       domain.ResourceType
	parentKind domain.ResourceType
	repo       RecordRepository
}

func list[T any, PT record[T]](res *resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := res.repo.List(c.Request.Context(), res.kind)
		if err != nil {
			internalError(c, res.kind, err)
			return
		}

		out := make([]T, 0, len(rows))
		for _, row := range rows {
			var rec T
			if err := json.Unmarshal(row.Body, &rec); err != nil {
				internalError(c, res.kind, fmt.Errorf("corrupt record %d: %w", row.ID, err))
				return
			}
			PT(&rec).SetID(row.ID)
			out = append(out, rec)
		}

		c.JSON(http.StatusOK, out)
	}
}

func create[T any, PT record[T]](res *resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rec T
		if err := c.ShouldBindJSON(&rec); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}

		ptr := PT(&rec)
		if err := ptr.Validate(); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: verr.Message, Field: verr.Field})
				return
			}
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}

		if ch, ok := any(ptr).(child); ok && res.parentKind != "" {
			_, err := res.repo.Get(c.Request.Context(), res.parentKind, ch.ParentID())
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{
					Error: fmt.Sprintf("%s %d does not exist", res.parentKind, ch.ParentID()),
					Field: parentField(res.parentKind),
				})
				return
			}
			if err != nil {
				internalError(c, res.kind, err)
				return
			}
		}

		// the id is assigned by the store, never by the caller
		ptr.SetID(0)
		body, err := json.Marshal(rec)
		if err != nil {
			internalError(c, res.kind, err)
			return
		}

		id, err := res.repo.Insert(c.Request.Context(), res.kind, body)
		if err != nil {
			internalError(c, res.kind, err)
			return
		}
		ptr.SetID(id)

		log.Info().Str("resource", res.kind.String()).Int64("id", id).Msg("Stored record")
		c.JSON(http.StatusCreated, rec)
	}
}

func remove[T any](res *resource[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: fmt.Sprintf("invalid id %q", c.Param("id")), Field: "id"})
			return
		}

		err = res.repo.Delete(c.Request.Context(), res.kind, id)
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: fmt.Sprintf("%s %d not found", res.kind, id)})
			return
		}
		if err != nil {
			internalError(c, res.kind, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func parentField(kind domain.ResourceType) string {
	switch kind {
	case domain.ResourceCategories:
		return "category"
	case domain.ResourceProvinces:
		return "province"
	}
	return string(kind)
}

func internalError(c *gin.Context, kind domain.ResourceType, err error) {
	_ = c.Error(err)
	log.Error().Err(err).Str("resource", kind.String()).Msg("Request failed")
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
}
