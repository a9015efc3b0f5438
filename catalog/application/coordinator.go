package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/dfryer1193/travelcatalog/catalog/domain"
)

// EventKind identifies a change propagated by the Coordinator.
type EventKind int

const (
	CategoryCreated EventKind = iota + 1
	CategoryDeleted
	ProvinceCreated
	ProvinceDeleted
	FoodCreated
	FoodDeleted
)

func (k EventKind) String() string {
	switch k {
	case CategoryCreated:
		return "category_created"
	case CategoryDeleted:
		return "category_deleted"
	case ProvinceCreated:
		return "province_created"
	case ProvinceDeleted:
		return "province_deleted"
	case FoodCreated:
		return "food_created"
	case FoodDeleted:
		return "food_deleted"
	}
	return "unknown"
}

// Event describes one successful mutation. Record is nil for deletions.
type Event struct {
	Kind     EventKind
	Resource domain.ResourceType
	ID       int64
	Record   domain.Record
}

type CategoryDraft struct {
	Name  string
	Image domain.EncodedImage
}

type ProvinceDraft struct {
	ProvinceName string
	Location     string
	Category     Selection
	Image        domain.EncodedImage
}

type FoodDraft struct {
	FoodName        string
	FoodDescription string
	FoodIngredient  string
	FoodLocation    string
	Province        Selection
	Image           domain.EncodedImage
}

// Coordinator wires the three stores together. It holds no records of its
// own: child views read their parent options straight from the parent
// store, so a parent created in this session is selectable immediately.
type Coordinator struct {
	categories *Store[domain.Category]
	provinces  *Store[domain.Province]
	foods      *Store[domain.Food]

	mu          sync.RWMutex
	subscribers []func(Event)
}

func NewCoordinator(categories *Store[domain.Category], provinces *Store[domain.Province], foods *Store[domain.Food]) *Coordinator {
	c := &Coordinator{
		categories: categories,
		provinces:  provinces,
		foods:      foods,
	}

	categories.OnCreated(func(rec domain.Category) {
		c.publish(Event{Kind: CategoryCreated, Resource: domain.ResourceCategories, ID: rec.ID, Record: rec})
	})
	categories.OnDeleted(func(id int64) {
		c.publish(Event{Kind: CategoryDeleted, Resource: domain.ResourceCategories, ID: id})
	})
	provinces.OnCreated(func(rec domain.Province) {
		c.publish(Event{Kind: ProvinceCreated, Resource: domain.ResourceProvinces, ID: rec.ID, Record: rec})
	})
	provinces.OnDeleted(func(id int64) {
		c.publish(Event{Kind: ProvinceDeleted, Resource: domain.ResourceProvinces, ID: id})
	})
	foods.OnCreated(func(rec domain.Food) {
		c.publish(Event{Kind: FoodCreated, Resource: domain.ResourceFood, ID: rec.ID, Record: rec})
	})
	foods.OnDeleted(func(id int64) {
		c.publish(Event{Kind: FoodDeleted, Resource: domain.ResourceFood, ID: id})
	})

	return c
}

// Subscribe registers fn to be called synchronously for every event.
func (c *Coordinator) Subscribe(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Coordinator) publish(evt Event) {
	c.mu.RLock()
	subscribers := c.subscribers
	c.mu.RUnlock()

	for _, fn := range subscribers {
		fn(evt)
	}
}

// Load loads every store, parents first.
func (c *Coordinator) Load(ctx context.Context) error {
	return errors.Join(
		c.categories.Load(ctx),
		c.provinces.Load(ctx),
		c.foods.Load(ctx),
	)
}

// Reload refetches every store from the remote store.
func (c *Coordinator) Reload(ctx context.Context) error {
	return errors.Join(
		c.categories.Reload(ctx),
		c.provinces.Reload(ctx),
		c.foods.Reload(ctx),
	)
}

func (c *Coordinator) Categories() []domain.Category { return c.categories.List() }
func (c *Coordinator) Provinces() []domain.Province  { return c.provinces.List() }
func (c *Coordinator) Foods() []domain.Food          { return c.foods.List() }

// CategoryOptions is the parent list offered by the province form.
func (c *Coordinator) CategoryOptions() []domain.Category {
	return c.categories.List()
}

// ProvinceOptions is the parent list offered by the food form.
func (c *Coordinator) ProvinceOptions() []domain.Province {
	return c.provinces.List()
}

func (c *Coordinator) CreateCategory(ctx context.Context, draft CategoryDraft) (domain.Category, error) {
	return c.categories.Create(ctx, domain.NewCategory(draft.Name, draft.Image))
}

// CreateProvince resolves the chosen category against the live category
// collection before anything is submitted.
func (c *Coordinator) CreateProvince(ctx context.Context, draft ProvinceDraft) (domain.Province, error) {
	category, ok := Resolve(c.CategoryOptions(), draft.Category)
	if !ok {
		return domain.Province{}, unresolved(domain.ResourceProvinces, "category", draft.Category)
	}

	return c.provinces.Create(ctx, domain.NewProvince(draft.ProvinceName, draft.Location, &category, draft.Image))
}

// CreateFood resolves the chosen province against the live province
// collection before anything is submitted.
func (c *Coordinator) CreateFood(ctx context.Context, draft FoodDraft) (domain.Food, error) {
	province, ok := Resolve(c.ProvinceOptions(), draft.Province)
	if !ok {
		return domain.Food{}, unresolved(domain.ResourceFood, "province", draft.Province)
	}

	food := domain.Food{
		FoodName:        draft.FoodName,
		FoodDescription: draft.FoodDescription,
		FoodIngredient:  draft.FoodIngredient,
		FoodLocation:    draft.FoodLocation,
		Province:        &province,
	}
	food.AttachImage(draft.Image)

	return c.foods.Create(ctx, food)
}

func (c *Coordinator) DeleteCategory(ctx context.Context, id int64) error {
	return c.categories.Delete(ctx, id)
}

func (c *Coordinator) DeleteProvince(ctx context.Context, id int64) error {
	return c.provinces.Delete(ctx, id)
}

func (c *Coordinator) DeleteFood(ctx context.Context, id int64) error {
	return c.foods.Delete(ctx, id)
}

func unresolved(resource domain.ResourceType, field string, sel Selection) error {
	if sel.IsZero() {
		return domain.NewValidationError(resource, field, fmt.Sprintf("a %s must be selected", field))
	}
	return domain.NewValidationError(resource, field, fmt.Sprintf("%s %q does not exist", field, sel.String()))
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
