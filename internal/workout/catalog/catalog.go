package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/gymsession/internal/telemetry/tracing"
	"github.com/2beens/gymsession/internal/workout"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	megabyte       = 1024 * 1024
	cacheExpireSec = 60 * 60
)

//go:generate mockgen -source=$GOFILE -destination=catalog_mocks_test.go -package=catalog_test

type exercisesRepo interface {
	Exercise(ctx context.Context, id int) (*workout.Exercise, error)
	Exercises(ctx context.Context, filter workout.ExerciseFilter) ([]workout.Exercise, error)
}

// Catalog is the read-only exercise lookup, cached in memory. Exercises are
// never changed by sessions, so entries simply expire.
type Catalog struct {
	repo  exercisesRepo
	cache *freecache.Cache
}

func New(repo exercisesRepo, cacheSizeMB int) *Catalog {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 10
	}
	return &Catalog{
		repo:  repo,
		cache: freecache.NewCache(cacheSizeMB * megabyte),
	}
}

func (c *Catalog) Get(ctx context.Context, id int) (_ *workout.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("exercise-id", id))

	cacheKey := fmt.Sprintf("exercise::%d", id)
	exercise := &workout.Exercise{}
	if c.fromCache(cacheKey, exercise) {
		span.SetAttributes(attribute.Bool("cache-hit", true))
		return exercise, nil
	}

	exercise, err = c.repo.Exercise(ctx, id)
	if err != nil {
		return nil, err
	}
	c.toCache(cacheKey, exercise)

	return exercise, nil
}

func (c *Catalog) List(ctx context.Context, filter workout.ExerciseFilter) (_ []workout.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "catalog.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userKey := "-"
	if filter.UserID != nil {
		userKey = fmt.Sprintf("%d", *filter.UserID)
	}
	cacheKey := fmt.Sprintf("exercises::%s::%s::%s::%s", filter.Category, filter.Muscle, filter.Equipment, userKey)

	var exercises []workout.Exercise
	if c.fromCache(cacheKey, &exercises) {
		span.SetAttributes(attribute.Bool("cache-hit", true))
		return exercises, nil
	}

	exercises, err = c.repo.Exercises(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.toCache(cacheKey, exercises)

	return exercises, nil
}

// Invalidate drops all cached entries, e.g. after a custom exercise was added.
func (c *Catalog) Invalidate() {
	c.cache.Clear()
}

func (c *Catalog) fromCache(key string, dest any) bool {
	cached, err := c.cache.Get([]byte(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(cached, dest); err != nil {
		log.Errorf("catalog: unmarshal cached %s: %s", key, err)
		return false
	}
	return true
}

func (c *Catalog) toCache(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Errorf("catalog: marshal %s for cache: %s", key, err)
		return
	}
	if err := c.cache.Set([]byte(key), data, cacheExpireSec); err != nil {
		log.Errorf("catalog: set cache %s: %s", key, err)
	}
}
