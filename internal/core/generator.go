package core

import (
	"golang.org/x/sync/errgroup"

	"infracheck/internal/graph"
	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

// GenerateErrors applies every rule of registry to every object, in object
// order then rule order, and flattens the results.
func GenerateErrors[T domain.Object](objects []T, registry *Registry[T], cache *infracache.InfraCache, g *graph.Graph) []domain.InfraError {
	var out []domain.InfraError
	for _, obj := range objects {
		out = append(out, registry.evaluate(obj, cache, g)...)
	}
	return out
}

// GenerateErrorsParallel is GenerateErrors with objects evaluated by up to
// workers goroutines. The result order matches GenerateErrors.
func GenerateErrorsParallel[T domain.Object](objects []T, registry *Registry[T], cache *infracache.InfraCache, g *graph.Graph, workers int) []domain.InfraError {
	if workers <= 1 || len(objects) < 2 {
		return GenerateErrors(objects, registry, cache, g)
	}
	slots := make([][]domain.InfraError, len(objects))
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, obj := range objects {
		eg.Go(func() error {
			slots[i] = registry.evaluate(obj, cache, g)
			return nil
		})
	}
	_ = eg.Wait() // checkers never fail

	total := 0
	for _, s := range slots {
		total += len(s)
	}
	out := make([]domain.InfraError, 0, total)
	for _, s := range slots {
		out = append(out, s...)
	}
	return out
}

// KindGenerator produces the errors of one object kind.
type KindGenerator interface {
	Kind() domain.ObjectType
	Generate(cache *infracache.InfraCache, g *graph.Graph, workers int) []domain.InfraError
}

type kindGenerator[T domain.Object] struct {
	registry *Registry[T]
	objects  func(*infracache.InfraCache) []T
}

func (k kindGenerator[T]) Kind() domain.ObjectType { return k.registry.Kind() }

func (k kindGenerator[T]) Generate(cache *infracache.InfraCache, g *graph.Graph, workers int) []domain.InfraError {
	return GenerateErrorsParallel(k.objects(cache), k.registry, cache, g, workers)
}

// NewKindGenerator binds a registry to the accessor listing its objects.
func NewKindGenerator[T domain.Object](registry *Registry[T], objects func(*infracache.InfraCache) []T) KindGenerator {
	return kindGenerator[T]{registry: registry, objects: objects}
}

// Generators returns the generator of every validated kind in the order a
// validation pass runs them.
func Generators() []KindGenerator {
	return []KindGenerator{
		NewKindGenerator(TrackSectionLinkRules, (*infracache.InfraCache).TrackSectionLinks),
		NewKindGenerator(DetectorRules, (*infracache.InfraCache).Detectors),
		NewKindGenerator(SignalRules, (*infracache.InfraCache).Signals),
		NewKindGenerator(BufferStopRules, (*infracache.InfraCache).BufferStops),
	}
}
