package core

import (
	"infracheck/internal/graph"
	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

// InvalidReference builds a checker reporting field of an object when the
// identifier returned by refOf is not cached under target.
func InvalidReference[T domain.Object](field string, target domain.ObjectType, refOf func(T) string) Checker[T] {
	return func(obj T, cache *infracache.InfraCache, _ *graph.Graph) []domain.InfraError {
		id := refOf(obj)
		if cache.Contains(target, id) {
			return nil
		}
		return []domain.InfraError{
			domain.NewInvalidReference(obj, field, domain.NewObjectRef(target, id)),
		}
	}
}

// OutOfRange builds a checker reporting field of an object when valueOf lies
// outside [0, length] of the track returned by trackOf. Bounds are inclusive.
// A missing track yields no error: that case belongs to the reference check
// the rule is registered after.
func OutOfRange[T domain.Object](field string, trackOf func(T) string, valueOf func(T) float64) Checker[T] {
	return func(obj T, cache *infracache.InfraCache, _ *graph.Graph) []domain.InfraError {
		track, ok := cache.TrackSection(trackOf(obj))
		if !ok {
			return nil
		}
		value := valueOf(obj)
		if value >= 0 && value <= track.Length {
			return nil
		}
		return []domain.InfraError{
			domain.NewOutOfRange(obj, field, value, [2]float64{0, track.Length}),
		}
	}
}
