// Package infracache holds the read-only, in-memory view of one
// infrastructure that checkers validate.
package infracache

import (
	"errors"
	"fmt"
	"sort"

	"infracheck/pkg/domain"
)

// ErrDuplicateObject is returned by Insert when an identifier is already
// present in the partition of its kind.
var ErrDuplicateObject = errors.New("duplicate object")

// InfraCache maps object identifiers to cached objects, partitioned by kind.
// Iteration helpers return objects sorted by identifier.
type InfraCache struct {
	objects map[domain.ObjectType]map[string]domain.Object
}

// New returns an empty cache.
func New() *InfraCache {
	c := &InfraCache{objects: make(map[domain.ObjectType]map[string]domain.Object)}
	for _, t := range domain.ObjectTypes() {
		c.objects[t] = make(map[string]domain.Object)
	}
	return c
}

// Add stores obj, replacing any object of the same kind and identifier.
func (c *InfraCache) Add(obj domain.Object) {
	part, ok := c.objects[obj.GetType()]
	if !ok {
		part = make(map[string]domain.Object)
		c.objects[obj.GetType()] = part
	}
	part[obj.GetID()] = obj
}

// Insert stores obj and fails if its identifier is already taken.
func (c *InfraCache) Insert(obj domain.Object) error {
	if c.Contains(obj.GetType(), obj.GetID()) {
		return fmt.Errorf("%w: %s", ErrDuplicateObject, domain.RefOf(obj))
	}
	c.Add(obj)
	return nil
}

// Contains reports whether an object of kind objType with id is cached.
func (c *InfraCache) Contains(objType domain.ObjectType, id string) bool {
	_, ok := c.objects[objType][id]
	return ok
}

// Get returns the cached object referenced by ref.
func (c *InfraCache) Get(ref domain.ObjectRef) (domain.Object, bool) {
	obj, ok := c.objects[ref.Type][ref.ID]
	return obj, ok
}

// Len returns the number of cached objects of kind objType.
func (c *InfraCache) Len(objType domain.ObjectType) int {
	return len(c.objects[objType])
}

// TrackSection returns the track section with the given id.
func (c *InfraCache) TrackSection(id string) (domain.TrackSection, bool) {
	obj, ok := c.objects[domain.ObjectTypeTrackSection][id]
	if !ok {
		return domain.TrackSection{}, false
	}
	track, ok := obj.(domain.TrackSection)
	return track, ok
}

// TrackSections returns every cached track section.
func (c *InfraCache) TrackSections() []domain.TrackSection {
	return list[domain.TrackSection](c, domain.ObjectTypeTrackSection)
}

// Detectors returns every cached detector.
func (c *InfraCache) Detectors() []domain.Detector {
	return list[domain.Detector](c, domain.ObjectTypeDetector)
}

// Signals returns every cached signal.
func (c *InfraCache) Signals() []domain.Signal {
	return list[domain.Signal](c, domain.ObjectTypeSignal)
}

// BufferStops returns every cached buffer stop.
func (c *InfraCache) BufferStops() []domain.BufferStop {
	return list[domain.BufferStop](c, domain.ObjectTypeBufferStop)
}

// TrackSectionLinks returns every cached track section link.
func (c *InfraCache) TrackSectionLinks() []domain.TrackSectionLink {
	return list[domain.TrackSectionLink](c, domain.ObjectTypeTrackSectionLink)
}

func list[T domain.Object](c *InfraCache, objType domain.ObjectType) []T {
	part := c.objects[objType]
	ids := make([]string, 0, len(part))
	for id := range part {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if obj, ok := part[id].(T); ok {
			out = append(out, obj)
		}
	}
	return out
}
