package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracheck/internal/graph"
	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

func always(field string) Checker[domain.Detector] {
	return func(d domain.Detector, _ *infracache.InfraCache, _ *graph.Graph) []domain.InfraError {
		return []domain.InfraError{domain.NewInvalidReference(d, field, domain.NewObjectRef(domain.ObjectTypeTrackSection, "x"))}
	}
}

func never(domain.Detector, *infracache.InfraCache, *graph.Graph) []domain.InfraError { return nil }

func TestRegisterPanicsOnMisuse(t *testing.T) {
	assert.Panics(t, func() {
		NewRegistry[domain.Detector](domain.ObjectTypeDetector).Register("a", nil)
	})
	assert.Panics(t, func() {
		NewRegistry[domain.Detector](domain.ObjectTypeDetector).Register("a", never).Register("a", never)
	})
	assert.Panics(t, func() {
		NewRegistry[domain.Detector](domain.ObjectTypeDetector).Register("b", never, "a")
	})
}

func TestRegistryKeepsOrder(t *testing.T) {
	r := NewRegistry[domain.Detector](domain.ObjectTypeDetector).
		Register("first", always("f1")).
		Register("second", always("f2"))
	assert.Equal(t, domain.ObjectTypeDetector, r.Kind())
	assert.Equal(t, 2, r.Len())
	rules := r.Rules()
	assert.Equal(t, "first", rules[0].Name)
	assert.Equal(t, "second", rules[1].Name)

	cache := infracache.New()
	errs := GenerateErrors([]domain.Detector{{ID: "a"}, {ID: "b"}}, r, cache, graph.Load(cache))
	require.Len(t, errs, 4)
	got := make([]string, len(errs))
	for i, e := range errs {
		got[i] = e.ObjID + "/" + e.Field
	}
	assert.Equal(t, []string{"a/f1", "a/f2", "b/f1", "b/f2"}, got)
}

func TestDependentRuleSkippedWhenDependencyFires(t *testing.T) {
	calls := 0
	counting := func(domain.Detector, *infracache.InfraCache, *graph.Graph) []domain.InfraError {
		calls++
		return nil
	}
	cache := infracache.New()
	g := graph.Load(cache)

	blocking := NewRegistry[domain.Detector](domain.ObjectTypeDetector).
		Register("ref", always("track")).
		Register("pos", counting, "ref")
	assert.Len(t, GenerateErrors([]domain.Detector{{ID: "d"}}, blocking, cache, g), 1)
	assert.Zero(t, calls)

	passing := NewRegistry[domain.Detector](domain.ObjectTypeDetector).
		Register("ref", never).
		Register("pos", counting, "ref")
	assert.Empty(t, GenerateErrors([]domain.Detector{{ID: "d"}}, passing, cache, g))
	assert.Equal(t, 1, calls)
}

func TestRulesReturnsCopy(t *testing.T) {
	r := NewRegistry[domain.Detector](domain.ObjectTypeDetector).Register("a", never)
	rules := r.Rules()
	rules[0].Name = "mutated"
	assert.Equal(t, "a", r.Rules()[0].Name)
}
