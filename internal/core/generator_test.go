package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracheck/internal/graph"
	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

func manyDetectors(n int) *infracache.InfraCache {
	cache := infracache.NewSmallInfraCache()
	tracks := []string{"A", "B", "missing", "C"}
	for i := 0; i < n; i++ {
		cache.Add(infracache.NewDetector(fmt.Sprintf("det%03d", i), tracks[i%len(tracks)], float64(i*37%700)))
	}
	return cache
}

func TestParallelMatchesSequential(t *testing.T) {
	cache := manyDetectors(200)
	g := graph.Load(cache)
	seq := GenerateErrors(cache.Detectors(), DetectorRules, cache, g)
	require.NotEmpty(t, seq)
	for _, workers := range []int{0, 1, 2, 8, 64} {
		par := GenerateErrorsParallel(cache.Detectors(), DetectorRules, cache, g, workers)
		assert.Equal(t, seq, par, "workers=%d", workers)
	}
}

func TestGeneratedErrorsAreBoundedAndOrdered(t *testing.T) {
	cache := manyDetectors(50)
	g := graph.Load(cache)
	detectors := cache.Detectors()
	errs := GenerateErrors(detectors, DetectorRules, cache, g)
	assert.LessOrEqual(t, len(errs), len(detectors)*DetectorRules.Len())

	index := make(map[string]int, len(detectors))
	for i, d := range detectors {
		index[d.ID] = i
	}
	for i := 1; i < len(errs); i++ {
		assert.LessOrEqual(t, index[errs[i-1].ObjID], index[errs[i].ObjID])
	}
	for _, e := range errs {
		assert.Equal(t, domain.ObjectTypeDetector, e.ObjType)
		assert.Contains(t, index, e.ObjID)
	}
}

func TestGeneratorsOrder(t *testing.T) {
	var kinds []domain.ObjectType
	for _, gen := range Generators() {
		kinds = append(kinds, gen.Kind())
	}
	assert.Equal(t, []domain.ObjectType{
		domain.ObjectTypeTrackSectionLink,
		domain.ObjectTypeDetector,
		domain.ObjectTypeSignal,
		domain.ObjectTypeBufferStop,
	}, kinds)
}

func TestGenerateWithoutObjects(t *testing.T) {
	cache := infracache.New()
	assert.Empty(t, GenerateDetectorErrors(cache))
}
