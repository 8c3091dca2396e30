package core

import (
	"infracheck/internal/graph"
	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

const (
	ruleInvalidReference = "invalid_reference"
	ruleOutOfRange       = "out_of_range"
)

// DetectorRules validates detectors: the track must exist, then the position
// must lie on it.
var DetectorRules = NewRegistry[domain.Detector](domain.ObjectTypeDetector).
	Register(ruleInvalidReference, CheckDetectorInvalidReference).
	Register(ruleOutOfRange, CheckDetectorOutOfRange, ruleInvalidReference)

var (
	detectorTrackRef = InvalidReference("track", domain.ObjectTypeTrackSection, func(d domain.Detector) string { return d.Track })
	detectorPosition = OutOfRange("position",
		func(d domain.Detector) string { return d.Track },
		func(d domain.Detector) float64 { return d.Position },
	)
)

// CheckDetectorInvalidReference reports a detector whose track is not cached.
func CheckDetectorInvalidReference(d domain.Detector, cache *infracache.InfraCache, g *graph.Graph) []domain.InfraError {
	return detectorTrackRef(d, cache, g)
}

// CheckDetectorOutOfRange reports a detector positioned outside its track.
func CheckDetectorOutOfRange(d domain.Detector, cache *infracache.InfraCache, g *graph.Graph) []domain.InfraError {
	return detectorPosition(d, cache, g)
}

// GenerateDetectorErrors applies DetectorRules to every cached detector.
func GenerateDetectorErrors(cache *infracache.InfraCache) []domain.InfraError {
	return GenerateErrors(cache.Detectors(), DetectorRules, cache, graph.Load(cache))
}
