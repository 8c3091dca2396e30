package infracache

import "infracheck/pkg/domain"

// NewSmallInfraCache returns a small valid infrastructure used across tests:
// four 500m tracks A, B, C, D where A continues into B and B diverges into C
// and D, with one detector, signal and buffer stop placed in range.
func NewSmallInfraCache() *InfraCache {
	c := New()
	for _, id := range []string{"A", "B", "C", "D"} {
		c.Add(domain.TrackSection{ID: id, Length: 500})
	}
	c.Add(NewLink("link_ab", "A", domain.EndpointEnd, "B", domain.EndpointBegin))
	c.Add(NewLink("link_bc", "B", domain.EndpointEnd, "C", domain.EndpointBegin))
	c.Add(NewLink("link_bd", "B", domain.EndpointEnd, "D", domain.EndpointBegin))
	c.Add(NewDetector("D1", "A", 250))
	c.Add(domain.Signal{ID: "S1", Track: "B", Position: 400})
	c.Add(domain.BufferStop{ID: "BF1", Track: "A", Position: 0})
	return c
}

// NewDetector builds a detector on track at position.
func NewDetector(id, track string, position float64) domain.Detector {
	return domain.Detector{ID: id, Track: track, Position: position}
}

// NewLink builds a link from srcTrack's srcEnd to dstTrack's dstEnd.
func NewLink(id, srcTrack string, srcEnd domain.Endpoint, dstTrack string, dstEnd domain.Endpoint) domain.TrackSectionLink {
	return domain.TrackSectionLink{
		ID:  id,
		Src: domain.TrackEndpoint{Endpoint: srcEnd, Track: srcTrack},
		Dst: domain.TrackEndpoint{Endpoint: dstEnd, Track: dstTrack},
	}
}
