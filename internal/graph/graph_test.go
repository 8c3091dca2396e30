package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

func TestLoadSmallInfra(t *testing.T) {
	g := Load(infracache.NewSmallInfraCache())

	bEnd := domain.TrackEndpoint{Endpoint: domain.EndpointEnd, Track: "B"}
	assert.Equal(t, []domain.TrackEndpoint{
		{Endpoint: domain.EndpointBegin, Track: "C"},
		{Endpoint: domain.EndpointBegin, Track: "D"},
	}, g.Neighbours(bEnd))

	assert.Empty(t, g.Neighbours(domain.TrackEndpoint{Endpoint: domain.EndpointBegin, Track: "A"}))
	assert.Equal(t, []string{"A", "B", "C", "D"}, g.ConnectedTracks("C"))
	assert.Equal(t, 1, g.Components())
}

func TestLoadSkipsDanglingLinks(t *testing.T) {
	c := infracache.New()
	c.Add(domain.TrackSection{ID: "A", Length: 10})
	c.Add(domain.TrackSection{ID: "B", Length: 10})
	c.Add(infracache.NewLink("L1", "A", domain.EndpointEnd, "E", domain.EndpointBegin))

	g := Load(c)
	assert.Empty(t, g.Neighbours(domain.TrackEndpoint{Endpoint: domain.EndpointEnd, Track: "A"}))
	assert.Equal(t, []string{"A"}, g.ConnectedTracks("A"))
	assert.Equal(t, 2, g.Components())
	assert.False(t, g.HasTrack("E"))
	assert.Nil(t, g.ConnectedTracks("E"))
}

func TestEmptyGraph(t *testing.T) {
	g := Load(infracache.New())
	assert.Equal(t, 0, g.Components())
}

func TestSummarySmallInfra(t *testing.T) {
	s := Load(infracache.NewSmallInfraCache()).Summary()
	assert.Equal(t, Summary{
		Tracks:     4,
		Links:      3,
		Components: 1,
		Branches:   []domain.TrackEndpoint{{Endpoint: domain.EndpointEnd, Track: "B"}},
	}, s)
}

func TestSummaryReportsIsolatedTracks(t *testing.T) {
	c := infracache.NewSmallInfraCache()
	c.Add(domain.TrackSection{ID: "E", Length: 100})
	c.Add(domain.TrackSection{ID: "F", Length: 100})
	c.Add(infracache.NewLink("link_fq", "F", domain.EndpointEnd, "Q", domain.EndpointBegin))

	s := Load(c).Summary()
	assert.Equal(t, 6, s.Tracks)
	assert.Equal(t, 3, s.Links)
	assert.Equal(t, 3, s.Components)
	assert.Equal(t, []string{"E", "F"}, s.IsolatedTracks)
}

func TestSummaryEmptyGraph(t *testing.T) {
	assert.Equal(t, Summary{}, Load(infracache.New()).Summary())
}
