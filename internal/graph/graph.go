// Package graph derives track connectivity from an infrastructure cache.
package graph

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

// Graph is the endpoint adjacency of an infrastructure. It is immutable once
// built and may be shared between goroutines.
type Graph struct {
	links      map[domain.TrackEndpoint][]domain.TrackEndpoint
	trackIndex map[string]uint32
	tracks     []string
	linkCount  int
	// adjacency of track indices, one bitmap per track
	reach []*roaring.Bitmap
}

// Load builds the graph of cache. Links touching a track that is not cached
// are left out; they are reported by the link checkers instead.
func Load(cache *infracache.InfraCache) *Graph {
	sections := cache.TrackSections()
	g := &Graph{
		links:      make(map[domain.TrackEndpoint][]domain.TrackEndpoint),
		trackIndex: make(map[string]uint32, len(sections)),
		tracks:     make([]string, 0, len(sections)),
		reach:      make([]*roaring.Bitmap, 0, len(sections)),
	}
	for i, track := range sections {
		g.trackIndex[track.ID] = uint32(i)
		g.tracks = append(g.tracks, track.ID)
		g.reach = append(g.reach, roaring.New())
	}
	for _, link := range cache.TrackSectionLinks() {
		src, okSrc := g.trackIndex[link.Src.Track]
		dst, okDst := g.trackIndex[link.Dst.Track]
		if !okSrc || !okDst {
			continue
		}
		g.links[link.Src] = append(g.links[link.Src], link.Dst)
		g.links[link.Dst] = append(g.links[link.Dst], link.Src)
		g.reach[src].Add(dst)
		g.reach[dst].Add(src)
		g.linkCount++
	}
	return g
}

// Neighbours returns the endpoints linked to ep.
func (g *Graph) Neighbours(ep domain.TrackEndpoint) []domain.TrackEndpoint {
	out := append([]domain.TrackEndpoint(nil), g.links[ep]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Track != out[j].Track {
			return out[i].Track < out[j].Track
		}
		return out[i].Endpoint < out[j].Endpoint
	})
	return out
}

// HasTrack reports whether track is a node of the graph.
func (g *Graph) HasTrack(track string) bool {
	_, ok := g.trackIndex[track]
	return ok
}

// ConnectedTracks returns the sorted ids of every track reachable from track
// through links, track included. Unknown tracks yield nil.
func (g *Graph) ConnectedTracks(track string) []string {
	start, ok := g.trackIndex[track]
	if !ok {
		return nil
	}
	visited := g.component(start)
	out := make([]string, 0, visited.GetCardinality())
	it := visited.Iterator()
	for it.HasNext() {
		out = append(out, g.tracks[it.Next()])
	}
	sort.Strings(out)
	return out
}

// Components returns the number of connected groups of tracks.
func (g *Graph) Components() int {
	seen := roaring.New()
	count := 0
	for i := range g.tracks {
		idx := uint32(i)
		if seen.Contains(idx) {
			continue
		}
		seen.Or(g.component(idx))
		count++
	}
	return count
}

// Summary describes the shape of a track network.
type Summary struct {
	Tracks     int `json:"tracks"`
	Links      int `json:"links"`
	Components int `json:"components"`
	// tracks with no usable link at either end
	IsolatedTracks []string `json:"isolated_tracks,omitempty"`
	// endpoints linked to more than one other endpoint
	Branches []domain.TrackEndpoint `json:"branches,omitempty"`
}

// Summary computes the network summary of g. Links with a dangling track are
// not counted.
func (g *Graph) Summary() Summary {
	s := Summary{
		Tracks:     len(g.tracks),
		Links:      g.linkCount,
		Components: g.Components(),
	}
	for _, track := range g.tracks {
		if len(g.ConnectedTracks(track)) == 1 {
			s.IsolatedTracks = append(s.IsolatedTracks, track)
		}
		for _, end := range []domain.Endpoint{domain.EndpointBegin, domain.EndpointEnd} {
			ep := domain.TrackEndpoint{Endpoint: end, Track: track}
			if len(g.Neighbours(ep)) > 1 {
				s.Branches = append(s.Branches, ep)
			}
		}
	}
	return s
}

func (g *Graph) component(start uint32) *roaring.Bitmap {
	visited := roaring.BitmapOf(start)
	frontier := roaring.BitmapOf(start)
	for !frontier.IsEmpty() {
		next := roaring.New()
		it := frontier.Iterator()
		for it.HasNext() {
			next.Or(g.reach[it.Next()])
		}
		next.AndNot(visited)
		visited.Or(next)
		frontier = next
	}
	return visited
}
