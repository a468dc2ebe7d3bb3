package street

import (
	"sync"

	"github.com/travigo/planner/pkg/ctdf"
	"golang.org/x/exp/slices"
)

const NoStop = -1

// Edge is a street link. Distance is the estimated network distance in meters.
type Edge struct {
	From *Vertex
	To   *Vertex

	Distance float64
}

// Vertex is a point in the street graph. Edge lists are replaced, never modified, so a
// slice handed out by Outgoing or Incoming stays valid while other requests link and
// unlink temporary edges.
type Vertex struct {
	Label     string
	Location  *ctdf.Location
	StopIndex int

	mutex    sync.Mutex
	outgoing []*Edge
	incoming []*Edge
}

func NewVertex(label string, location *ctdf.Location, stopIndex int) *Vertex {
	return &Vertex{
		Label:     label,
		Location:  location,
		StopIndex: stopIndex,
	}
}

func (v *Vertex) IsStop() bool {
	return v.StopIndex != NoStop
}

func (v *Vertex) Outgoing() []*Edge {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.outgoing
}

func (v *Vertex) Incoming() []*Edge {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	return v.incoming
}

func (v *Vertex) AddOutgoing(edge *Edge) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.outgoing = appendEdge(v.outgoing, edge)
}

func (v *Vertex) AddIncoming(edge *Edge) {
	v.mutex.Lock()
	defer v.mutex.Unlock()
	v.incoming = appendEdge(v.incoming, edge)
}

func (v *Vertex) RemoveOutgoing(edge *Edge) bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	var removed bool
	v.outgoing, removed = removeEdge(v.outgoing, edge)
	return removed
}

func (v *Vertex) RemoveIncoming(edge *Edge) bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	var removed bool
	v.incoming, removed = removeEdge(v.incoming, edge)
	return removed
}

func appendEdge(edges []*Edge, edge *Edge) []*Edge {
	updated := make([]*Edge, len(edges), len(edges)+1)
	copy(updated, edges)
	return append(updated, edge)
}

func removeEdge(edges []*Edge, edge *Edge) ([]*Edge, bool) {
	position := slices.Index(edges, edge)
	if position < 0 {
		return edges, false
	}

	updated := make([]*Edge, 0, len(edges)-1)
	updated = append(updated, edges[:position]...)
	updated = append(updated, edges[position+1:]...)
	return updated, true
}

// Graph is the shared street side of the model: one vertex per stop and a spatial
// index used to link request locations into it
type Graph struct {
	stopVertices []*Vertex
	index        *StopIndex

	// DetourFactor scales straight line distance into an estimated street distance
	DetourFactor float64
}

func NewGraph(stops []*ctdf.Stop) *Graph {
	graph := &Graph{
		stopVertices: make([]*Vertex, len(stops)),
		index:        NewStopIndex(stops),
		DetourFactor: 1.3,
	}

	for i, stop := range stops {
		graph.stopVertices[i] = NewVertex(stop.PrimaryIdentifier, stop.Location, i)
	}

	return graph
}

func (g *Graph) StopVertex(stopIndex int) *Vertex {
	if stopIndex < 0 || stopIndex >= len(g.stopVertices) {
		return nil
	}
	return g.stopVertices[stopIndex]
}

func (g *Graph) Index() *StopIndex {
	return g.index
}
