package street

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/ctdf"
)

// TemporaryVerticesContainer owns the origin and destination vertices of one request
// and the edges linking them to stops. Close unlinks everything from the shared graph
// and is safe to call more than once.
type TemporaryVerticesContainer struct {
	From *Vertex
	To   *Vertex

	linked    []*Edge
	closeOnce sync.Once
}

// NewTemporaryVerticesContainer links origin to stops within linkRadius meters (edges
// origin -> stop) and stops to destination (edges stop -> destination)
func NewTemporaryVerticesContainer(graph *Graph, from *ctdf.Location, to *ctdf.Location, linkRadius float64) *TemporaryVerticesContainer {
	container := &TemporaryVerticesContainer{
		From: NewVertex("origin", from, NoStop),
		To:   NewVertex("destination", to, NoStop),
	}

	if from != nil {
		for _, stop := range graph.Index().Within(from, linkRadius) {
			stopVertex := graph.StopVertex(stop.Index)
			if stopVertex == nil {
				continue
			}

			edge := &Edge{From: container.From, To: stopVertex, Distance: from.Distance(stop.Location) * graph.DetourFactor}
			container.From.AddOutgoing(edge)
			stopVertex.AddIncoming(edge)
			container.linked = append(container.linked, edge)
		}
	}

	if to != nil {
		for _, stop := range graph.Index().Within(to, linkRadius) {
			stopVertex := graph.StopVertex(stop.Index)
			if stopVertex == nil {
				continue
			}

			edge := &Edge{From: stopVertex, To: container.To, Distance: to.Distance(stop.Location) * graph.DetourFactor}
			stopVertex.AddOutgoing(edge)
			container.To.AddIncoming(edge)
			container.linked = append(container.linked, edge)
		}
	}

	log.Debug().Int("edges", len(container.linked)).Float64("radius", linkRadius).Msg("Linked temporary vertices")

	return container
}

func (c *TemporaryVerticesContainer) Close() {
	c.closeOnce.Do(func() {
		for _, edge := range c.linked {
			edge.From.RemoveOutgoing(edge)
			edge.To.RemoveIncoming(edge)
		}
		c.linked = nil
	})
}
