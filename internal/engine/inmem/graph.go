package inmem

import (
	"container/heap"
	"math"
	"slices"

	"github.com/venuenav/backend/pkg/utils"
)

// node is one vertex of the walk graph, pinned to a floor
type node struct {
	ID      string
	Lat     float64
	Lng     float64
	FloorID string
}

// edge connects two nodes; distance is in meters
type edge struct {
	From string
	To   string
	Dist float64
}

// graph is the walkable network of the venue, built from walkway and
// connector features at load time
type graph struct {
	nodes map[string]*node
	adj   map[string][]*edge
}

func newGraph() *graph {
	return &graph{
		nodes: make(map[string]*node),
		adj:   make(map[string][]*edge),
	}
}

// addNode registers a vertex, returning the existing one if the id is taken
func (g *graph) addNode(n *node) *node {
	if existing, ok := g.nodes[n.ID]; ok {
		return existing
	}
	g.nodes[n.ID] = n
	return n
}

// addEdge links two nodes in both directions. A zero dist is computed from
// the node coordinates.
func (g *graph) addEdge(fromID, toID string, dist float64) {
	from := g.nodes[fromID]
	to := g.nodes[toID]
	if from == nil || to == nil {
		return
	}
	if dist == 0 {
		dist = utils.Haversine(from.Lat, from.Lng, to.Lat, to.Lng)
	}
	g.adj[fromID] = append(g.adj[fromID], &edge{From: fromID, To: toID, Dist: dist})
	g.adj[toID] = append(g.adj[toID], &edge{From: toID, To: fromID, Dist: dist})
}

// nearestNode finds the closest node to a coordinate, preferring the given
// floor and falling back to the whole graph when the floor has no nodes
func (g *graph) nearestNode(lat, lng float64, floorID string) (*node, float64) {
	best, bestDist := g.nearestOn(lat, lng, floorID)
	if best == nil && floorID != "" {
		best, bestDist = g.nearestOn(lat, lng, "")
	}
	return best, bestDist
}

func (g *graph) nearestOn(lat, lng float64, floorID string) (*node, float64) {
	var nearest *node
	minDist := -1.0
	for _, n := range g.nodes {
		if floorID != "" && n.FloorID != floorID {
			continue
		}
		dist := utils.Haversine(lat, lng, n.Lat, n.Lng)
		if minDist < 0 || dist < minDist {
			minDist = dist
			nearest = n
		}
	}
	return nearest, minDist
}

// pathResult is the outcome of a shortest-path query
type pathResult struct {
	Path     []string
	Distance float64
	Found    bool
}

// pqItem is an element of the priority queue
type pqItem struct {
	nodeID string
	cost   float64
	index  int
}

// priorityQueue implements heap.Interface
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].cost < pq[j].cost
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*pqItem)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

// shortestPath runs Dijkstra between two node ids
func (g *graph) shortestPath(startID, endID string) pathResult {
	if g.nodes[startID] == nil || g.nodes[endID] == nil {
		return pathResult{Found: false}
	}

	dist := make(map[string]float64)
	prev := make(map[string]string)
	visited := make(map[string]bool)

	for id := range g.nodes {
		dist[id] = math.Inf(1)
	}
	dist[startID] = 0

	pq := make(priorityQueue, 0)
	heap.Init(&pq)
	heap.Push(&pq, &pqItem{nodeID: startID, cost: 0})

	for pq.Len() > 0 {
		current := heap.Pop(&pq).(*pqItem)
		currentID := current.nodeID

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		if currentID == endID {
			break
		}

		for _, e := range g.adj[currentID] {
			newCost := dist[currentID] + e.Dist
			if newCost < dist[e.To] {
				dist[e.To] = newCost
				prev[e.To] = currentID
				heap.Push(&pq, &pqItem{nodeID: e.To, cost: newCost})
			}
		}
	}

	if math.IsInf(dist[endID], 1) {
		return pathResult{Found: false}
	}

	path := []string{}
	for at := endID; at != ""; at = prev[at] {
		path = append(path, at)
		if at == startID {
			break
		}
	}
	slices.Reverse(path)

	return pathResult{Path: path, Distance: dist[endID], Found: true}
}
