package nav

import (
	"container/heap"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/mazebot/internal/core"
)

// Plan is the outcome of a search.
type Plan struct {
	Steps    []Step
	Found    bool
	Expanded int // routes expanded before the search settled
}

// Len returns the number of commands in the plan.
func (p Plan) Len() int {
	return len(p.Steps)
}

// Destination returns the pose reached after the last step, or start when the
// plan is empty.
func (p Plan) Destination(start core.Pose) core.Pose {
	if len(p.Steps) == 0 {
		return start
	}
	return p.Steps[len(p.Steps)-1].Pose
}

// SearchOption configures a Searcher.
type SearchOption func(*Searcher)

// WithMaxMove overrides the number of cells a single command may cover.
func WithMaxMove(n int) SearchOption {
	return func(s *Searcher) {
		if n > 0 {
			s.maxMove = n
		}
	}
}

// Searcher runs route-forking searches over a learned map. It reads wall
// bits from the map and owns its own SearchTable, which every call resets.
type Searcher struct {
	m       *GridMap
	table   *SearchTable
	maxMove int
}

// NewSearcher creates a searcher bound to m.
func NewSearcher(m *GridMap, opts ...SearchOption) *Searcher {
	s := &Searcher{
		m:       m,
		table:   NewSearchTable(m.Dim()),
		maxMove: MaxMove,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table exposes the cost table of the most recent search.
func (s *Searcher) Table() *SearchTable {
	return s.table
}

// Search finds the cheapest command sequence from start to any cell in
// targets, counting one unit per command.
//
// Open routes are expanded lowest f first (ties: lower h, then older route).
// f is the commands used so far plus a lower bound on the commands still
// needed, which lets the pending run coast for free. At each expansion the
// first passable, non-closed neighbour extends the route in place and every
// further one extends a clone of the pre-expansion route. Closure is kept per
// cell and pending run, since two routes ending in the same cell can still
// differ in cost. The search stops once a route has reached a target and no
// open route has a strictly lower f; among the goal routes the one with the
// fewest commands wins, the earliest found on ties.
func (s *Searcher) Search(start core.Pose, targets []core.Cell) Plan {
	s.table.Reset()

	goals := mapset.New[core.Cell]()
	for _, t := range targets {
		goals.Put(t)
	}
	if goals.Has(start.Cell) {
		return Plan{Found: true}
	}

	h := GenerateHeuristic(s.m.Dim(), targets, s.maxMove)

	root := newRoute(start)
	root.F = h.At(start.Cell)
	s.table.Set(start.Cell, CostRecord{G: 0, H: root.F, F: root.F, Status: Closed})

	open := &routeQueue{}
	open.add(root, root.F)
	closed := mapset.New[routeKey]()

	var best *Route
	expanded := 0
	for open.Len() > 0 {
		if best != nil && open.peek().route.F >= best.F {
			break
		}
		cur := heap.Pop(open).(*queuedRoute).route
		if closed.Has(cur.key()) {
			continue
		}
		closed.Put(cur.key())
		expanded++

		from := cur.Cell()
		base := cur.clone()
		fork := 0
		for _, d := range core.Directions {
			if !s.m.IsOpen(from, d) {
				continue
			}
			if closed.Has(base.keyAfter(d, s.maxMove)) {
				continue
			}
			next := from.Next(d)
			fork++

			r := cur
			if fork > 1 {
				r = base.clone()
			}
			r.extend(d, s.maxMove)
			hn := h.At(next)
			hb := s.bound(h, r)
			r.F = r.G + hb

			if rec := s.table.At(next); rec.Status != Closed && (rec.Status == Unseen || r.G < rec.G) {
				s.table.Set(next, CostRecord{G: r.G, H: hn, F: r.F, Status: Open})
			}

			if goals.Has(next) {
				r.flush()
				r.Status = RouteGoal
				r.F = r.G
				if best == nil || r.G < best.G {
					best = r
				}
				continue
			}
			open.add(r, hb)
		}
		// fork == 0: dead end, the route is simply not re-queued.
		s.table.Close(from)
	}

	if best == nil {
		return Plan{Expanded: expanded}
	}
	return Plan{Steps: best.Steps, Found: true, Expanded: expanded}
}

// bound is a lower bound on the commands r still needs. G already pays for
// the pending run, so any cell the run can still coast into counts with its
// own heuristic.
func (s *Searcher) bound(h Heuristic, r *Route) int {
	c := r.Cell()
	best := h.At(c)
	if !r.active {
		return best
	}
	for k := r.pending.length; k < s.maxMove && s.m.IsOpen(c, r.pending.dir); k++ {
		c = c.Next(r.pending.dir)
		best = min(best, h.At(c))
	}
	return best
}

// Search is a convenience wrapper that runs a one-off search on m.
func Search(m *GridMap, start core.Pose, targets []core.Cell, opts ...SearchOption) Plan {
	return NewSearcher(m, opts...).Search(start, targets)
}

type queuedRoute struct {
	route *Route
	h     int
	seq   int
	index int
}

// routeQueue orders open routes by f, then h, then insertion order.
type routeQueue struct {
	items []*queuedRoute
	seq   int
}

func (q *routeQueue) add(r *Route, h int) {
	q.seq++
	heap.Push(q, &queuedRoute{route: r, h: h, seq: q.seq})
}

func (q *routeQueue) peek() *queuedRoute {
	return q.items[0]
}

func (q routeQueue) Len() int { return len(q.items) }

func (q routeQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.route.F != b.route.F {
		return a.route.F < b.route.F
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

func (q routeQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *routeQueue) Push(x any) {
	item := x.(*queuedRoute)
	item.index = len(q.items)
	q.items = append(q.items, item)
}

func (q *routeQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return item
}
