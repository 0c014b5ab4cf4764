// Package cellular provides a binary cellular automaton for cave-style map
// generation.
package cellular

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

// Callback receives one cell of the automaton grid.
type Callback func(x, y, value int)

// Default rule set. A live cell survives with 4-8 live neighbours and a dead
// cell is born with 5-8.
var (
	defaultBorn    = []int{5, 6, 7, 8}
	defaultSurvive = []int{4, 5, 6, 7, 8}
)

// Squared distance below which a bridge candidate is accepted immediately.
const (
	bridgeProbes      = 5
	bridgeMaxDistance = 64
)

// Automaton is a width x height grid of 0/1 cells.
type Automaton struct {
	width, height int
	cells         [][]int // indexed [x][y]
	born          [9]bool
	survive       [9]bool
	rng           *rand.Rand
}

// New creates an automaton with the default born/survive rules.
func New(width, height int, rng *rand.Rand) *Automaton {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	a := &Automaton{
		width:  width,
		height: height,
		cells:  newCells(width, height),
		rng:    rng,
	}
	a.SetRules(defaultBorn, defaultSurvive)
	return a
}

// SetRules replaces the neighbour counts that give birth to or keep alive a cell.
// Counts outside 0-8 are ignored.
func (a *Automaton) SetRules(born, survive []int) {
	a.born = [9]bool{}
	a.survive = [9]bool{}
	for _, n := range born {
		if n >= 0 && n < len(a.born) {
			a.born[n] = true
		}
	}
	for _, n := range survive {
		if n >= 0 && n < len(a.survive) {
			a.survive[n] = true
		}
	}
}

// Size returns the grid dimensions.
func (a *Automaton) Size() (width, height int) {
	return a.width, a.height
}

// Get returns the value at (x, y), or 0 outside the grid.
func (a *Automaton) Get(x, y int) int {
	if !a.inBounds(x, y) {
		return 0
	}
	return a.cells[x][y]
}

// Set writes the value at (x, y). Writes outside the grid are dropped.
func (a *Automaton) Set(x, y, value int) {
	if a.inBounds(x, y) {
		a.cells[x][y] = value
	}
}

// Randomize fills every cell with 1 at the given probability and 0 otherwise.
func (a *Automaton) Randomize(probability float64) {
	for x := 0; x < a.width; x++ {
		for y := 0; y < a.height; y++ {
			if a.rng.Float64() < probability {
				a.cells[x][y] = 1
			} else {
				a.cells[x][y] = 0
			}
		}
	}
}

// Create advances the automaton by one generation and reports every cell to cb.
func (a *Automaton) Create(cb Callback) {
	next := newCells(a.width, a.height)
	for y := 0; y < a.height; y++ {
		for x := 0; x < a.width; x++ {
			n := a.liveNeighbours(x, y)
			if a.cells[x][y] != 0 {
				if a.survive[n] {
					next[x][y] = 1
				}
			} else if a.born[n] {
				next[x][y] = 1
			}
		}
	}
	a.cells = next
	a.emit(cb)
}

// Connect carves tunnels so that every cell equal to value ends up in a single
// 4-connected region, then reports every cell to cb.
func (a *Automaton) Connect(cb Callback, value int) {
	free := a.freeCells(value)
	if len(free) > 0 {
		a.connect(free, value)
	}
	a.emit(cb)
}

func (a *Automaton) connect(free []point, value int) {
	connected := newPointSet()
	pending := newPointSet()
	for _, p := range free {
		pending.add(p)
	}

	start := free[a.rng.Intn(len(free))]
	connected.add(start)
	pending.remove(start)
	a.flood(connected, pending, start, false, value)

	for pending.size() > 0 {
		from, to := a.bridge(connected, pending)

		region := newPointSet()
		region.add(from)
		a.flood(region, pending, from, true, value)

		a.tunnel(from, to, connected, pending, value)

		for _, p := range region.items() {
			a.cells[p.x][p.y] = value
			connected.add(p)
			pending.remove(p)
		}
	}
}

// flood grows set with every free cell 4-reachable from origin. Unless keep is
// set, claimed cells are also dropped from pending.
func (a *Automaton) flood(set, pending *pointSet, origin point, keep bool, value int) {
	queue := []point{origin}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, n := range p.neighbours() {
			if set.has(n) || !a.isFree(n, value) {
				continue
			}
			set.add(n)
			if !keep {
				pending.remove(n)
			}
			queue = append(queue, n)
		}
	}
}

// bridge picks an unconnected cell and a connected cell to join, probing from
// whichever set is smaller.
func (a *Automaton) bridge(connected, pending *pointSet) (from, to point) {
	for i := 0; i < bridgeProbes; i++ {
		if connected.size() < pending.size() {
			candidates := connected.items()
			to = candidates[a.rng.Intn(len(candidates))]
			from = closest(to, pending.items())
		} else {
			candidates := pending.items()
			from = candidates[a.rng.Intn(len(candidates))]
			to = closest(from, connected.items())
		}
		if from.distance2(to) < bridgeMaxDistance {
			break
		}
	}
	return from, to
}

// tunnel carves an L-shaped corridor: along from's row to to's column, then
// along that column to to's row.
func (a *Automaton) tunnel(from, to point, connected, pending *pointSet, value int) {
	carve := func(x, y int) {
		a.cells[x][y] = value
		p := point{x, y}
		connected.add(p)
		pending.remove(p)
	}

	for x := min(from.x, to.x); x <= max(from.x, to.x); x++ {
		carve(x, from.y)
	}
	for y := min(from.y, to.y); y <= max(from.y, to.y); y++ {
		carve(to.x, y)
	}
}

func (a *Automaton) freeCells(value int) []point {
	var free []point
	for y := 0; y < a.height; y++ {
		for x := 0; x < a.width; x++ {
			if a.cells[x][y] == value {
				free = append(free, point{x, y})
			}
		}
	}
	return free
}

func (a *Automaton) isFree(p point, value int) bool {
	return a.inBounds(p.x, p.y) && a.cells[p.x][p.y] == value
}

func (a *Automaton) liveNeighbours(x, y int) int {
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if a.Get(x+dx, y+dy) == 1 {
				count++
			}
		}
	}
	return count
}

func (a *Automaton) inBounds(x, y int) bool {
	return x >= 0 && x < a.width && y >= 0 && y < a.height
}

// emit reports the grid row by row.
func (a *Automaton) emit(cb Callback) {
	if cb == nil {
		return
	}
	for y := 0; y < a.height; y++ {
		for x := 0; x < a.width; x++ {
			cb(x, y, a.cells[x][y])
		}
	}
}

func newCells(width, height int) [][]int {
	cells := make([][]int, width)
	for x := range cells {
		cells[x] = make([]int, height)
	}
	return cells
}

type point struct {
	x, y int
}

func (p point) neighbours() [4]point {
	return [4]point{{p.x + 1, p.y}, {p.x - 1, p.y}, {p.x, p.y + 1}, {p.x, p.y - 1}}
}

func (p point) distance2(o point) int {
	dx, dy := p.x-o.x, p.y-o.y
	return dx*dx + dy*dy
}

// closest returns the candidate nearest to p; ties go to the earliest.
func closest(p point, candidates []point) point {
	best := candidates[0]
	bestDist := p.distance2(best)
	for _, c := range candidates[1:] {
		if d := p.distance2(c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// pointSet is a set that remembers insertion order, so random picks driven by a
// seeded RNG are reproducible.
type pointSet struct {
	members mapset.Set[point]
	order   []point
}

func newPointSet() *pointSet {
	return &pointSet{members: mapset.New[point]()}
}

func (s *pointSet) add(p point) {
	if s.members.Has(p) {
		return
	}
	s.members.Put(p)
	s.order = append(s.order, p)
}

func (s *pointSet) has(p point) bool {
	return s.members.Has(p)
}

func (s *pointSet) remove(p point) {
	s.members.Remove(p)
}

func (s *pointSet) size() int {
	return s.members.Size()
}

// items returns the live members in insertion order.
func (s *pointSet) items() []point {
	if len(s.order) == s.members.Size() {
		return s.order
	}
	live := s.order[:0]
	for _, p := range s.order {
		if s.members.Has(p) {
			live = append(live, p)
		}
	}
	s.order = live
	return s.order
}
