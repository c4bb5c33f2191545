package topology

// PositionCount is the number of intersections on the board: three concentric
// squares of eight positions joined by four spokes.
const PositionCount = 24

// None marks a missing neighbor at a board edge or corner.
const None = -1

// Neighbors holds the directly connected positions of an intersection.
type Neighbors struct {
	Left  int
	Right int
	Up    int
	Down  int
}

// Line is an ordered triple of collinear positions.
type Line [3]int

// Topology is the static board graph. It is built once and shared read-only.
type Topology struct {
	neighbors [PositionCount]Neighbors
	lines     []Line
	byPos     [PositionCount][]Line
}

// Positions are numbered row by row from the top-left corner of the outer
// square down to the bottom-right corner:
//
//	0-----------1-----------2
//	|           |           |
//	|   3-------4-------5   |
//	|   |       |       |   |
//	|   |   6---7---8   |   |
//	|   |   |       |   |   |
//	9--10--11      12--13--14
//	|   |   |       |   |   |
//	|   |  15--16--17   |   |
//	|   |       |       |   |
//	|  18------19------20   |
//	|           |           |
//	21---------22----------23
var neighborTable = [PositionCount]Neighbors{
	0:  {Left: None, Right: 1, Up: None, Down: 9},
	1:  {Left: 0, Right: 2, Up: None, Down: 4},
	2:  {Left: 1, Right: None, Up: None, Down: 14},
	3:  {Left: None, Right: 4, Up: None, Down: 10},
	4:  {Left: 3, Right: 5, Up: 1, Down: 7},
	5:  {Left: 4, Right: None, Up: None, Down: 13},
	6:  {Left: None, Right: 7, Up: None, Down: 11},
	7:  {Left: 6, Right: 8, Up: 4, Down: None},
	8:  {Left: 7, Right: None, Up: None, Down: 12},
	9:  {Left: None, Right: 10, Up: 0, Down: 21},
	10: {Left: 9, Right: 11, Up: 3, Down: 18},
	11: {Left: 10, Right: None, Up: 6, Down: 15},
	12: {Left: None, Right: 13, Up: 8, Down: 17},
	13: {Left: 12, Right: 14, Up: 5, Down: 20},
	14: {Left: 13, Right: None, Up: 2, Down: 23},
	15: {Left: None, Right: 16, Up: 11, Down: None},
	16: {Left: 15, Right: 17, Up: None, Down: 19},
	17: {Left: 16, Right: None, Up: 12, Down: None},
	18: {Left: None, Right: 19, Up: 10, Down: None},
	19: {Left: 18, Right: 20, Up: 16, Down: 22},
	20: {Left: 19, Right: None, Up: 13, Down: None},
	21: {Left: None, Right: 22, Up: 9, Down: None},
	22: {Left: 21, Right: 23, Up: 19, Down: None},
	23: {Left: 22, Right: None, Up: 14, Down: None},
}

// The 16 mill lines: eight horizontal, eight vertical.
var lineTable = []Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{9, 10, 11},
	{12, 13, 14},
	{15, 16, 17},
	{18, 19, 20},
	{21, 22, 23},
	{0, 9, 21},
	{3, 10, 18},
	{6, 11, 15},
	{1, 4, 7},
	{16, 19, 22},
	{8, 12, 17},
	{5, 13, 20},
	{2, 14, 23},
}

// New builds the board graph and the per-position line index.
func New() *Topology {
	topo := &Topology{
		neighbors: neighborTable,
		lines:     lineTable,
	}

	for _, line := range topo.lines {
		for _, position := range line {
			topo.byPos[position] = append(topo.byPos[position], line)
		}
	}

	return topo
}

// Valid reports whether position is one of the 24 intersections.
func (that *Topology) Valid(position int) bool {
	return position >= 0 && position < PositionCount
}

// Neighbors returns the up/down/left/right neighbors of position.
func (that *Topology) Neighbors(position int) Neighbors {
	return that.neighbors[position]
}

// Adjacent reports whether two positions are directly connected.
func (that *Topology) Adjacent(from, to int) bool {
	if !that.Valid(from) || !that.Valid(to) {
		return false
	}

	neighbors := that.neighbors[from]

	return neighbors.Left == to || neighbors.Right == to || neighbors.Up == to || neighbors.Down == to
}

// Lines returns all 16 mill lines.
func (that *Topology) Lines() []Line {
	return that.lines
}

// LinesThrough returns the mill lines containing position. Every position
// lies on exactly one horizontal and one vertical line.
func (that *Topology) LinesThrough(position int) []Line {
	if !that.Valid(position) {
		return nil
	}

	return that.byPos[position]
}
