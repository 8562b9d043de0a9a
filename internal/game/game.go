package game

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board geometry
	Size      = 3
	CellCount = Size * Size
)

// Board is a row-major 3x3 grid: indices 0,1,2 are row 0, 3,4,5 row 1, 6,7,8 row 2.
type Board [CellCount]PlayerMark

// WinLines holds the 8 index triples that end the game when uniformly marked.
var WinLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// IsWinner reports whether mark occupies every cell of at least one winning line.
func IsWinner(board Board, mark PlayerMark) bool {
	if mark == None {
		return false
	}
	for _, line := range WinLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return true
		}
	}
	return false
}

// Winner returns the mark holding a completed line, or None.
func (b Board) Winner() PlayerMark {
	switch {
	case IsWinner(b, PlayerX):
		return PlayerX
	case IsWinner(b, PlayerO):
		return PlayerO
	}
	return None
}

// EmptyCells returns the legal moves in ascending index order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, CellCount)
	for i, cell := range b {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// IsFull reports whether no empty cell remains.
func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == None {
			return false
		}
	}
	return true
}

// Rows converts the board to a dynamic slice of rows.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, Size)
	for r := range Size {
		rows[r] = make([]PlayerMark, Size)
		copy(rows[r], b[r*Size:(r+1)*Size])
	}
	return rows
}

// BoardFromRows flattens a 3x3 slice view into a Board. Missing rows or
// columns are treated as empty cells.
func BoardFromRows(rows [][]PlayerMark) Board {
	var b Board
	for r := 0; r < Size && r < len(rows); r++ {
		for c := 0; c < Size && c < len(rows[r]); c++ {
			b[r*Size+c] = rows[r][c]
		}
	}
	return b
}

// Position maps a cell index to its (row, col) coordinates.
func Position(index int) (row, col int) {
	return index / Size, index % Size
}
