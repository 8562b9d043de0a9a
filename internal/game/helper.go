package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBoardLength = errors.New("board must have exactly 9 cells")
	ErrInvalidCell = errors.New("invalid cell value")
)

// Opponent returns the other player's mark. None has no opponent.
func Opponent(mark PlayerMark) PlayerMark {
	switch mark {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	}
	return None
}

// IsValidMark reports whether m can appear in a cell.
func IsValidMark(m PlayerMark) bool {
	return m == None || m == PlayerX || m == PlayerO
}

// ParseBoard reads a compact 9-character board such as "XX_O_____".
// Empty cells may be written as '_', '.' or '-'; marks are case-insensitive.
func ParseBoard(s string) (Board, error) {
	var b Board
	if len(s) != CellCount {
		return b, fmt.Errorf("%w: got %d", ErrBoardLength, len(s))
	}
	for i, ch := range strings.ToUpper(s) {
		switch ch {
		case 'X':
			b[i] = PlayerX
		case 'O':
			b[i] = PlayerO
		case '_', '.', '-':
			b[i] = None
		default:
			return Board{}, fmt.Errorf("%w: %q at index %d", ErrInvalidCell, ch, i)
		}
	}
	return b, nil
}

// String renders the board in the compact form accepted by ParseBoard.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(CellCount)
	for _, cell := range b {
		if cell == None {
			sb.WriteByte('_')
			continue
		}
		sb.WriteString(string(cell))
	}
	return sb.String()
}
