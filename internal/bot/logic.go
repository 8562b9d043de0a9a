package bot

import (
	"time"

	"ctchen222/tictactoe-bot/internal/game"
)

const (
	// NoMove marks a terminal search node or a board without legal moves.
	NoMove = -1

	ScoreWin  = 10
	ScoreDraw = 0
	ScoreLoss = -10
)

// Move is a candidate cell together with its minimax score, seen from the
// automated player's side.
type Move struct {
	Index int
	Score int
}

// SearchStats captures how much of the game tree one search visited.
type SearchStats struct {
	Nodes    int
	Duration time.Duration
}

// Search runs an exhaustive minimax from board with toMove about to act and
// returns the best move for toMove. Ties go to the lowest cell index.
// The caller's board is never modified.
func Search(board game.Board, ai, toMove game.PlayerMark) Move {
	move, _ := searchWithStats(board, ai, toMove)
	return move
}

func searchWithStats(board game.Board, ai, toMove game.PlayerMark) (Move, SearchStats) {
	start := time.Now()
	s := &searcher{
		board:    board,
		ai:       ai,
		opponent: game.Opponent(ai),
	}
	move := s.minimax(toMove)
	return move, SearchStats{Nodes: s.nodes, Duration: time.Since(start)}
}

// searcher owns the working copy of the board for a single top-level search.
type searcher struct {
	board    game.Board
	ai       game.PlayerMark
	opponent game.PlayerMark
	nodes    int
}

func (s *searcher) minimax(toMove game.PlayerMark) Move {
	s.nodes++

	// Order matters: an opponent line outranks our own on a malformed board.
	if game.IsWinner(s.board, s.opponent) {
		return Move{Index: NoMove, Score: ScoreLoss}
	}
	if game.IsWinner(s.board, s.ai) {
		return Move{Index: NoMove, Score: ScoreWin}
	}
	if s.board.IsFull() {
		return Move{Index: NoMove, Score: ScoreDraw}
	}

	maximizing := toMove == s.ai
	best := Move{Index: NoMove}
	for i, cell := range s.board {
		if cell != game.None {
			continue
		}
		score := s.try(i, toMove)
		if best.Index == NoMove ||
			(maximizing && score > best.Score) ||
			(!maximizing && score < best.Score) {
			best = Move{Index: i, Score: score}
		}
	}
	return best
}

// try places mark at index, scores the resulting position and always
// restores the cell before returning.
func (s *searcher) try(index int, mark game.PlayerMark) int {
	s.board[index] = mark
	defer func() { s.board[index] = game.None }()

	return s.minimax(s.next(mark)).Score
}

func (s *searcher) next(mark game.PlayerMark) game.PlayerMark {
	if mark == s.ai {
		return s.opponent
	}
	return s.ai
}
