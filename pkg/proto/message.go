package proto

import (
	"fmt"

	"ctchen222/tictactoe-bot/internal/bot"
	"ctchen222/tictactoe-bot/internal/game"
	"ctchen222/tictactoe-bot/internal/validator"
)

// MoveRequest asks the bot for its next move on a row-major board.
type MoveRequest struct {
	Board      []game.PlayerMark `json:"board" validate:"len=9,dive,mark"`
	AIPlayer   game.PlayerMark   `json:"aiPlayer,omitempty" validate:"omitempty,oneof=X O"`
	Difficulty string            `json:"difficulty,omitempty"`
}

// MoveResponse is the bot's answer to a MoveRequest.
type MoveResponse struct {
	HasMove    bool            `json:"hasMove"`
	Index      int             `json:"index"`
	Row        int             `json:"row"`
	Col        int             `json:"col"`
	Player     game.PlayerMark `json:"player"`
	Difficulty string          `json:"difficulty"`
	Path       string          `json:"path,omitempty"`
	Score      *int            `json:"score,omitempty"`
}

// NewMoveRequest builds a request from a fixed-size board.
func NewMoveRequest(board game.Board, ai game.PlayerMark, difficulty string) MoveRequest {
	return MoveRequest{
		Board:      board[:],
		AIPlayer:   ai,
		Difficulty: difficulty,
	}
}

// Validate checks the request and returns its board.
func (r MoveRequest) Validate() (game.Board, error) {
	var b game.Board
	if err := validator.GetValidator().Struct(r); err != nil {
		return b, fmt.Errorf("invalid move request: %w", err)
	}
	copy(b[:], r.Board)
	return b, nil
}

// NewMoveResponse converts a selector decision into its wire form.
func NewMoveResponse(d bot.Decision, ok bool) MoveResponse {
	resp := MoveResponse{
		HasMove:    ok,
		Index:      bot.NoMove,
		Row:        -1,
		Col:        -1,
		Player:     d.Player,
		Difficulty: d.Difficulty.String(),
		Path:       string(d.Path),
	}
	if !ok {
		return resp
	}

	resp.Index = d.Index
	resp.Row, resp.Col = game.Position(d.Index)
	if d.Path == bot.PathOptimal {
		score := d.Score
		resp.Score = &score
	}
	return resp
}
