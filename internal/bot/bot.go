package bot

import (
	"context"
	"log/slog"

	"ctchen222/tictactoe-bot/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "bot"

// Path records which branch of the difficulty gate produced a move.
type Path string

const (
	PathOptimal Path = "optimal"
	PathRandom  Path = "random"
)

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	CalculateNextMove(board [][]game.PlayerMark, mark game.PlayerMark, difficulty string) (row, col int)
}

var _ MoveCalculator = (*Selector)(nil)

// Decision describes one call to the difficulty gate.
type Decision struct {
	Index      int
	Score      int // meaningful only on PathOptimal
	Path       Path
	Player     game.PlayerMark
	Difficulty Difficulty
	Sample     float64
	Nodes      int
}

// Selector picks moves for the automated player. It holds no mutable state
// and is safe for concurrent use when its RandSource is.
type Selector struct {
	src               RandSource
	defaultPlayer     game.PlayerMark
	defaultDifficulty Difficulty
	logger            *slog.Logger
	tracer            trace.Tracer
	decisions         metric.Int64Counter
	searchNodes       metric.Int64Histogram
}

// Option configures a Selector.
type Option func(*Selector)

// WithSource injects the random source used by the difficulty gate.
func WithSource(src RandSource) Option {
	return func(s *Selector) {
		if src != nil {
			s.src = src
		}
	}
}

// WithDefaultPlayer sets the mark used when a caller passes game.None.
func WithDefaultPlayer(mark game.PlayerMark) Option {
	return func(s *Selector) {
		if mark == game.PlayerX || mark == game.PlayerO {
			s.defaultPlayer = mark
		}
	}
}

// WithDefaultDifficulty sets the tier used when a caller passes an empty difficulty.
func WithDefaultDifficulty(d Difficulty) Option {
	return func(s *Selector) {
		s.defaultDifficulty = ParseDifficulty(string(d))
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		s.logger = logger
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Selector) {
		s.tracer = tp.Tracer(instrumentationName)
	}
}

func WithMeter(meter metric.Meter) Option {
	return func(s *Selector) {
		s.initInstruments(meter)
	}
}

// New creates a Selector playing O at Top difficulty with the global random source.
func New(opts ...Option) *Selector {
	s := &Selector{
		src:               GlobalSource(),
		defaultPlayer:     game.PlayerO,
		defaultDifficulty: Top,
		tracer:            otel.Tracer(instrumentationName),
	}
	s.initInstruments(otel.Meter(instrumentationName))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Selector) initInstruments(meter metric.Meter) {
	decisions, err := meter.Int64Counter("bot.decisions",
		metric.WithDescription("Moves chosen by the bot, by difficulty and gate path."),
	)
	if err != nil {
		slog.Warn("failed to create bot.decisions counter", "error", err)
		decisions, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("bot.decisions")
	}
	searchNodes, err := meter.Int64Histogram("bot.search.nodes",
		metric.WithDescription("Game tree nodes visited by one minimax search."),
	)
	if err != nil {
		slog.Warn("failed to create bot.search.nodes histogram", "error", err)
		searchNodes, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Histogram("bot.search.nodes")
	}
	s.decisions = decisions
	s.searchNodes = searchNodes
}

func (s *Selector) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// ChooseMove returns the cell the automated player should mark, or false
// when the board has no legal move left.
func (s *Selector) ChooseMove(ctx context.Context, board game.Board, ai game.PlayerMark, difficulty string) (int, bool) {
	d, ok := s.Decide(ctx, board, ai, difficulty)
	return d.Index, ok
}

// Decide runs the difficulty gate and reports how the move was chosen.
func (s *Selector) Decide(ctx context.Context, board game.Board, ai game.PlayerMark, difficulty string) (Decision, bool) {
	if ai == game.None {
		ai = s.defaultPlayer
	}
	tier := s.defaultDifficulty
	if difficulty != "" {
		tier = ParseDifficulty(difficulty)
	}

	ctx, span := s.tracer.Start(ctx, "bot.ChooseMove", trace.WithAttributes(
		attribute.String("bot.mark", string(ai)),
		attribute.String("bot.difficulty", tier.String()),
		attribute.String("game.board", board.String()),
	))
	defer span.End()

	d := Decision{Index: NoMove, Player: ai, Difficulty: tier}

	legal := board.EmptyCells()
	if len(legal) == 0 {
		span.SetAttributes(attribute.Bool("move.found", false))
		s.log().DebugContext(ctx, "no legal moves left", "game.board", board.String())
		return d, false
	}

	d.Sample = s.src.Float64()
	if d.Sample > tier.Threshold() {
		d.Path = PathRandom
		d.Index = legal[s.src.IntN(len(legal))]
	} else {
		d.Path = PathOptimal
		move, stats := s.search(ctx, board, ai)
		d.Index, d.Score, d.Nodes = move.Index, move.Score, stats.Nodes
	}

	span.SetAttributes(
		attribute.String("move.path", string(d.Path)),
		attribute.Int("move.index", d.Index),
		attribute.Float64("move.sample", d.Sample),
	)
	s.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("bot.difficulty", tier.String()),
		attribute.String("move.path", string(d.Path)),
	))

	if d.Index == NoMove {
		// Only reachable on a board that is already decided.
		span.SetAttributes(attribute.Bool("move.found", false))
		s.log().DebugContext(ctx, "board already decided", "game.board", board.String(), "move.score", d.Score)
		return d, false
	}

	span.SetAttributes(attribute.Bool("move.found", true))
	s.log().DebugContext(ctx, "bot chose move",
		"bot.mark", string(ai),
		"bot.difficulty", tier.String(),
		"move.path", string(d.Path),
		"move.index", d.Index,
		"move.score", d.Score,
	)
	return d, true
}

func (s *Selector) search(ctx context.Context, board game.Board, ai game.PlayerMark) (Move, SearchStats) {
	ctx, span := s.tracer.Start(ctx, "bot.Search")
	defer span.End()

	move, stats := searchWithStats(board, ai, ai)
	span.SetAttributes(
		attribute.Int("search.nodes", stats.Nodes),
		attribute.Int64("search.duration_us", stats.Duration.Microseconds()),
		attribute.Int("move.score", move.Score),
	)
	s.searchNodes.Record(ctx, int64(stats.Nodes))
	return move, stats
}

// CalculateNextMove adapts the selector to row/column callers. It returns
// (-1, -1) when there is no move to make.
func (s *Selector) CalculateNextMove(board [][]game.PlayerMark, mark game.PlayerMark, difficulty string) (row, col int) {
	index, ok := s.ChooseMove(context.Background(), game.BoardFromRows(board), mark, difficulty)
	if !ok {
		return -1, -1
	}
	return game.Position(index)
}

var defaultSelector = New()

// ChooseMove runs the default selector, which plays O at Top difficulty
// unless told otherwise.
func ChooseMove(board game.Board, ai game.PlayerMark, difficulty string) (int, bool) {
	return defaultSelector.ChooseMove(context.Background(), board, ai, difficulty)
}

// CalculateNextMove calls the default selector with a row/column board.
func CalculateNextMove(board [][]game.PlayerMark, botMark game.PlayerMark, difficulty string) (row, col int) {
	return defaultSelector.CalculateNextMove(board, botMark, difficulty)
}
