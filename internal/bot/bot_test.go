package bot

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"ctchen222/tictactoe-bot/internal/bot/mocks"
	"ctchen222/tictactoe-bot/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

// blockBoard leaves O exactly one non-losing reply: index 2.
var blockBoard = game.Board{
	x, x, e,
	o, e, e,
	e, e, e,
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input         string
		want          Difficulty
		wantThreshold float64
	}{
		{input: "beginner", want: Beginner, wantThreshold: 0.3},
		{input: "middle", want: Middle, wantThreshold: 0.7},
		{input: "top", want: Top, wantThreshold: 1.0},
		{input: " Middle ", want: Middle, wantThreshold: 0.7},
		{input: "", want: Top, wantThreshold: 1.0},
		{input: "impossible", want: Top, wantThreshold: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDifficulty(tt.input)
			assert.Equal(t, tt.want, got)
			assert.InDelta(t, tt.wantThreshold, got.Threshold(), 1e-9)
		})
	}

	assert.InDelta(t, 1.0, Difficulty("unknown").Threshold(), 1e-9)
}

func TestSelector_FullBoard_NoMove(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: a full board must not consume entropy.
	src := mocks.NewMockRandSource(ctrl)
	s := New(WithSource(src))

	full := game.Board{
		x, o, x,
		x, o, o,
		o, x, x,
	}
	for _, difficulty := range []string{"beginner", "middle", "top"} {
		index, ok := s.ChooseMove(context.Background(), full, o, difficulty)
		assert.False(t, ok)
		assert.Equal(t, NoMove, index)
	}
}

func TestSelector_RandomPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := mocks.NewMockRandSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.95),
		src.EXPECT().IntN(6).Return(3),
	)
	s := New(WithSource(src))

	d, ok := s.Decide(context.Background(), blockBoard, o, "middle")
	require.True(t, ok)
	assert.Equal(t, PathRandom, d.Path)
	// Legal cells are 2,4,5,6,7,8.
	assert.Equal(t, 6, d.Index)
	assert.Equal(t, Middle, d.Difficulty)
	assert.InDelta(t, 0.95, d.Sample, 1e-9)
}

func TestSelector_OptimalPath(t *testing.T) {
	tests := []struct {
		name       string
		difficulty string
		sample     float64
	}{
		{name: "beginner below threshold", difficulty: "beginner", sample: 0.1},
		{name: "middle at threshold", difficulty: "middle", sample: 0.7},
		{name: "top always optimal", difficulty: "top", sample: 0.999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			src := mocks.NewMockRandSource(ctrl)
			src.EXPECT().Float64().Return(tt.sample)
			s := New(WithSource(src))

			d, ok := s.Decide(context.Background(), blockBoard, o, tt.difficulty)
			require.True(t, ok)
			assert.Equal(t, PathOptimal, d.Path)
			assert.Equal(t, 2, d.Index)
			assert.Positive(t, d.Nodes)
		})
	}
}

func TestSelector_TopMatchesSearch(t *testing.T) {
	s := New(WithSource(NewSeededSource(7)))
	boards := []game.Board{
		{},
		blockBoard,
		{x, e, e, e, e, e, e, e, e},
		{x, o, x, e, o, e, e, e, e},
		{o, e, x, e, x, e, e, e, e},
	}
	for _, board := range boards {
		for _, ai := range []game.PlayerMark{x, o} {
			want := Search(board, ai, ai)
			for range 3 {
				index, ok := s.ChooseMove(context.Background(), board, ai, "top")
				require.True(t, ok)
				assert.Equal(t, want.Index, index, "board %s as %s", board, ai)
			}
		}
	}
}

func TestSelector_EmptyBoardScenario(t *testing.T) {
	s := New(WithSource(NewSeededSource(1)))
	d, ok := s.Decide(context.Background(), game.Board{}, o, "top")
	require.True(t, ok)
	assert.Equal(t, ScoreDraw, d.Score)
	assert.GreaterOrEqual(t, d.Index, 0)
	assert.Less(t, d.Index, game.CellCount)
}

func TestSelector_Defaults(t *testing.T) {
	ctx := context.Background()

	d, ok := New().Decide(ctx, game.Board{}, game.None, "")
	require.True(t, ok)
	assert.Equal(t, o, d.Player)
	assert.Equal(t, Top, d.Difficulty)

	s := New(
		WithDefaultPlayer(x),
		WithDefaultDifficulty(Beginner),
		WithSource(NewSeededSource(3)),
	)
	d, ok = s.Decide(ctx, game.Board{}, game.None, "")
	require.True(t, ok)
	assert.Equal(t, x, d.Player)
	assert.Equal(t, Beginner, d.Difficulty)

	// An explicit argument overrides the defaults.
	d, ok = s.Decide(ctx, game.Board{}, o, "top")
	require.True(t, ok)
	assert.Equal(t, o, d.Player)
	assert.Equal(t, Top, d.Difficulty)

	// Invalid default players are ignored.
	d, _ = New(WithDefaultPlayer("Z")).Decide(ctx, game.Board{}, game.None, "")
	assert.Equal(t, o, d.Player)
}

func TestSelector_DecidedBoard(t *testing.T) {
	won := game.Board{
		x, x, x,
		o, o, e,
		e, e, e,
	}
	index, ok := New().ChooseMove(context.Background(), won, o, "top")
	assert.False(t, ok)
	assert.Equal(t, NoMove, index)
}

func TestSelector_BeginnerStatistics(t *testing.T) {
	const trials = 20000
	s := New(WithSource(NewSeededSource(42)))

	var random, nonOptimal int
	for range trials {
		d, ok := s.Decide(context.Background(), blockBoard, o, "beginner")
		require.True(t, ok)
		require.Equal(t, game.None, blockBoard[d.Index])
		if d.Path == PathRandom {
			random++
		}
		if d.Index != 2 {
			nonOptimal++
		}
	}

	assert.InDelta(t, 0.7, float64(random)/trials, 0.02)
	// A random pick still lands on the blocking cell one time in six.
	assert.InDelta(t, 0.7*5/6, float64(nonOptimal)/trials, 0.02)
}

func TestSelector_MiddleStatistics(t *testing.T) {
	const trials = 20000
	s := New(WithSource(NewSeededSource(99)))

	var random int
	for range trials {
		d, _ := s.Decide(context.Background(), blockBoard, o, "middle")
		if d.Path == PathRandom {
			random++
		}
	}
	assert.InDelta(t, 0.3, float64(random)/trials, 0.02)
}

func TestSelector_ConcurrentUse(t *testing.T) {
	s := New(WithSource(NewSeededSource(5)))

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := range 8 {
		wg.Add(1)
		go func(difficulty string) {
			defer wg.Done()
			for range 50 {
				index, ok := s.ChooseMove(context.Background(), blockBoard, o, difficulty)
				if !ok || blockBoard[index] != game.None {
					errs <- difficulty
					return
				}
			}
		}([]string{"beginner", "middle", "top"}[i%3])
	}
	wg.Wait()
	close(errs)

	for difficulty := range errs {
		t.Errorf("illegal move at difficulty %s", difficulty)
	}
}

func TestSelector_CalculateNextMove(t *testing.T) {
	s := New()

	row, col := s.CalculateNextMove([][]game.PlayerMark{
		{x, x, e},
		{o, e, e},
		{e, e, e},
	}, o, "top")
	assert.Equal(t, 0, row)
	assert.Equal(t, 2, col)

	row, col = s.CalculateNextMove([][]game.PlayerMark{
		{x, o, x},
		{x, o, o},
		{o, x, x},
	}, o, "top")
	assert.Equal(t, -1, row)
	assert.Equal(t, -1, col)
}

func TestPackageLevelHelpers(t *testing.T) {
	index, ok := ChooseMove(blockBoard, game.None, "top")
	require.True(t, ok)
	assert.Equal(t, 2, index)

	row, col := CalculateNextMove(blockBoard.Rows(), o, "")
	assert.Equal(t, 0, row)
	assert.Equal(t, 2, col)
}

func TestSelector_Telemetry(t *testing.T) {
	ctx := context.Background()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	ctrl := gomock.NewController(t)
	src := mocks.NewMockRandSource(ctrl)
	gomock.InOrder(
		src.EXPECT().Float64().Return(0.1),
		src.EXPECT().Float64().Return(0.9),
		src.EXPECT().IntN(6).Return(0),
	)

	s := New(WithSource(src), WithTracerProvider(tp), WithMeter(mp.Meter("test")))
	_, ok := s.ChooseMove(ctx, blockBoard, o, "middle")
	require.True(t, ok)
	_, ok = s.ChooseMove(ctx, blockBoard, o, "middle")
	require.True(t, ok)

	var names []string
	for _, span := range sr.Ended() {
		names = append(names, span.Name())
	}
	assert.ElementsMatch(t, []string{"bot.Search", "bot.ChooseMove", "bot.ChooseMove"}, names)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	var decisions int64
	var searches uint64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name == "bot.decisions" {
					for _, dp := range data.DataPoints {
						decisions += dp.Value
					}
				}
			case metricdata.Histogram[int64]:
				if m.Name == "bot.search.nodes" {
					for _, dp := range data.DataPoints {
						searches += dp.Count
					}
				}
			}
		}
	}
	assert.Equal(t, int64(2), decisions)
	assert.Equal(t, uint64(1), searches)
}

func TestSelector_LogsDecision(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := New(WithLogger(logger))
	_, ok := s.ChooseMove(context.Background(), blockBoard, o, "top")
	require.True(t, ok)

	out := buf.String()
	assert.Contains(t, out, "bot chose move")
	assert.Contains(t, out, "move.path=optimal")
	assert.Contains(t, out, "move.index=2")
}
