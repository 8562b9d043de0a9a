package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"ctchen222/tictactoe-bot/internal/bot"
	"ctchen222/tictactoe-bot/internal/config"
	"ctchen222/tictactoe-bot/internal/game"
	"ctchen222/tictactoe-bot/internal/logger"
	"ctchen222/tictactoe-bot/internal/telemetry"
	"ctchen222/tictactoe-bot/pkg/proto"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("movesel: %v", err)
	}
}

type options struct {
	configPath string
	board      string
	player     string
	difficulty string
	json       bool
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("movesel", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file (environment only when empty)")
	fs.StringVar(&opts.board, "board", "", `board as 9 cells in row-major order, e.g. "XX_O_____"`)
	fs.StringVar(&opts.player, "player", "", "mark the bot plays: X or O (config default when empty)")
	fs.StringVar(&opts.difficulty, "difficulty", "", "beginner, middle or top (config default when empty)")
	fs.BoolVar(&opts.json, "json", false, "read a JSON move request from stdin instead of -board")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if !opts.json && opts.board == "" {
		fs.Usage()
		return opts, errors.New("either -board or -json is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	conf, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// Initialize logger
	logger.Init(logger.Options{
		Level: logger.ParseLevel(conf.LogLevel),
		Otel:  conf.Telemetry.Enabled,
	})

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, conf.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	ctx, span := otel.Tracer("movesel").Start(ctx, "movesel.Run")
	defer span.End()

	req, err := readRequest(opts, stdin)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error reading move request")
		return err
	}
	board, err := req.Validate()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move request")
		return err
	}

	selector := bot.New(conf.Bot.SelectorOptions()...)
	resp := proto.NewMoveResponse(selector.Decide(ctx, board, req.AIPlayer, req.Difficulty))

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func readRequest(opts options, stdin io.Reader) (proto.MoveRequest, error) {
	if opts.json {
		var req proto.MoveRequest
		if err := json.NewDecoder(stdin).Decode(&req); err != nil {
			return req, fmt.Errorf("failed to decode move request: %w", err)
		}
		return req, nil
	}

	board, err := game.ParseBoard(opts.board)
	if err != nil {
		return proto.MoveRequest{}, err
	}
	return proto.NewMoveRequest(board, game.PlayerMark(strings.ToUpper(strings.TrimSpace(opts.player))), opts.difficulty), nil
}
