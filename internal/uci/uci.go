package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/engine"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/movegen"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/options"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/search"
	"github.com/rs/zerolog"
)

const (
	EngineName   = "Bestia 1"
	EngineAuthor = "bestiazwroclawia"
)

// runningSearch is a `go` in progress. done is closed once its bestmove has
// been written.
type runningSearch struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// UciRunner turns protocol lines into engine calls. Direct answers are
// returned from HandleInput; search output is written to Logger as the
// search produces it.
type UciRunner struct {
	Engine *engine.Engine
	Logger Logger

	log     zerolog.Logger
	running *runningSearch
}

func NewUciRunner(e *engine.Engine, logger Logger, log zerolog.Logger) *UciRunner {
	return &UciRunner{Engine: e, Logger: logger, log: log}
}

func parseFen(input string) (string, Error) {
	s := strings.TrimSpace(strings.TrimPrefix(input, "position"))

	if strings.HasPrefix(s, "fen ") {
		s = strings.TrimPrefix(s, "fen ")
		return strings.TrimSpace(strings.Split(s, " moves")[0]), NilError
	} else if s == "startpos" || strings.HasPrefix(s, "startpos ") {
		return StartingFen, NilError
	}

	return "", Errorf("couldn't parse '%v'", s)
}

func parseMoves(input string) []string {
	result := []string{}
	if _, moves, found := strings.Cut(input, " moves"); found {
		result = append(result, strings.Fields(moves)...)
	}
	return result
}

func parsePosition(input string) (engine.Setup, Error) {
	fen, err := parseFen(input)
	if !IsNil(err) {
		return engine.Setup{}, err
	}
	return engine.Setup{Fen: fen, Moves: parseMoves(input)}, NilError
}

func parseMilliseconds(tokens []string, i int) (time.Duration, Error) {
	n, err := parseNumber(tokens, i)
	return time.Duration(n) * time.Millisecond, err
}

func parseNumber(tokens []string, i int) (int, Error) {
	if i+1 >= len(tokens) {
		return 0, Errorf("%v needs a value", tokens[i])
	}
	n, err := strconv.Atoi(tokens[i+1])
	if err != nil {
		return 0, Errorf("%v needs a number, got %q", tokens[i], tokens[i+1])
	}
	return n, NilError
}

// _goParameters are the words that start a `go` parameter, including the
// ones the engine skips.
var _goParameters = map[string]bool{
	"infinite": true, "ponder": true, "depth": true, "nodes": true, "movestogo": true,
	"movetime": true, "wtime": true, "btime": true, "winc": true, "binc": true,
	"searchmoves": true, "mate": true,
}

// parseGo reads the limits of a `go` command. A negative clock counts as
// zero time left. Parameters the engine does not support, such as
// searchmoves or mate, are returned with their arguments in ignored.
func parseGo(input string) (limits search.Limits, ignored []string, err Error) {
	tokens := strings.Fields(input)[1:]

	for i := 0; i < len(tokens); i++ {
		var n int
		var d time.Duration

		switch tokens[i] {
		case "infinite":
			limits.Infinite = true
			continue
		case "ponder":
			limits.Ponder = true
			continue
		case "depth":
			n, err = parseNumber(tokens, i)
			limits.Depth = n
		case "nodes":
			n, err = parseNumber(tokens, i)
			limits.Nodes = n
		case "movestogo":
			n, err = parseNumber(tokens, i)
			limits.MovesToGo = n
		case "movetime":
			d, err = parseMilliseconds(tokens, i)
			limits.MoveTime = d
		case "wtime":
			d, err = parseMilliseconds(tokens, i)
			limits.WTime = Some(max(0, d))
		case "btime":
			d, err = parseMilliseconds(tokens, i)
			limits.BTime = Some(max(0, d))
		case "winc":
			d, err = parseMilliseconds(tokens, i)
			limits.WInc = max(0, d)
		case "binc":
			d, err = parseMilliseconds(tokens, i)
			limits.BInc = max(0, d)
		default:
			skipped := []string{tokens[i]}
			for i+1 < len(tokens) && !_goParameters[tokens[i+1]] {
				i++
				skipped = append(skipped, tokens[i])
			}
			ignored = append(ignored, strings.Join(skipped, " "))
			continue
		}

		if !IsNil(err) {
			return limits, ignored, err
		}
		i++
	}
	return limits, ignored, NilError
}

// parseSetOption splits `setoption name <name> value <value>`; both parts may
// contain spaces.
func parseSetOption(input string) (string, string, Error) {
	s := strings.TrimSpace(strings.TrimPrefix(input, "setoption"))
	if !strings.HasPrefix(s, "name ") {
		return "", "", Errorf("expected 'setoption name <name> value <value>', got %q", input)
	}
	s = strings.TrimPrefix(s, "name ")

	name, value, found := strings.Cut(s, " value ")
	if !found || strings.TrimSpace(name) == "" {
		return "", "", Errorf("expected 'setoption name <name> value <value>', got %q", input)
	}
	return strings.TrimSpace(name), strings.TrimSpace(value), NilError
}

// IsSearching is true from `go` until its bestmove was written.
func (u *UciRunner) IsSearching() bool {
	if u.running == nil {
		return false
	}
	select {
	case <-u.running.done:
		u.running = nil
		return false
	default:
		return true
	}
}

// Stop ends the running search, if any, and returns once its bestmove has
// been written.
func (u *UciRunner) Stop() {
	if u.running == nil {
		return
	}
	u.running.cancel()
	<-u.running.done
	u.running = nil
}

func (u *UciRunner) Wait() {
	if u.running == nil {
		return
	}
	<-u.running.done
	u.running = nil
}

func (u *UciRunner) startSearch(limits search.Limits) {
	ctx, cancel := context.WithCancel(context.Background())
	running := &runningSearch{cancel: cancel, done: make(chan struct{})}
	u.running = running

	go func() {
		defer close(running.done)

		result, err := u.Engine.Search(ctx, limits, func(info search.Info) {
			u.Logger.Println(info.String())
		})
		if !IsNil(err) {
			u.log.Error().Err(err).Msg("search")
			u.Logger.Println("info string error", strings.ReplaceAll(err.Error(), "\n", " "))
		}

		// infinite and ponder searches report only once the GUI asks
		if limits.Infinite || limits.Ponder {
			<-ctx.Done()
		}
		cancel()

		u.Logger.Println(bestMoveString(result))
	}()
}

func bestMoveString(result search.Result) string {
	if result.BestMove.IsNull() {
		return "bestmove 0000"
	}
	if ponder := result.Ponder(); ponder.HasValue() {
		return fmt.Sprintf("bestmove %v ponder %v", result.BestMove, ponder.Value())
	}
	return fmt.Sprintf("bestmove %v", result.BestMove)
}

func (u *UciRunner) perft(input string) ([]string, Error) {
	tokens := strings.Fields(input)
	depth, err := parseNumber(tokens, 0)
	if !IsNil(err) {
		return nil, err
	}
	if depth < 1 {
		return nil, Errorf("perft depth must be positive, got %v", depth)
	}

	start := time.Now()
	divide, err := movegen.Divide(u.Engine.Position().Copy(), depth, nil)
	if !IsNil(err) {
		return nil, err
	}

	result := []string{}
	total := 0
	for _, r := range divide {
		result = append(result, fmt.Sprintf("%v: %v", r.Move, r.Count))
		total += r.Count
	}
	result = append(result, "", fmt.Sprintf("Nodes searched: %v", total))
	u.log.Debug().Int("depth", depth).Int("nodes", total).Dur("elapsed", time.Since(start)).Msg("perft")
	return result, NilError
}

func (u *UciRunner) display() []string {
	p := u.Engine.Position()
	result := strings.Split(p.Board.String(), "\n")
	result = append(result,
		"",
		fmt.Sprintf("Fen: %v", p.Fen()),
		fmt.Sprintf("Key: %016X", p.Hash()),
	)
	checkers := []string{}
	movegen.Checkers(p).EachIndexOfOne(func(index int) {
		checkers = append(checkers, StringFromBoardIndex(index))
	})
	result = append(result, fmt.Sprintf("Checkers: %v", strings.Join(checkers, " ")))
	return result
}

// HandleInput runs one protocol line. Direct answers are returned; an error
// leaves the engine ready for the next command.
func (u *UciRunner) HandleInput(input string) ([]string, Error) {
	input = strings.TrimSpace(input)
	command, _, _ := strings.Cut(input, " ")
	result := []string{}

	switch command {
	case "":
		return result, NilError
	case "uci":
		result = append(result, "id name "+EngineName)
		result = append(result, "id author "+EngineAuthor)
		result = append(result, options.Declarations()...)
		result = append(result, "uciok")
	case "isready":
		result = append(result, "readyok")
	case "stop", "ponderhit":
		u.Stop()
	case "quit":
		u.Stop()
	case "ucinewgame":
		u.Stop()
		u.Engine.NewGame()
	case "position":
		u.Stop()
		setup, err := parsePosition(input)
		if !IsNil(err) {
			return result, err
		}
		if err := u.Engine.SetupPosition(setup); !IsNil(err) {
			return result, err
		}
	case "go":
		u.Stop()
		limits, ignored, err := parseGo(input)
		if !IsNil(err) {
			return result, err
		}
		for _, parameter := range ignored {
			u.log.Debug().Str("parameter", parameter).Msg("go parameter ignored")
			result = append(result, fmt.Sprintf("info string ignoring unsupported go parameter '%v'", parameter))
		}
		u.startSearch(limits)
	case "setoption":
		u.Stop()
		name, value, err := parseSetOption(input)
		if !IsNil(err) {
			return result, err
		}
		if err := u.Engine.SetOption(name, value); !IsNil(err) {
			return result, err
		}
	case "perft":
		u.Stop()
		return u.perft(input)
	case "d":
		u.Stop()
		result = append(result, u.display()...)
	case "eval":
		u.Stop()
		result = append(result, fmt.Sprintf("info string eval %v (%v to move)", u.Engine.Evaluate(), u.Engine.Player()))
	default:
		return result, Errorf("unknown command %q", input)
	}
	return result, NilError
}

// Handle is HandleInput with errors turned into `info string` lines.
func (u *UciRunner) Handle(input string) []string {
	result, err := u.HandleInput(input)
	if !IsNil(err) {
		u.log.Debug().Err(err).Str("input", input).Msg("command failed")
		result = append(result, "info string error "+strings.ReplaceAll(err.Error(), "\n", " "))
	}
	return result
}
