package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/engine"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/options"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/search"
	"github.com/rs/zerolog"
)

type UpdateToWeb struct {
	FenString     string   `json:"fenString,omitempty"`
	LastMove      string   `json:"lastMove,omitempty"`
	Selection     string   `json:"selection,omitempty"`
	PossibleMoves []string `json:"possibleMoves,omitempty"`
	Player        string   `json:"player,omitempty"`
	Pgn           string   `json:"pgn,omitempty"`
	Status        string   `json:"status,omitempty"`
	Info          string   `json:"info,omitempty"`
	BestMove      string   `json:"bestMove,omitempty"`
	Error         string   `json:"error,omitempty"`
}

type MessageFromWeb struct {
	NewFen    *string `json:"newFen"`
	Selection *string `json:"selection"`
	Move      *string `json:"move"`
	Rewind    *int    `json:"rewind"`
	// Analyze searches the current position for this many milliseconds, or
	// until Stop when zero.
	Analyze *int  `json:"analyze"`
	Stop    *bool `json:"stop"`
}

func (u MessageFromWeb) String() string {
	switch {
	case u.NewFen != nil:
		return fmt.Sprint("NewFen: ", *u.NewFen)
	case u.Selection != nil:
		return fmt.Sprint("Selection: ", *u.Selection)
	case u.Move != nil:
		return fmt.Sprint("Move: ", *u.Move)
	case u.Rewind != nil:
		return fmt.Sprint("Rewind: ", *u.Rewind)
	case u.Analyze != nil:
		return fmt.Sprint("Analyze: ", *u.Analyze)
	case u.Stop != nil:
		return "Stop"
	}
	return "unknown"
}

// session is one websocket client with its own game.
type session struct {
	log    zerolog.Logger
	conn   *websocket.Conn
	writes sync.Mutex

	engine *engine.Engine

	cancel context.CancelFunc
	done   chan struct{}
}

func (s *session) send(update UpdateToWeb) {
	bytes, err := json.Marshal(update)
	if !IsNil(err) {
		s.log.Error().Err(err).Msg("update: json marshal")
		return
	}

	s.writes.Lock()
	defer s.writes.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, bytes); !IsNil(err) {
		s.log.Warn().Err(err).Msg("websocket write")
	}
}

func (s *session) sendError(err Error) {
	s.send(UpdateToWeb{Error: err.Error()})
}

func (s *session) sendBoard(update UpdateToWeb) {
	update.FenString = s.engine.FenString()
	update.Player = s.engine.Player().String()
	update.Pgn = s.engine.PgnFromMoveHistory()
	if lastMove := s.engine.LastMove(); lastMove.HasValue() {
		update.LastMove = lastMove.Value().String()
	}
	update.Status = s.status()
	s.send(update)
}

func (s *session) status() string {
	inCheck := s.engine.IsInCheck()
	switch {
	case s.engine.NoValidMoves() && inCheck:
		return "checkmate"
	case s.engine.NoValidMoves():
		return "stalemate"
	case s.engine.DrawClock() >= 100:
		return "draw by the fifty-move rule"
	case inCheck:
		return "check"
	}
	return ""
}

func (s *session) stopAnalysis() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}

func (s *session) analyze(milliseconds int) {
	s.stopAnalysis()

	limits := search.Limits{Infinite: true}
	if milliseconds > 0 {
		limits = search.Limits{MoveTime: time.Duration(milliseconds) * time.Millisecond}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		result, err := s.engine.Search(ctx, limits, func(info search.Info) {
			s.send(UpdateToWeb{Info: info.String()})
		})
		if !IsNil(err) {
			s.sendError(err)
		}
		s.send(UpdateToWeb{BestMove: result.BestMove.String()})
	}(s.done)
}

func (s *session) handle(bytes []byte) {
	var message MessageFromWeb
	if err := json.Unmarshal(bytes, &message); !IsNil(err) {
		s.sendError(Wrap(err))
		return
	}
	s.log.Debug().Stringer("message", message).Msg("received")

	if message.Stop != nil {
		s.stopAnalysis()
		return
	}

	// the position must not change under a running search
	s.stopAnalysis()

	var err Error
	update := UpdateToWeb{}
	switch {
	case message.NewFen != nil:
		err = s.engine.SetupPosition(engine.Setup{Fen: *message.NewFen})
	case message.Selection != nil:
		update.Selection = *message.Selection
		update.PossibleMoves, err = s.engine.MovesForSelection(*message.Selection)
	case message.Move != nil:
		err = s.engine.PerformMoveFromString(*message.Move)
	case message.Rewind != nil:
		err = s.engine.Rewind(*message.Rewind)
	case message.Analyze != nil:
		s.analyze(*message.Analyze)
		return
	}

	if !IsNil(err) {
		s.sendError(err)
	}
	s.sendBoard(update)
}

func main() {
	port := flag.Int("port", 8002, "port to serve on")
	static := flag.String("static", "static", "directory with the web client")
	hash := flag.Int("hash", 64, "transposition table size per client in MB")
	debug := flag.Bool("debug", false, "log diagnostics")
	flag.Parse()

	log := NewDiagnostics(*debug)
	upgrader := websocket.Upgrader{}

	ws := func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !IsNil(err) {
			log.Warn().Err(err).Msg("upgrade")
			return
		}
		defer conn.Close()

		o := options.Defaults()
		o.Hash = *hash
		e, engineErr := engine.NewEngine(evaluation.PieceSquareEvaluator{},
			engine.WithOptions(o),
			engine.WithDiagnostics(log),
		)
		if !IsNil(engineErr) {
			log.Error().Err(engineErr).Msg("engine")
			return
		}

		s := &session{
			log:    log.With().Str("remote", r.RemoteAddr).Logger(),
			conn:   conn,
			engine: e,
		}
		defer s.stopAnalysis()

		s.sendBoard(UpdateToWeb{})
		for {
			_, message, err := conn.ReadMessage()
			if !IsNil(err) {
				s.log.Debug().Err(err).Msg("closed")
				return
			}
			s.handle(message)
		}
	}

	index := func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, *static+"/index.html")
	}

	router := mux.NewRouter()
	router.HandleFunc("/ws", ws)
	router.PathPrefix("/static").Handler(
		http.StripPrefix("/static", http.FileServer(http.Dir(*static))))
	router.HandleFunc("/", index)

	log.Info().Int("port", *port).Msg("serving")
	err := Wrap(http.ListenAndServe(fmt.Sprintf(":%v", *port), router))
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
