package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/engine"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/movegen"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/options"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/search"
	"github.com/pkg/profile"
)

var benchPositions = []string{
	StartingFen,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P3/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"r1bq1rk1/pp2bppp/2n1pn2/3p4/2PP4/2N1PN2/PP2BPPP/R2QKB1R w KQ - 2 8",
	"6k1/5ppp/8/8/8/8/5PPP/3R2K1 w - - 0 1",
	"8/8/4k3/8/2p5/8/B2P2K1/8 w - - 0 1",
	"4k3/8/8/8/8/8/8/3QK3 w - - 0 1",
}

// The node count of a fixed-depth bench is a signature of the search: any
// change to pruning or ordering changes it.
func main() {
	depth := flag.Int("depth", 6, "depth to search each position to")
	threads := flag.Int("threads", 1, "search threads")
	hash := flag.Int("hash", 16, "transposition table size in MB")
	profilePath := flag.String("profile", "", "write a cpu profile to this directory")
	flag.Parse()

	if *profilePath != "" {
		defer profile.Start(profile.ProfilePath(*profilePath)).Stop()
	}

	o := options.Defaults()
	o.Threads = *threads
	o.Hash = *hash
	o.MoveOverhead = 0

	e, err := engine.NewEngine(evaluation.PieceSquareEvaluator{}, engine.WithOptions(o))
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	live := NewLiveLogger(os.Stdout)
	footer := live.Footer(0)

	total := uint64(0)
	start := time.Now()
	for i, fen := range benchPositions {
		e.NewGame()
		if err := e.SetupPosition(engine.Setup{Fen: fen}); !IsNil(err) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		result, err := e.Search(context.Background(), search.Limits{Depth: *depth}, func(info search.Info) {
			footer.Printf("%v/%v depth %v nodes %v", i+1, len(benchPositions), info.Depth, humanize.Comma(int64(info.Nodes)))
		})
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		total += result.Nodes
		live.Printf("%-70v %-8v %v\n", fen, result.BestMove, humanize.Comma(int64(result.Nodes)))
	}
	live.Flush()

	elapsed := time.Since(start)
	nps := uint64(float64(total) / max(elapsed.Seconds(), 1e-9))
	fmt.Printf("%v nodes %v nps\n", total, nps)
	fmt.Printf("%v nodes in %v (%v nodes/s)\n", humanize.Comma(int64(total)), elapsed.Round(time.Millisecond), humanize.Comma(int64(nps)))
	fmt.Println(e.TableStats())
	fmt.Println("move buffers:", movegen.StatsMovesBuffer())
}
