package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/game"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/movegen"
	"github.com/schollz/progressbar/v3"
)

func main() {
	fen := flag.String("fen", StartingFen, "position to count from")
	depth := flag.Int("depth", 5, "plies to count")
	divide := flag.Bool("divide", false, "print the count below each root move")
	flag.Parse()

	p, err := PositionFromFen(*fen)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *depth < 1 {
		fmt.Fprintln(os.Stderr, "depth must be positive")
		os.Exit(1)
	}

	fmt.Print(p.Board.Unicode())
	fmt.Println(p.Fen())

	bar := progressbar.Default(int64(movegen.LegalMovesCount(p)), fmt.Sprint("depth ", *depth))

	start := time.Now()
	results, err := movegen.Divide(p, *depth, func(r movegen.DivideResult) {
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	total := 0
	for _, r := range results {
		total += r.Count
		if *divide {
			fmt.Printf("%v: %v\n", r.Move, r.Count)
		}
	}

	nps := int64(float64(total) / max(elapsed.Seconds(), 1e-9))
	fmt.Printf("\nNodes searched: %v\n", total)
	fmt.Printf("%v nodes in %v (%v nodes/s)\n", humanize.Comma(int64(total)), elapsed.Round(time.Millisecond), humanize.Comma(nps))
}
