package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/engine"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/evaluation"
	. "github.com/marekpiotradamczyk/bestiazwroclawia/internal/helpers"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/options"
	"github.com/marekpiotradamczyk/bestiazwroclawia/internal/uci"
	"github.com/pkg/profile"
)

func main() {
	profilePath := flag.String("profile", "", "write a cpu profile to this directory")
	storePath := flag.String("store", "", "keep options in a database in this directory")
	debug := flag.Bool("debug", false, "log diagnostics to stderr")
	flag.Parse()

	if *profilePath != "" {
		p := profile.Start(profile.ProfilePath(*profilePath), profile.NoShutdownHook)
		defer p.Stop()
	}

	engineOptions := options.Defaults()
	var store *options.Store
	if *storePath != "" {
		var err Error
		store, err = options.OpenStore(*storePath)
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, "store:", err)
			os.Exit(1)
		}

		engineOptions, err = store.Load()
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, "store: using defaults:", err)
		}
	}
	if *debug {
		engineOptions.Debug = true
	}

	log := NewDiagnostics(engineOptions.Debug)
	out := NewWriterLogger(os.Stdout)

	engineArgs := []engine.EngineOption{
		engine.WithDiagnostics(log),
		engine.WithOptions(engineOptions),
	}
	if store != nil {
		engineArgs = append(engineArgs, engine.WithStore(store))
	}

	e, err := engine.NewEngine(evaluation.PieceSquareEvaluator{}, engineArgs...)
	if !IsNil(err) {
		log.Fatal().Err(err).Msg("engine")
	}
	r := uci.NewUciRunner(e, out, log)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := scanner.Text()
		for _, line := range r.Handle(input) {
			out.Println(line)
		}
		if input == "quit" {
			break
		}
	}
	r.Stop()

	if err := Join(Wrap(scanner.Err()), store.Close()); !IsNil(err) {
		log.Error().Err(err).Msg("shutdown")
	}
}
