package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/chesswright/mctschess/internal/engine"
	"github.com/chesswright/mctschess/internal/uci"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	// 1MB pawn hash table shared across searches.
	eng := engine.NewEngine(1)

	protocol := uci.New(eng)
	protocol.Run()
}
