package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", 0, "default search depth (0 keeps the saved setting)")
	dbDir      = flag.String("db", "", "analysis database directory (default: platform data dir)")
	noCache    = flag.Bool("nocache", false, "run without the analysis database")
)

func main() {
	flag.Parse()

	// UCI talks on stdout; keep diagnostics on stderr.
	log.SetOutput(os.Stderr)

	// Start CPU profiling if requested (via flag or environment variable)
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

	eng := engine.NewEngine()
	protocol := uci.New(eng, os.Stdout)

	if !*noCache {
		store, err := openStore()
		if err != nil {
			log.Printf("Warning: Failed to initialize storage: %v (running without analysis cache)", err)
		} else {
			defer store.Close()
			if err := protocol.SetStore(store); err != nil {
				log.Printf("Warning: Failed to load settings: %v", err)
			}
		}
	}

	if *depth > 0 {
		protocol.SetDepth(*depth)
	}

	if err := protocol.Run(os.Stdin); err != nil {
		log.Printf("input error: %v", err)
	}
}

// openStore opens the database named by -db, $CHESSCORE_DB or the platform
// data directory, in that order.
func openStore() (*storage.Storage, error) {
	dir := *dbDir
	if dir == "" {
		dir = os.Getenv("CHESSCORE_DB")
	}
	if dir == "" {
		return storage.NewStorage()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return storage.Open(dir)
}
