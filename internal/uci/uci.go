// Package uci implements a line-based UCI subset on top of the engine.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

// DefaultDepth is the search depth used by "go" without an explicit depth.
const DefaultDepth = 5

// MaxDepth bounds the Depth option and "go depth".
const MaxDepth = 20

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	store    *storage.Storage
	out      io.Writer
	position *board.Position

	// Position history for repetition detection
	positionHashes []uint64

	depth    int
	useCache bool

	// CPU profiling
	profileFile *os.File
}

// New creates a new UCI protocol handler writing its replies to out.
func New(eng *engine.Engine, out io.Writer) *UCI {
	u := &UCI{
		engine: eng,
		out:    out,
		depth:  DefaultDepth,
	}
	u.resetPosition()
	eng.OnInfo = u.sendInfo
	return u
}

// SetStore attaches persistent storage. Saved settings are applied
// immediately and setoption changes are written back.
func (u *UCI) SetStore(s *storage.Storage) error {
	u.store = s
	if s == nil {
		u.setCache(false)
		return nil
	}

	settings, err := s.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if settings.Depth >= 1 && settings.Depth <= MaxDepth {
		u.depth = settings.Depth
	}
	u.setCache(settings.AnalysisCache)
	return nil
}

// SetDepth sets the default search depth.
func (u *UCI) SetDepth(depth int) {
	if depth >= 1 && depth <= MaxDepth {
		u.depth = depth
	}
}

// Run reads commands from in until "quit" or end of input.
func (u *UCI) Run(in io.Reader) error {
	defer u.stopProfile()

	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Fprintln(u.out, "readyok")
		case "ucinewgame":
			u.resetPosition()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches are synchronous; there is never one to stop.
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			fmt.Fprint(u.out, u.position.String())
			fmt.Fprintf(u.out, "Fen: %s\n", u.position.ToFEN())
		case "perft":
			u.handlePerft(args)
		default:
			fmt.Fprintf(u.out, "info string Unknown command: %s\n", cmd)
		}
	}

	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Fprintln(u.out, "id name ChessCore")
	fmt.Fprintln(u.out, "id author ChessCore Team")
	fmt.Fprintln(u.out)
	fmt.Fprintf(u.out, "option name Depth type spin default %d min 1 max %d\n", DefaultDepth, MaxDepth)
	fmt.Fprintf(u.out, "option name AnalysisCache type check default %t\n", u.useCache)
	fmt.Fprintln(u.out, "option name ClearAnalysis type button")
	fmt.Fprintln(u.out, "option name CPUProfile type string default <empty>")
	fmt.Fprintln(u.out, "uciok")
}

func (u *UCI) resetPosition() {
	u.position = board.NewPosition()
	u.positionHashes = []uint64{u.position.Hash()}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// A bad FEN leaves the previous position in place. A bad move stops the move
// list at the last good position.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	// Find "moves" keyword
	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err == nil {
			err = pos.Validate()
		}
		if err != nil {
			log.Printf("Invalid FEN: %v", err)
			fmt.Fprintf(u.out, "info string Invalid FEN: %v\n", err)
			return
		}
	default:
		return
	}

	// Record initial position hash
	hashes := []uint64{pos.Hash()}

	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			move, err := parseMove(pos, moveStr)
			if err != nil {
				log.Printf("Invalid move %s: %v", moveStr, err)
				fmt.Fprintf(u.out, "info string Invalid move: %s\n", moveStr)
				break
			}
			pos = pos.Apply(move)
			hashes = append(hashes, pos.Hash())
		}
	}

	u.position = pos
	u.positionHashes = hashes
}

// parseMove decodes a coordinate move and checks it against the legal moves.
func parseMove(pos *board.Position, moveStr string) (board.Move, error) {
	move, err := board.ParseMove(moveStr, pos)
	if err != nil {
		return board.NoMove, err
	}
	if !pos.GenerateLegalMoves().Contains(move) {
		return board.NoMove, fmt.Errorf("%w: %s", board.ErrIllegalMove, moveStr)
	}
	return move, nil
}

// handleGo runs a fixed-depth search and prints the best move.
func (u *UCI) handleGo(args []string) {
	depth := u.depth
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "depth" {
			if d, err := strconv.Atoi(args[i+1]); err == nil && d >= 1 && d <= MaxDepth {
				depth = d
			}
			break
		}
	}

	history := engine.NewHistory(u.positionHashes...)
	move, _ := u.engine.Search(u.position, depth, history)

	fmt.Fprintf(u.out, "bestmove %s\n", move)
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("score cp %d", info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}

	if info.Cached {
		parts = append(parts, "string cached")
	}

	fmt.Fprintf(u.out, "info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	// Handle options
	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 || depth > MaxDepth {
			fmt.Fprintf(u.out, "info string Invalid depth: %s\n", value)
			return
		}
		u.depth = depth
		u.saveSettings()
	case "analysiscache":
		u.setCache(strings.ToLower(value) == "true")
		u.saveSettings()
	case "clearanalysis":
		if u.store == nil {
			return
		}
		if err := u.store.ClearAnalyses(); err != nil {
			log.Printf("Warning: Failed to clear analyses: %v", err)
		}
	case "cpuprofile":
		u.stopProfile()
		// Start new profile if path provided
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				fmt.Fprintf(u.out, "info string Failed to create profile: %v\n", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				fmt.Fprintf(u.out, "info string Failed to start profile: %v\n", err)
				return
			}
			u.profileFile = f
			fmt.Fprintf(u.out, "info string CPU profiling to %s\n", value)
		}
	default:
		fmt.Fprintf(u.out, "info string Unknown option: %s\n", name)
	}
}

// setCache turns the analysis cache on or off. It stays off without a store.
func (u *UCI) setCache(on bool) {
	u.useCache = on && u.store != nil
	if u.useCache {
		u.engine.SetCache(u.store)
	} else {
		u.engine.SetCache(nil)
	}
}

func (u *UCI) saveSettings() {
	if u.store == nil {
		return
	}
	settings := &storage.Settings{Depth: u.depth, AnalysisCache: u.useCache}
	if err := u.store.SaveSettings(settings); err != nil {
		log.Printf("Warning: Failed to save settings: %v", err)
	}
}

func (u *UCI) stopProfile() {
	if u.profileFile == nil {
		return
	}
	pprof.StopCPUProfile()
	u.profileFile.Close()
	u.profileFile = nil
	fmt.Fprintln(u.out, "info string CPU profile saved")
}

// handlePerft runs a perft divide on the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			fmt.Fprintf(u.out, "info string Invalid perft depth: %s\n", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	var nodes uint64
	for _, e := range board.PerftDivide(u.position, depth) {
		fmt.Fprintf(u.out, "%s: %d\n", e.Move, e.Nodes)
		nodes += e.Nodes
	}
	elapsed := time.Since(start)

	fmt.Fprintf(u.out, "\nNodes: %d\n", nodes)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Fprintf(u.out, "NPS: %.0f\n", nps)
	}
}
