// Package main is a replay verifier: it runs the same command script twice
// under one seed and byte-compares the resulting event logs. A diff means a
// determinism bug, the one class of bug the engine must never ship with.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/principia-juego/server/internal/content"
	"github.com/principia-juego/server/internal/engine"
	"github.com/principia-juego/server/internal/events"
	"github.com/principia-juego/server/internal/network"
	"github.com/principia-juego/server/internal/platform/logger"
)

func main() {
	contentDir := flag.String("content", "data", "content directory with the catalogue tables")
	scenario := flag.String("scenario", "standard-run", "scenario id")
	seed := flag.Int64("seed", 1, "match seed")
	seats := flag.String("players", "Ada:blue,Max:red", "comma-separated name:colour seats")
	scriptPath := flag.String("script", "", "path to a JSON-lines command script (stdin when empty)")
	flag.Parse()

	appLogger := logger.NewLogger()

	script, err := readScript(*scriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reading script:", err)
		os.Exit(1)
	}

	cfg := engine.MatchConfig{ScenarioID: *scenario, Seed: *seed}
	for _, seat := range strings.Split(*seats, ",") {
		name, colour, _ := strings.Cut(strings.TrimSpace(seat), ":")
		cfg.Players = append(cfg.Players, engine.PlayerConfig{Name: name, Colour: colour})
	}

	// Two independent catalogue loads, two engines: shared state between the
	// runs would hide exactly the bugs this tool exists to catch.
	logA, err := run(*contentDir, cfg, script, appLogger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "first run:", err)
		os.Exit(1)
	}
	logB, err := run(*contentDir, cfg, script, appLogger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "second run:", err)
		os.Exit(1)
	}

	if !bytes.Equal(logA, logB) {
		fmt.Fprintln(os.Stderr, "REPLAY DIVERGED: the two runs produced different event logs")
		os.Exit(1)
	}
	fmt.Printf("replay ok: %d commands, logs byte-equal\n", len(script))
}

func readScript(path string) ([]network.CommandEnvelope, error) {
	in := os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var script []network.CommandEnvelope
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var env network.CommandEnvelope
		if err := json.Unmarshal([]byte(line), &env); err != nil {
			return nil, fmt.Errorf("line %d: %w", len(script)+1, err)
		}
		script = append(script, env)
	}
	return script, scanner.Err()
}

func run(contentDir string, cfg engine.MatchConfig, script []network.CommandEnvelope, appLogger *logger.Logger) ([]byte, error) {
	catalog, err := content.NewLoader(contentDir, appLogger).Load()
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(catalog, cfg, events.NewLog(nil), appLogger)
	if err != nil {
		return nil, err
	}

	for i, env := range script {
		cmd, err := network.DecodeCommand(env)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
		// Rejected commands are part of the script's behaviour: both runs
		// must reject identically, which the log comparison checks for us.
		_ = eng.Apply(cmd)
	}
	return eng.Events().Canonical()
}
