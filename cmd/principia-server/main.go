// Package main is the entry point for the PRINCIPIA match server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/principia-juego/server/internal/content"
	"github.com/principia-juego/server/internal/engine"
	"github.com/principia-juego/server/internal/events"
	"github.com/principia-juego/server/internal/infra/cache"
	"github.com/principia-juego/server/internal/infra/storage"
	"github.com/principia-juego/server/internal/network"
	"github.com/principia-juego/server/internal/platform/config"
	"github.com/principia-juego/server/internal/platform/logger"
	"github.com/principia-juego/server/internal/platform/metrics"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the server configuration file")
	flag.Parse()

	log.Println("[PRINCIPIA] Initializing authoritative match server...")
	appLogger := logger.NewLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event archive and snapshot store.
	var archive storage.EventArchive
	var snapRepo storage.SnapshotRepository
	switch cfg.Database.Driver {
	case "postgres":
		appLogger.Info("Connecting to PostgreSQL event archive...")
		db, err := storage.InitPostgres(cfg.Database.DSN)
		if err != nil {
			appLogger.Error("Failed to initialize PostgreSQL: " + err.Error())
			os.Exit(1)
		}
		archive = storage.NewPostgresEventArchive(db)
	default:
		appLogger.Info("Initializing SQLite database '" + cfg.Database.Path + "'...")
		db, err := storage.InitSQLite(cfg.Database.Path)
		if err != nil {
			appLogger.Error("Failed to initialize SQLite: " + err.Error())
			os.Exit(1)
		}
		archive = storage.NewSQLiteEventArchive(db)
		snapRepo = storage.NewSQLiteSnapshotRepository(db)
	}

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewLog(storage.NewArchivePersister(archive, cfg.Match.ID, appLogger))

	appLogger.Info("Loading card catalogue from '" + cfg.ContentDir + "'...")
	catalog, err := content.NewLoader(cfg.ContentDir, appLogger).Load()
	if err != nil {
		appLogger.Error("Failed to load catalogue: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Bootstrapping Engine...")
	matchCfg := engine.MatchConfig{
		ScenarioID: cfg.Match.Scenario,
		Seed:       cfg.Match.Seed,
	}
	for _, seat := range cfg.Match.Players {
		matchCfg.Players = append(matchCfg.Players, engine.PlayerConfig{
			Name:   seat.Name,
			Colour: seat.Colour,
		})
	}
	gameEngine, err := engine.New(catalog, matchCfg, eventLog, appLogger)
	if err != nil {
		appLogger.Error("Failed to build engine: " + err.Error())
		os.Exit(1)
	}

	// Optional Redis snapshot cache.
	var snapCache *cache.SnapshotCache
	if cfg.Redis.Addr != "" {
		appLogger.Info("Connecting to Redis snapshot cache at " + cfg.Redis.Addr + "...")
		rdb, err := cache.NewGoRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without cache: " + err.Error())
		} else {
			snapCache = cache.NewSnapshotCache(rdb)
			defer rdb.Close()
		}
	}

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(gameEngine, appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	// Automated state backup routine.
	go func() {
		backupTicker := time.NewTicker(5 * time.Second)
		defer backupTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-backupTicker.C:
				snap := hub.Snapshot()
				state, err := json.Marshal(snap)
				if err != nil {
					appLogger.Error("Failed to serialize snapshot: " + err.Error())
					continue
				}
				if snapRepo != nil {
					_ = snapRepo.Upsert(ctx, storage.MatchSnapshotRecord{
						MatchID: cfg.Match.ID,
						Round:   snap.Round,
						Phase:   string(snap.CurrentPhase),
						State:   state,
					})
				}
				if snapCache != nil {
					_ = snapCache.SetSnapshot(ctx, cache.CachedSnapshot{
						MatchID:  cfg.Match.ID,
						Round:    snap.Round,
						Phase:    string(snap.CurrentPhase),
						State:    state,
						LastSync: time.Now().Unix(),
					})
				}
			}
		}
	}()

	reconstructor := storage.NewReconstructor(archive)

	// API routes.
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})

	mux.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(hub.Snapshot())
	})

	mux.HandleFunc("/api/command", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var env network.CommandEnvelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		cmd, err := network.DecodeCommand(env)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write(network.EncodeRejection(env.Kind, err))
			return
		}
		if err := hub.Apply(cmd); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write(network.EncodeRejection(env.Kind, err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		if roundStr := r.URL.Query().Get("round"); roundStr != "" {
			round, err := strconv.Atoi(roundStr)
			if err != nil {
				http.Error(w, "round must be an integer", http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(eventLog.GetByRound(round))
			return
		}
		if actorID := r.URL.Query().Get("actor"); actorID != "" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(eventLog.GetByActor(actorID))
			return
		}
		since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(eventLog.Since(since))
	})

	mux.HandleFunc("/api/recap", func(w http.ResponseWriter, r *http.Request) {
		playerID := r.URL.Query().Get("player")
		if playerID == "" {
			http.Error(w, "player query parameter required", http.StatusBadRequest)
			return
		}
		sinceRound, _ := strconv.Atoi(r.URL.Query().Get("since_round"))
		recap, err := reconstructor.Recap(r.Context(), cfg.Match.ID, playerID, sinceRound)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(recap)
	})

	mux.HandleFunc("/api/tallies", func(w http.ResponseWriter, r *http.Request) {
		tallies, err := reconstructor.Tallies(r.Context(), cfg.Match.ID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(tallies)
	})

	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	server := &http.Server{Addr: cfg.Listen, Handler: mux}
	go func() {
		log.Println("[PRINCIPIA] HTTP API & WS Server listening on " + cfg.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[PRINCIPIA] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[PRINCIPIA] Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown: " + err.Error())
	}
	cancel()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests for the dev frontend
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
