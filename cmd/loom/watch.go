package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/loom-ui/loom/cmd/loom/internal/config"
	"github.com/loom-ui/loom/cmd/loom/internal/ui"
	"github.com/loom-ui/loom/internal/cache"
	"github.com/loom-ui/loom/pkg/artifact"
	"github.com/loom-ui/loom/pkg/live"
)

// watchServer recompiles parse artifacts as they change and pushes the fresh
// descriptors to connected runtimes for hot reload.
type watchServer struct {
	cfg        *config.Config
	watcher    *fsnotify.Watcher
	liveServer *live.Server
	descCache  *cache.Cache
	buildMutex sync.Mutex
}

func newWatchCommand() *cobra.Command {
	var port int
	var host string
	var cwd string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch parse artifacts and push recompiled templates to connected runtimes",
		Long: `Watches the artifact directory, recompiles changed templates, and
broadcasts the new descriptors over the live WebSocket channel. Runtimes
correlate old and new templates by source location and nested-template
ordinal, so edits patch in place without losing state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cwd != "" {
				if err := os.Chdir(cwd); err != nil {
					return fmt.Errorf("failed to change directory to %s: %w", cwd, err)
				}
			}
			return runWatch(host, port, noCache)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port for the live server (default from loom.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind the live server to (default from loom.yaml)")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Working directory of the project (defaults to current)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable the descriptor cache")

	return cmd
}

func runWatch(host string, port int, noCache bool) error {
	cfg, err := config.Load(".")
	if err != nil {
		log.Printf("[Watch] Failed to load loom.yaml: %v (using defaults)", err)
		cfg = config.DefaultConfig()
	}

	if port == 0 {
		port = cfg.Dev.Port
	}
	if host == "" {
		host = cfg.Dev.Host
	}

	var descCache *cache.Cache
	if !noCache && !cfg.Cache.Disabled {
		cacheCfg := cache.DefaultConfig()
		if cfg.Cache.Dir != "" {
			cacheCfg.Dir = cfg.Cache.Dir
		}
		descCache, err = cache.New(cacheCfg)
		if err != nil {
			log.Printf("[Watch] Failed to initialize descriptor cache: %v", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	server := &watchServer{
		cfg:        cfg,
		watcher:    watcher,
		liveServer: live.NewServer(),
		descCache:  descCache,
	}

	if err := server.setupWatcher(); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.ArtifactDir, err)
	}

	// Initial full compile so runtimes reconnecting mid-session get a
	// consistent output directory.
	server.compileAll()

	go server.watchFiles()

	mux := http.NewServeMux()
	mux.HandleFunc(live.PathPrefix, server.liveServer.HandleWebSocket)

	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("[Watch] Live server listening on ws://%s%s{session}", addr, live.PathPrefix)
	log.Printf("[Watch] Watching %s", cfg.ArtifactDir)

	return http.ListenAndServe(addr, mux)
}

func (s *watchServer) setupWatcher() error {
	if err := os.MkdirAll(s.cfg.ArtifactDir, 0755); err != nil {
		return err
	}
	return filepath.Walk(s.cfg.ArtifactDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != s.cfg.ArtifactDir {
				return filepath.SkipDir
			}
			return s.watcher.Add(path)
		}
		return nil
	})
}

func (s *watchServer) watchFiles() {
	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	var pendingEvents []fsnotify.Event
	var mu sync.Mutex

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if !strings.HasSuffix(event.Name, ".ui.json") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			mu.Lock()
			pendingEvents = append(pendingEvents, event)
			mu.Unlock()

			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Println("[Watch] Watcher error:", err)

		case <-debounce.C:
			mu.Lock()
			events := pendingEvents
			pendingEvents = nil
			mu.Unlock()

			if len(events) > 0 {
				s.handleFileChanges(events)
			}
		}
	}
}

func (s *watchServer) handleFileChanges(events []fsnotify.Event) {
	seen := make(map[string]bool)
	for _, event := range events {
		if seen[event.Name] {
			continue
		}
		seen[event.Name] = true
		s.recompile(event.Name)
	}
}

func (s *watchServer) compileAll() {
	files, err := findArtifacts(s.cfg.ArtifactDir)
	if err != nil {
		log.Printf("[Watch] Failed to scan %s: %v", s.cfg.ArtifactDir, err)
		return
	}
	for _, file := range files {
		s.recompile(file)
	}
}

// recompile compiles one artifact, consulting the descriptor cache first,
// and broadcasts the resulting templates to all live sessions.
func (s *watchServer) recompile(file string) {
	s.buildMutex.Lock()
	defer s.buildMutex.Unlock()

	data, err := os.ReadFile(file)
	if err != nil {
		log.Printf("[Watch] Failed to read %s: %v", file, err)
		return
	}

	if s.descCache != nil {
		key := cache.Key(file, data)
		if encoded, ok := s.descCache.Get(key); ok {
			log.Printf("[Watch] %s unchanged, serving cached descriptors", filepath.Base(file))
			s.broadcast(file, encoded)
			return
		}
	}

	start := time.Now()
	res, err := artifact.Compile(data)
	if err != nil {
		log.Println(ui.RenderError(err))
		return
	}

	if len(res.Diagnostics) > 0 {
		fmt.Fprintln(os.Stderr, ui.RenderDiagnostics(res.Diagnostics))
	}

	encoded, err := artifact.EncodeResult(res)
	if err != nil {
		log.Printf("[Watch] Failed to encode descriptors for %s: %v", file, err)
		return
	}

	if err := os.MkdirAll(s.cfg.OutDir, 0755); err == nil {
		outPath := filepath.Join(s.cfg.OutDir, descriptorName(s.cfg.ArtifactDir, file))
		if err := os.WriteFile(outPath, encoded, 0644); err != nil {
			log.Printf("[Watch] Failed to write %s: %v", outPath, err)
		}
	}

	if s.descCache != nil {
		if err := s.descCache.Put(cache.Key(file, data), encoded); err != nil {
			log.Printf("[Watch] Failed to cache descriptors for %s: %v", file, err)
		}
	}

	log.Printf("[Watch] Compiled %s: %d template(s) in %s", filepath.Base(file), len(res.Templates), time.Since(start).Round(time.Millisecond))
	s.broadcast(file, encoded)
}

// broadcast unpacks the encoded result and pushes its templates over the
// live channel.
func (s *watchServer) broadcast(file string, encoded []byte) {
	var result struct {
		Templates []json.RawMessage `json:"templates"`
	}
	if err := json.Unmarshal(encoded, &result); err != nil {
		log.Printf("[Watch] Failed to decode cached descriptors for %s: %v", file, err)
		return
	}
	if len(result.Templates) == 0 {
		return
	}
	s.liveServer.Broadcast(file, result.Templates)
}
