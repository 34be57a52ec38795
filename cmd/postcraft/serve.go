// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshint/postcraft/internal/inputs"
	"github.com/meshint/postcraft/internal/pipeline"
	"github.com/meshint/postcraft/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	Long: `Serve exposes the pipeline as a small HTTP API:

  GET  /health  liveness check
  POST /run     run the pipeline (form fields: mode, gameplay_dir,
                screenshot_dir, aso_file, game_file)
  GET  /status  result of the most recent run

Runs are serialized; a POST while a run is in progress waits its turn.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "listen address")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	srv := &server{cfg: loadConfig()}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/run", srv.handleRun)
	mux.HandleFunc("/status", srv.handleStatus)

	fmt.Fprintf(os.Stderr, "postcraft listening on %s\n", addr)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpSrv.ListenAndServe()
}

type server struct {
	cfg types.PipelineConfig

	mu   sync.Mutex
	last *types.RunResult
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// runResponse mirrors the fields publishing clients consume.
type runResponse struct {
	Status        string `json:"status"`
	FinalPostJSON string `json:"final_post_json,omitempty"`
	PackageZip    string `json:"package_zip,omitempty"`
	OutputsDir    string `json:"outputs_dir,omitempty"`
	Summary       string `json:"summary,omitempty"`
	Error         string `json:"error,omitempty"`
}

func (s *server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, runResponse{Status: "error", Error: err.Error()})
			return
		}
	}

	mode := r.FormValue("mode")
	if mode == "" {
		mode = "local"
	}
	params := inputs.Params{
		GameplayDir:   r.FormValue("gameplay_dir"),
		ScreenshotDir: r.FormValue("screenshot_dir"),
		KeywordsFile:  r.FormValue("aso_file"),
		GameFile:      r.FormValue("game_file"),
	}

	ctx := r.Context()
	deps, cleanup, err := buildDeps(ctx, s.cfg)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, runResponse{Status: "error", Error: err.Error()})
		return
	}
	defer cleanup()

	s.mu.Lock()
	defer s.mu.Unlock()

	result := pipeline.Run(ctx, mode, params, s.cfg, deps, os.Stderr)
	s.last = result

	if result.Status != types.RunCompleted {
		writeJSON(w, http.StatusInternalServerError, runResponse{
			Status: "error",
			Error:  fmt.Sprintf("pipeline failed: %s", result.Error),
		})
		return
	}

	resp := runResponse{
		Status:     "success",
		OutputsDir: filepath.Join(s.cfg.OutputDir, result.RunID),
		Summary:    "Pipeline completed successfully",
	}
	if result.Outputs != nil {
		resp.FinalPostJSON = result.Outputs.JSONPath
		resp.PackageZip = result.Outputs.PackagePath
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()

	if last == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": "idle"})
		return
	}
	writeJSON(w, http.StatusOK, last)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing response: %v\n", err)
	}
}
