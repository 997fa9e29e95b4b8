// Package fileservice implements the companion HTTP service that stores the
// gym and equipment collections as JSON files in a single data directory.
//
// It has no business logic. Bearer token checks, when enabled, sit in front of
// it in middleware.RequireToken. Concurrent writers to the same file are
// last-write-wins; each write lands through a temp file and a
// rename so a reader never sees a partially written file.
package fileservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/gymlog/internal/middleware"
	"github.com/mmynk/gymlog/internal/observability"
)

// FileInfo is one entry of the list-files response.
type FileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// WriteRequest is the body of POST /api/write-file.
type WriteRequest struct {
	File string          `json:"file"`
	Data json.RawMessage `json:"data"`
}

var errInvalidName = errors.New("invalid file name")

// Server serves files from DataDir.
type Server struct {
	dataDir string
}

// New returns a Server rooted at dataDir. The directory is created lazily.
func New(dataDir string) *Server {
	return &Server{dataDir: dataDir}
}

// DataDir returns the directory the server reads and writes.
func (s *Server) DataDir() string {
	return s.dataDir
}

// Routes registers the API, health and metrics endpoints.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("POST /api/ensure-dir", s.instrument("ensure_dir", s.handleEnsureDir))
	mux.Handle("GET /api/read-file", s.instrument("read_file", s.handleReadFile))
	mux.Handle("POST /api/write-file", s.instrument("write_file", s.handleWriteFile))
	mux.Handle("GET /api/list-files", s.instrument("list_files", s.handleListFiles))
	mux.Handle("GET /api/export-all", s.instrument("export_all", s.handleExportAll))
	mux.HandleFunc("GET /healthz", healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// EnsureDir creates the data directory if it does not exist.
func (s *Server) EnsureDir() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := middleware.NewStatusRecorder(w)
		h(rec, r)
		observability.RecordFileServiceRequest(endpoint, rec.Status, time.Since(start))
	})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleEnsureDir(w http.ResponseWriter, r *http.Request) {
	if err := s.EnsureDir(); err != nil {
		slog.Error("Error ensuring directory", "dir", s.dataDir, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not create directory")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleReadFile(w http.ResponseWriter, r *http.Request) {
	path, err := s.resolve(r.URL.Query().Get("file"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		slog.Error("Error reading file", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not read file")
		return
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		slog.Error("Error reading file", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not read file")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(compact.Bytes())
}

func (s *Server) handleWriteFile(w http.ResponseWriter, r *http.Request) {
	var req WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	path, err := s.resolve(req.File)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, "Missing data")
		return
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, req.Data, "", "  "); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.EnsureDir(); err != nil {
		slog.Error("Error writing file", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not write file")
		return
	}
	if err := writeFileAtomic(path, indented.Bytes()); err != nil {
		slog.Error("Error writing file", "path", path, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not write file")
		return
	}

	slog.Debug("File written", "path", path, "bytes", indented.Len())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.ListFiles(r.Context())
	if err != nil {
		slog.Error("Error listing files", "dir", s.dataDir, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not list files")
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleExportAll(w http.ResponseWriter, r *http.Request) {
	all, err := s.ExportAll()
	if err != nil {
		slog.Error("Error exporting all data", "dir", s.dataDir, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not export data")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// ListFiles stats every JSON file in the data directory concurrently.
func (s *Server) ListFiles(ctx context.Context) ([]FileInfo, error) {
	names, err := s.jsonFiles()
	if err != nil {
		return nil, err
	}

	files := make([]FileInfo, len(names))
	g, _ := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			info, err := os.Stat(filepath.Join(s.dataDir, name))
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", name, err)
			}
			files[i] = FileInfo{Name: name, Size: info.Size(), Modified: info.ModTime().UTC()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// ExportAll maps each JSON file name without its extension to the parsed
// content. A file that cannot be read or parsed is reported under its full
// name with a null value.
func (s *Server) ExportAll() (map[string]json.RawMessage, error) {
	names, err := s.jsonFiles()
	if err != nil {
		return nil, err
	}

	all := make(map[string]json.RawMessage, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dataDir, name))
		if err == nil && !json.Valid(data) {
			err = errors.New("invalid JSON")
		}
		if err != nil {
			slog.Warn("Could not read file", "file", name, "error", err)
			all[name] = json.RawMessage("null")
			continue
		}
		all[strings.TrimSuffix(name, ".json")] = json.RawMessage(data)
	}
	return all, nil
}

func (s *Server) jsonFiles() ([]string, error) {
	if err := s.EnsureDir(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// resolve maps a caller-supplied file name to a path inside the data directory.
func (s *Server) resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: file is required", errInvalidName)
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q escapes the data directory", errInvalidName, name)
	}
	return filepath.Join(s.dataDir, name), nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
