package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const workspacePrefix = "solve-"

// WorkspaceRoot hands out isolated scratch directories under a base dir.
// Each solver invocation gets its own directory so concurrent runs never
// share input files.
type WorkspaceRoot struct {
	baseDir string

	mu     sync.Mutex
	active map[string]struct{}
}

// NewWorkspaceRoot ensures the base directory exists. An empty baseDir
// resolves to os.TempDir().
func NewWorkspaceRoot(baseDir string) (*WorkspaceRoot, error) {
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "timetable-solver")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &WorkspaceRoot{baseDir: baseDir, active: make(map[string]struct{})}, nil
}

// Acquire creates a fresh, empty workspace and marks it in use. The lock is
// held across creation so a concurrent sweep never sees it unmarked.
func (r *WorkspaceRoot) Acquire() (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dir, err := os.MkdirTemp(r.baseDir, workspacePrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	r.active[filepath.Base(dir)] = struct{}{}
	return &Workspace{dir: dir, root: r}, nil
}

// Release marks ws as no longer in use without removing it, so a later
// sweep may collect it.
func (r *WorkspaceRoot) Release(ws *Workspace) {
	r.mu.Lock()
	delete(r.active, filepath.Base(ws.dir))
	r.mu.Unlock()
}

func (r *WorkspaceRoot) inUse(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[name]
	return ok
}

// CleanupOlderThan removes workspaces left behind (for example when kept for
// debugging) whose modification time is older than ttl. Workspaces acquired
// and not yet released or cleaned up are never removed.
func (r *WorkspaceRoot) CleanupOlderThan(ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	entries, err := os.ReadDir(r.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read workspace root: %w", err)
	}
	deleted := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), workspacePrefix) || r.inUse(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return deleted, err
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(r.baseDir, entry.Name())); err != nil {
			return deleted, fmt.Errorf("remove workspace %s: %w", entry.Name(), err)
		}
		deleted = append(deleted, entry.Name())
	}
	return deleted, nil
}

// Workspace is one isolated scratch directory.
type Workspace struct {
	dir  string
	root *WorkspaceRoot
}

// Dir returns the absolute workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path resolves a relative name inside the workspace. Names escaping the
// workspace are rejected.
func (w *Workspace) Path(name string) (string, error) {
	path := filepath.Join(w.dir, name)
	rel, err := filepath.Rel(w.dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes workspace", name)
	}
	return path, nil
}

// Create opens a new file inside the workspace, creating parent dirs.
func (w *Workspace) Create(name string) (*os.File, error) {
	path, err := w.Path(name)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("prepare workspace directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create workspace file: %w", err)
	}
	return file, nil
}

// Cleanup removes the workspace and everything inside it.
func (w *Workspace) Cleanup() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove workspace: %w", err)
	}
	if w.root != nil {
		w.root.Release(w)
	}
	return nil
}
