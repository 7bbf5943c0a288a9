package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultKeep is the number of session logs kept per kind by OpenSession.
const DefaultKeep = 10

// TeeWriter writes to a log file and, optionally, a primary writer.
// It implements io.WriteCloser.
type TeeWriter struct {
	primary io.Writer
	logFile *os.File
	mu      sync.Mutex
}

// NewTeeWriter creates a TeeWriter that appends to logPath and copies every
// write to primary. A nil primary writes to the file only.
func NewTeeWriter(primary io.Writer, logPath string) (*TeeWriter, error) {
	//nolint:gosec // G302/G304: logPath is built by PathManager
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &TeeWriter{
		primary: primary,
		logFile: logFile,
	}, nil
}

// OpenSession starts a new session log of kind, prunes older sessions of
// the same kind, and returns a file-only writer for it.
func OpenSession(pm *PathManager, kind string, now time.Time) (*TeeWriter, error) {
	path, err := pm.EnsureSessionLog(SessionName(kind, now))
	if err != nil {
		return nil, err
	}

	w, err := NewTeeWriter(nil, path)
	if err != nil {
		return nil, err
	}

	// The new file counts towards keep.
	if err := pm.Prune(kind, DefaultKeep); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// Write writes p to the log file, then to the primary writer if set.
func (t *TeeWriter) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		if _, err := t.logFile.Write(p); err != nil {
			return 0, fmt.Errorf("write to log file: %w", err)
		}
	}

	if t.primary != nil {
		return t.primary.Write(p)
	}

	return len(p), nil
}

// Close closes the log file. The primary writer is not closed.
func (t *TeeWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		if err := t.logFile.Close(); err != nil {
			return fmt.Errorf("close log file: %w", err)
		}
		t.logFile = nil
	}
	return nil
}

// LogPath returns the path of the log file, or "" once closed.
func (t *TeeWriter) LogPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		return t.logFile.Name()
	}
	return ""
}
