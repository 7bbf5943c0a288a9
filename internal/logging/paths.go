// Package logging manages the diagnostic log files minicrm writes while the
// terminal is owned by the interactive UI.
//
// Each run gets its own file named <kind>-<timestamp>.log under the logs
// directory, e.g. ~/.local/share/minicrm/logs/tui-20261018-093000.log.
package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// sessionTimeFormat sorts lexicographically in time order.
const sessionTimeFormat = "20060102-150405"

// ErrNoLogs is returned when no log file exists for the requested kind.
var ErrNoLogs = errors.New("no log files found")

// PathManager handles log file naming and directory management.
type PathManager struct {
	baseDir string
}

// NewPathManager creates a PathManager rooted at baseDir.
func NewPathManager(baseDir string) *PathManager {
	return &PathManager{baseDir: baseDir}
}

// BaseDir returns the log directory.
func (p *PathManager) BaseDir() string {
	return p.baseDir
}

// SessionName returns the log session name for a run of kind started at t.
func SessionName(kind string, t time.Time) string {
	return kind + "-" + t.UTC().Format(sessionTimeFormat)
}

// SessionLogPath returns the full path of a session's log file.
func (p *PathManager) SessionLogPath(session string) string {
	return filepath.Join(p.baseDir, session+".log")
}

// EnsureSessionLog creates the log directory if needed and returns the
// session's log file path.
func (p *PathManager) EnsureSessionLog(session string) (string, error) {
	if err := os.MkdirAll(p.baseDir, 0o750); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return p.SessionLogPath(session), nil
}

// LogExists reports whether a session's log file exists.
func (p *PathManager) LogExists(session string) bool {
	_, err := os.Stat(p.SessionLogPath(session))
	return err == nil
}

// ListSessions returns the sessions of kind that have log files, oldest
// first. An empty kind lists every session.
func (p *PathManager) ListSessions(kind string) ([]string, error) {
	entries, err := os.ReadDir(p.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), ".log")
		if !ok {
			continue
		}
		if kind != "" && !strings.HasPrefix(name, kind+"-") {
			continue
		}
		sessions = append(sessions, name)
	}
	slices.Sort(sessions)
	return sessions, nil
}

// Latest returns the newest session of kind.
func (p *PathManager) Latest(kind string) (string, error) {
	sessions, err := p.ListSessions(kind)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoLogs, kind)
	}
	return sessions[len(sessions)-1], nil
}

// Prune removes all but the newest keep sessions of kind.
func (p *PathManager) Prune(kind string, keep int) error {
	sessions, err := p.ListSessions(kind)
	if err != nil {
		return err
	}
	if len(sessions) <= keep {
		return nil
	}
	for _, s := range sessions[:len(sessions)-keep] {
		if err := p.RemoveSessionLog(s); err != nil {
			return err
		}
	}
	return nil
}

// RemoveSessionLog removes a session's log file if it exists.
func (p *PathManager) RemoveSessionLog(session string) error {
	if err := os.Remove(p.SessionLogPath(session)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session log: %w", err)
	}
	return nil
}
