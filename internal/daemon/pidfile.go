package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// RuntimeState is written beside the pid file so `daemon status` can find
// the API address of a running daemon.
type RuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DBPath    string    `json:"db_path"`
}

// PIDFile tracks one daemon process through a pid file and a JSON state file
// at Path+".json".
type PIDFile struct {
	Path string
}

func (p PIDFile) statePath() string {
	return p.Path + ".json"
}

// Write records st, creating the directory as needed.
func (p PIDFile) Write(st RuntimeState) error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(p.Path, []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p.statePath(), append(data, '\n'), 0o600)
}

// PID reads the recorded pid.
func (p PIDFile) PID() (int, error) {
	data, err := os.ReadFile(p.Path) //nolint:gosec // pid path is configured by the local user
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p.Path)
	}
	return pid, nil
}

// State reads the runtime state. A missing state file is not an error for
// callers that only need the pid.
func (p PIDFile) State() (RuntimeState, error) {
	var st RuntimeState
	data, err := os.ReadFile(p.statePath()) //nolint:gosec // state path is configured by the local user
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

// Remove deletes both files.
func (p PIDFile) Remove() {
	_ = os.Remove(p.Path)
	_ = os.Remove(p.statePath())
}

// EnsureNotRunning fails if the recorded process is alive, and clears a
// stale pid file otherwise.
func (p PIDFile) EnsureNotRunning() error {
	pid, err := p.PID()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if ProcessAlive(pid) {
		return fmt.Errorf("daemon already running (pid %d)", pid)
	}
	p.Remove()
	return nil
}

// ProcessAlive reports whether pid exists, including processes owned by
// another user.
func ProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
