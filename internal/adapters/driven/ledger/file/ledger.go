// Package file provides a newline-delimited text file keyword ledger.
//
// Each line holds one normalized keyword. The file is read in full when the
// ledger is opened and appended to on every Append, so it stays readable and
// editable by hand.
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/core/ports/driven"
	"github.com/custodia-labs/postcraft/internal/logger"
)

// DefaultFileName is the ledger file name inside the postcraft home directory.
const DefaultFileName = "posted_keywords.txt"

// Ensure KeywordLedger implements the interface.
var _ driven.KeywordLedger = (*KeywordLedger)(nil)

// KeywordLedger is a file-backed driven.KeywordLedger.
type KeywordLedger struct {
	mu      sync.RWMutex
	path    string
	entries []string
}

// NewKeywordLedger opens the ledger at path, creating its directory if needed.
// If path is empty, defaults to ~/.postcraft/posted_keywords.txt.
// A missing file is an empty ledger.
func NewKeywordLedger(path string) (*KeywordLedger, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		path = filepath.Join(home, ".postcraft", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	l := &KeywordLedger{path: filepath.Clean(path)}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Path returns the ledger file path.
func (l *KeywordLedger) Path() string {
	return l.path
}

// Contains reports whether the keyword was recorded, ignoring case.
func (l *KeywordLedger) Contains(_ context.Context, keyword string) (bool, error) {
	normalized := domain.NormalizeKeyword(keyword)
	if normalized == "" {
		return false, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, entry := range l.entries {
		if entry == normalized {
			return true, nil
		}
	}
	return false, nil
}

// Append writes the normalized keyword as a new line.
func (l *KeywordLedger) Append(_ context.Context, keyword string) error {
	normalized := domain.NormalizeKeyword(keyword)
	if normalized == "" {
		return fmt.Errorf("%w: empty keyword", domain.ErrInvalidInput)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	if _, err := f.WriteString(normalized + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}

	l.entries = append(l.entries, normalized)
	return nil
}

// List returns a copy of all entries in file order.
func (l *KeywordLedger) List(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

// Reload re-reads the file, replacing the in-memory entries.
func (l *KeywordLedger) Reload() error {
	entries, err := readEntries(l.path)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
	return nil
}

// Watch reloads the ledger whenever the file changes on disk and passes the
// fresh entries to onChange. It returns once the watcher is running; the
// watcher stops when ctx is cancelled.
func (l *KeywordLedger) Watch(ctx context.Context, onChange func([]string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// The directory is watched so that a file created or replaced later is still seen.
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch ledger directory: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !l.relevant(event) {
					continue
				}
				if err := l.Reload(); err != nil {
					logger.Warn("ledger reload failed: %v", err)
					continue
				}
				if onChange != nil {
					entries, _ := l.List(ctx)
					onChange(entries)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("ledger watcher error: %v", err)
			}
		}
	}()

	return nil
}

// relevant reports whether event touches the ledger file contents.
func (l *KeywordLedger) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != l.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func readEntries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if kw := domain.NormalizeKeyword(scanner.Text()); kw != "" {
			entries = append(entries, kw)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return entries, nil
}
