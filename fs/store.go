// Package fs provides file-based snapshot archiving.
package fs

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pagelens/pagelens"
)

// SnapshotStore saves snapshots as JSON files with atomic update semantics.
// Snapshots are written to a temporary directory, then moved atomically on
// Commit.
type SnapshotStore struct {
	baseDir string
	name    string
}

// NewSnapshotStore creates a new SnapshotStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewSnapshotStore(baseDir, name string) *SnapshotStore {
	return &SnapshotStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *SnapshotStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *SnapshotStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes the snapshot to the staging directory.
func (s *SnapshotStore) Save(snap *pagelens.Snapshot) error {
	relPath, err := URLToPath(snap.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

// Commit atomically replaces the final directory with the staged snapshots.
func (s *SnapshotStore) Commit() error {
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the staging directory.
func (s *SnapshotStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// Load reads a previously saved snapshot by its URL.
// Returns ENOTFOUND if no snapshot was saved for the URL.
func (s *SnapshotStore) Load(rawURL string) (*pagelens.Snapshot, error) {
	relPath, err := URLToPath(rawURL)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.finalDir(), relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pagelens.Errorf(pagelens.ENOTFOUND, "no snapshot saved for %q", rawURL)
		}
		return nil, err
	}

	var snap pagelens.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, pagelens.Errorf(pagelens.EINTERNAL, "corrupt snapshot for %q: %v", rawURL, err)
	}
	return &snap, nil
}

// URLToPath converts a page URL to a relative file path.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.json
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", pagelens.Errorf(pagelens.EINVALID, "snapshot URL %q has no host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	if path == "" || strings.HasSuffix(path, "/") {
		path += "index"
	}
	return filepath.Join(u.Host, path+".json"), nil
}
