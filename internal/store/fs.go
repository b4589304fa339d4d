package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/zot/prefs/internal/codec"
	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/value"
)

// FSStore keeps one file per preferences file in a directory. Saves write
// "<name>.<ext>.new" and rename it over "<name>.<ext>", so readers never see
// a partially written file.
type FSStore struct {
	baseDir string // empty when no location could be found
	codec   codec.Codec
	log     *zap.Logger
	async   *asyncSaver
	writeMu sync.Mutex // serializes writes that share a temp path
}

// NewFSStore creates a filesystem store for appID. Files live in the OS
// preferences directory joined with appID, unless WithDir is given. A
// reverse domain name ("com.example.myapp") keeps appID globally unique.
func NewFSStore(appID string, opts ...Option) *FSStore {
	o := buildOptions(opts)
	s := &FSStore{
		codec: o.codec,
		log:   o.log,
		async: newAsyncSaver(o.log),
	}
	if s.codec == nil {
		s.codec = codec.TOML{}
	}

	switch {
	case o.dir != "":
		s.baseDir = o.dir
	case !validName(appID):
		s.log.Debug("Invalid application id for preferences directory", zap.String("app_id", appID))
	default:
		base, err := preferencesDir()
		if err != nil {
			s.log.Debug("Could not find user configuration directories", zap.Error(err))
		} else {
			s.baseDir = filepath.Join(base, appID)
		}
	}

	if s.baseDir != "" {
		s.log.Info("Preferences path", zap.String("path", s.baseDir))
	}
	return s
}

// preferencesDir returns the OS directory for user preferences.
func preferencesDir() (string, error) {
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Preferences"), nil
	}
	return os.UserConfigDir()
}

// IsValid reports whether a preferences directory was found.
func (s *FSStore) IsValid() bool {
	return s.baseDir != ""
}

// Location returns the preferences directory.
func (s *FSStore) Location() string {
	return s.baseDir
}

// Codec returns the file format.
func (s *FSStore) Codec() codec.Codec {
	return s.codec
}

// Path returns the file path used for name.
func (s *FSStore) Path(name string) string {
	return filepath.Join(s.baseDir, name+"."+s.codec.Ext())
}

// Create returns an empty file.
func (s *FSStore) Create() *prefs.File {
	return prefs.NewFile()
}

// Load reads "<name>.<ext>". A missing file is not an error; an unreadable
// or unparsable one is logged and treated as missing.
func (s *FSStore) Load(name string) (*prefs.File, bool) {
	if !s.IsValid() || !validName(name) {
		return nil, false
	}

	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Error("Error reading preferences file", zap.String("path", path), zap.Error(err))
		}
		return nil, false
	}

	root, err := s.codec.Unmarshal(data)
	if err != nil {
		s.log.Warn("Error parsing preferences file", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	return prefs.FromTable(root), true
}

// Save writes file to disk.
func (s *FSStore) Save(name string, file *prefs.File) error {
	if !s.IsValid() {
		return nil
	}
	return s.write(name, file.Table())
}

// SaveAsync writes content to disk in the background.
func (s *FSStore) SaveAsync(name string, content *prefs.Content, done func(error)) {
	if !s.IsValid() {
		return
	}
	s.async.dispatch(name, func() error {
		return s.write(name, content.Table())
	}, done)
}

// Wait blocks until background writes finish.
func (s *FSStore) Wait() error {
	return s.async.wait()
}

func (s *FSStore) write(name string, root value.Table) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	data, err := s.codec.Marshal(root)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// Recursively create the preferences directory if it doesn't exist
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("could not create preferences directory: %w", err)
	}

	path := s.Path(name)
	tmp := path + ".new"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not write %s: %w", tmp, err)
	}

	// Replace old prefs file with new one
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not replace %s: %w", path, err)
	}
	return nil
}
