package csvfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-desk/internal/domain/tournament"
	"github.com/riskibarqy/tournament-desk/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const DefaultPath = "sports_tournament_dataset.csv"

const backupTimeLayout = "20060102T150405"

// Store keeps the team table in a single CSV file and rewrites it whole on save.
type Store struct {
	path   string
	clock  clockwork.Clock
	logger *logging.Logger

	mu sync.Mutex
}

func NewStore(path string, clock clockwork.Clock, logger *logging.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		path:   path,
		clock:  clock,
		logger: logger.Named("store.csv"),
	}
}

func (s *Store) Path() string {
	return s.path
}

// EnsureInitialized writes a header-only file when none exists. An existing file
// is left untouched, whatever it contains.
func (s *Store) EnsureInitialized(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ensureInitialized(ctx)
}

func (s *Store) ensureInitialized(ctx context.Context) error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return crerr.Wrapf(err, "stat %s", s.path)
	}

	if err := s.write(tournament.Table{}); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "team table initialized", "path", s.path)
	return nil
}

// LoadAll reads the table. An unreadable or malformed file is moved aside,
// replaced with a header-only file and reported as an empty table.
func (s *Store) LoadAll(ctx context.Context) (tournament.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return tournament.Table{}, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return s.recover(ctx, nil, crerr.Wrapf(err, "read %s", s.path))
	}

	table, err := tournament.DecodeCSV(bytes.NewReader(raw))
	if err != nil {
		return s.recover(ctx, raw, err)
	}
	return table, nil
}

func (s *Store) recover(ctx context.Context, raw []byte, cause error) (tournament.Table, error) {
	backup := ""
	if len(raw) > 0 {
		backup = s.path + ".corrupt-" + s.clock.Now().UTC().Format(backupTimeLayout)
		if err := os.WriteFile(backup, raw, 0o644); err != nil {
			s.logger.ErrorContext(ctx, "failed to back up corrupt team table", "path", backup, "error", err)
			backup = ""
		}
	}

	if err := s.write(tournament.Table{}); err != nil {
		return tournament.Table{}, crerr.Wrap(err, "reinitialize corrupt team table")
	}

	s.logger.WarnContext(ctx, "store corruption recovered",
		"path", s.path,
		"backup", backup,
		"error", cause,
	)
	return tournament.Table{}, nil
}

func (s *Store) SaveAll(_ context.Context, table tournament.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(table)
}

// write encodes the table into a sibling temp file and renames it over the
// target, so a failed write leaves the previous contents in place.
func (s *Store) write(table tournament.Table) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := tournament.EncodeCSV(buf, table); err != nil {
		return crerr.Wrap(err, "encode team table")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return crerr.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return crerr.Wrapf(err, "chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return crerr.Wrapf(err, "replace %s", s.path)
	}
	return nil
}
