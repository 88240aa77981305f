// Package journal persists override commands in a write-ahead log so operator
// choices survive restarts of the command line tool.
package journal

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gowal"
)

const (
	DefaultDir     = "./wal/overrides"
	segmentLimit   = 1000
	maxSegments    = 100
	dirPermissions = 0o755

	setKeyPrefix   = "override_set_"
	clearKeyPrefix = "override_clear_"
)

// Kind of override command.
type Kind string

const (
	KindSet   Kind = "set"
	KindClear Kind = "clear"
)

// Command a single override mutation.
type Command struct {
	Kind   Kind            `json:"kind"`
	ItemID string          `json:"item_id"`
	Cost   decimal.Decimal `json:"cost"`
	Time   time.Time       `json:"time"`
}

// Record a command with its WAL index.
type Record struct {
	Index   uint64
	Command Command
}

type overrideTarget interface {
	SetOverride(itemID string, cost decimal.Decimal) error
	ClearOverride(itemID string) bool
}

// WALStore persists override commands in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
	now func() time.Time
}

// NewWALStore initializes a WAL-backed override journal.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, errors.Wrapf(err, "create override journal dir %s", dir)
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "override_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init override WAL")
	}

	return &WALStore{wal: wal, now: time.Now}, nil
}

// SaveSet records that the item cost was overridden.
func (s *WALStore) SaveSet(itemID string, cost decimal.Decimal) error {
	return s.save(Command{Kind: KindSet, ItemID: itemID, Cost: cost})
}

// SaveClear records that the item override was removed.
func (s *WALStore) SaveClear(itemID string) error {
	return s.save(Command{Kind: KindClear, ItemID: itemID})
}

func (s *WALStore) save(cmd Command) error {
	if s == nil || s.wal == nil {
		return errors.New("override journal is not initialized")
	}
	if cmd.ItemID == "" {
		return errors.New("override command item id is required")
	}

	cmd.Time = s.now().UTC()
	payload, err := json.Marshal(cmd)
	if err != nil {
		return errors.Wrap(err, "marshal override command")
	}

	prefix := setKeyPrefix
	if cmd.Kind == KindClear {
		prefix = clearKeyPrefix
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, prefix+cmd.ItemID, payload)
}

// Records returns every command still held by the WAL, oldest first.
func (s *WALStore) Records() ([]Record, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("override journal is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	records := make([]Record, 0, current)
	for idx := uint64(1); idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			// evicted segment
			continue
		}
		if !strings.HasPrefix(key, setKeyPrefix) && !strings.HasPrefix(key, clearKeyPrefix) {
			continue
		}

		var cmd Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return nil, errors.Wrapf(err, "decode override command %d", idx)
		}
		records = append(records, Record{Index: idx, Command: cmd})
	}

	return records, nil
}

// Replay applies every recorded command to the target in order and returns how many were applied.
// On error the count covers the commands applied before the failing one.
func (s *WALStore) Replay(target overrideTarget) (int, error) {
	records, err := s.Records()
	if err != nil {
		return 0, err
	}

	for i, r := range records {
		switch r.Command.Kind {
		case KindSet:
			if err := target.SetOverride(r.Command.ItemID, r.Command.Cost); err != nil {
				return i, errors.Wrapf(err, "replay override command %d", r.Index)
			}
		case KindClear:
			target.ClearOverride(r.Command.ItemID)
		default:
			return i, errors.Errorf("unknown override command kind %q at %d", r.Command.Kind, r.Index)
		}
	}

	return len(records), nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("override journal is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
