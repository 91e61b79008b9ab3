// internal/domain/cart/store.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Snapshots survive a terminal restart but not a full day; the backend is
// the durable store for anything submitted.
const snapshotTTL = 24 * time.Hour

// Service is the cart aggregate for one terminal. All mutations go through
// a single mutex so totals are always consistent with the line set, even
// when the POS screen and the order panel touch the same cart.
type Service struct {
	mu     sync.Mutex
	lines  []Line
	totals Totals
	table  *TableBinding
	notes  string

	store  *SnapshotStore
	logger *logrus.Logger
}

// NewService creates a cart aggregate. The snapshot store may be nil, in
// which case the cart is purely in-memory.
func NewService(store *SnapshotStore, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Restore loads the last persisted snapshot, replacing the current state.
// A missing snapshot leaves the cart empty.
func (s *Service) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore cart: %w", err)
	}
	if snapshot == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = snapshot.Lines
	s.table = snapshot.Table
	s.notes = snapshot.Notes
	s.totals = calculateTotals(s.lines)
	return nil
}

// persist writes the current state to the snapshot store. Called with the
// lock held. Persistence is best-effort: a failed write is logged and the
// in-memory state stays authoritative.
func (s *Service) persist() {
	if s.store == nil {
		return
	}

	snapshot := Snapshot{
		Lines:     append([]Line(nil), s.lines...),
		Table:     s.table,
		Notes:     s.notes,
		UpdatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.store.Save(ctx, &snapshot); err != nil {
		s.logger.WithError(err).Warn("Failed to persist cart snapshot")
	}
}

// SnapshotStore persists cart snapshots in Redis, one key per terminal.
type SnapshotStore struct {
	client     *redis.Client
	terminalID string
}

// NewSnapshotStore creates a snapshot store for the given terminal.
func NewSnapshotStore(client *redis.Client, terminalID string) *SnapshotStore {
	return &SnapshotStore{
		client:     client,
		terminalID: terminalID,
	}
}

func (st *SnapshotStore) key() string {
	return fmt.Sprintf("pos:cart:%s", st.terminalID)
}

// Save stores the snapshot as JSON with a refresh of the TTL.
func (st *SnapshotStore) Save(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return st.client.Set(ctx, st.key(), data, snapshotTTL).Err()
}

// Load retrieves the stored snapshot. A missing key returns (nil, nil).
func (st *SnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := st.client.Get(ctx, st.key()).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Delete removes the stored snapshot.
func (st *SnapshotStore) Delete(ctx context.Context) error {
	return st.client.Del(ctx, st.key()).Err()
}
