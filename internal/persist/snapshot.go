package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"arena-fleet/internal/console"
	"arena-fleet/internal/escrow"
	"arena-fleet/internal/fleet"
	"arena-fleet/internal/profile"
	"arena-fleet/internal/superagent"
	"arena-fleet/internal/wallet"

	"github.com/rs/zerolog/log"
)

const SchemaVersion = 1

type BotV1 struct {
	Bot      fleet.Bot      `json:"bot"`
	Behavior fleet.Behavior `json:"behavior"`
}

type CountersV1 struct {
	NextProfile    uint64 `json:"next_profile"`
	NextWallet     uint64 `json:"next_wallet"`
	NextBackground uint64 `json:"next_background"`
}

// SnapshotV1 is the full process-wide state: the durable shadow of the
// in-memory maps, consumed once at boot.
type SnapshotV1 struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`

	SuperAgent superagent.Config      `json:"super_agent"`
	Memory     []console.MemoryEntry  `json:"memory"`
	Usage      console.UsageSnapshot  `json:"usage"`
	Subjects   map[string]string      `json:"subjects"`
	Profiles   []profile.Profile      `json:"profiles"`
	Wallets    []wallet.Wallet        `json:"wallets"`
	Locks      []escrow.Lock          `json:"escrow_locks"`
	Bots       []BotV1                `json:"bots"`

	FleetTarget int        `json:"fleet_target"`
	Counters    CountersV1 `json:"counters"`
}

// Write serializes the snapshot via a temp file and rename so a crash
// mid-write cannot corrupt the previous good copy.
func Write(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a snapshot. A missing, unreadable, or version-mismatched file
// is a cold start, not a fault: losing the durable copy beats refusing to
// boot.
func Load(path string) *SnapshotV1 {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("snapshot unreadable; cold start")
		}
		return nil
	}
	var snap SnapshotV1
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("snapshot corrupt; cold start")
		return nil
	}
	if snap.Version != SchemaVersion {
		log.Warn().Int("version", snap.Version).Int("want", SchemaVersion).Msg("snapshot version mismatch; cold start")
		return nil
	}
	return &snap
}
