package extension

import "time"

// Config holds the Tuition extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.tuition" or "tuition" keys).
type Config struct {
	// DisableMigrate prevents snapshot store migration and state restore
	// on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Currency is the ledger currency code (default: "usd").
	Currency string `json:"currency" mapstructure:"currency" yaml:"currency"`

	// SettlementMode selects how accepted payments are handled:
	// "hold" pools them for refunds, "passthrough" forwards them and
	// assumes refunds are funded externally (default: "hold").
	SettlementMode string `json:"settlement_mode" mapstructure:"settlement_mode" yaml:"settlement_mode"`

	// SnapshotPath is a JSON file path for the snapshot mirror. When set
	// and no store was provided programmatically, a file store is used;
	// otherwise the extension falls back to an in-memory store.
	SnapshotPath string `json:"snapshot_path" mapstructure:"snapshot_path" yaml:"snapshot_path"`

	// SnapshotInterval is how frequently dirty state is mirrored to the
	// snapshot store (default: 2s).
	SnapshotInterval time.Duration `json:"snapshot_interval" mapstructure:"snapshot_interval" yaml:"snapshot_interval"`

	// TransferTimeout bounds every settlement transfer (default: 30s).
	TransferTimeout time.Duration `json:"transfer_timeout" mapstructure:"transfer_timeout" yaml:"transfer_timeout"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// Settlement mode values accepted in SettlementMode.
const (
	ModeHold        = "hold"
	ModePassThrough = "passthrough"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Currency:         "usd",
		SettlementMode:   ModeHold,
		SnapshotInterval: 2 * time.Second,
		TransferTimeout:  30 * time.Second,
	}
}
