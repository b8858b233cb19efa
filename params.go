package swim

import "github.com/BurntSushi/toml"

// Params is the read-only "parameter source" collaborator spec.md
// places out of scope for the engine itself (§1, §6) but which every
// real process still needs a concrete, loadable form of. Only TFail
// and TRemove are ever read by the engine; the rest are consumed by
// cmd/swimd.
type Params struct {
	// TFail is the direct-probe timeout, in ticks, before escalating
	// to indirect probing (spec §3: "T_FAIL").
	TFail int `toml:"t_fail"`
	// TRemove is the round length / indirect-probe timeout, in ticks,
	// before a suspected peer is declared failed (spec §3: "T_REMOVE").
	TRemove int `toml:"t_remove"`

	// BindEndpoint is the ZMQ ROUTER endpoint this process binds,
	// e.g. "tcp://*:7000". Unused by the engine; consumed by cmd/swimd.
	BindEndpoint string `toml:"bind_endpoint"`
	// IntroducerEndpoint is the dialable endpoint of the well-known
	// introducer, used to seed transport.ZMQNet.Resolve before Start.
	IntroducerEndpoint string `toml:"introducer_endpoint"`
	// MetricsBind is the address the debug HTTP surface listens on.
	MetricsBind string `toml:"metrics_bind"`
}

// DefaultParams returns the spec-mandated tick constants (T_FAIL=4,
// T_REMOVE=20); of the network fields only MetricsBind is set, to
// ":9090".
func DefaultParams() Params {
	return Params{
		TFail:       4,
		TRemove:     20,
		MetricsBind: ":9090",
	}
}

// LoadParams reads a TOML file at path, overlaying DefaultParams with
// whatever keys are present. Grounded on NikeGunn-tutu's
// internal/daemon Config/DefaultConfig pattern.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Params{}, err
	}
	return p, nil
}
