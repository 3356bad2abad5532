package montecarlo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/densim-team/densim-engine/simcore/core"
	"github.com/densim-team/densim-engine/simcore/sampler"
)

const RunSettingKey = "montecarlo"

// RunSetting configures a Monte Carlo run. It is registered as the
// "montecarlo" component setting and can be overridden from the setting
// file.
type RunSetting struct {
	Shots           int     `toml:"shots"`
	Workers         int     `toml:"workers"`
	Seed            int64   `toml:"seed"`
	Sampler         string  `toml:"sampler"`
	ReadoutError    float64 `toml:"readout_error"`
	Alpha           float64 `toml:"alpha"`
	SelectionResult int     `toml:"selection_result"`
}

func NewDefaultRunSetting() RunSetting {
	return RunSetting{
		Shots:        100,
		Workers:      1,
		Seed:         sampler.DefaultSeed,
		Sampler:      "uniform",
		ReadoutError: 0.0,
		Alpha:        1.0,
	}
}

// LoadRunSetting merges the registered "montecarlo" component setting onto
// the defaults. Fields missing from the setting file keep their default.
func LoadRunSetting() RunSetting {
	rs := NewDefaultRunSetting()
	s, ok := core.GetComponentSetting(RunSettingKey)
	if !ok {
		zap.L().Debug("montecarlo setting is not found. Using defaults.")
		return rs
	}
	zap.L().Debug(fmt.Sprintf("montecarlo setting:%v", s))
	mapped, ok := s.(map[string]interface{})
	if !ok {
		return rs
	}
	if v, ok := mapped["shots"].(int64); ok {
		rs.Shots = int(v)
	}
	if v, ok := mapped["workers"].(int64); ok {
		rs.Workers = int(v)
	}
	if v, ok := mapped["seed"].(int64); ok {
		rs.Seed = v
	}
	if v, ok := mapped["sampler"].(string); ok {
		rs.Sampler = v
	}
	if v, ok := mapped["readout_error"].(float64); ok {
		rs.ReadoutError = v
	}
	if v, ok := mapped["alpha"].(float64); ok {
		rs.Alpha = v
	}
	if v, ok := mapped["selection_result"].(int64); ok {
		rs.SelectionResult = int(v)
	}
	return rs
}

// NewSampler builds the configured sampler with the given seed.
func (rs RunSetting) NewSampler(seed int64) (sampler.Sampler, error) {
	switch rs.Sampler {
	case "uniform":
		return sampler.NewUniform(seed), nil
	case "uniform_noisy":
		return sampler.NewUniformNoisy(rs.ReadoutError, seed), nil
	case "biased":
		return sampler.NewBiased(rs.ReadoutError, rs.Alpha, seed), nil
	case "selection":
		return sampler.NewSelection(rs.SelectionResult), nil
	default:
		return nil, fmt.Errorf("%s is an unknown sampler", rs.Sampler)
	}
}
