package main

import (
	"context"
	"fmt"
	"math"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/massn/envordot"
	"github.com/oklog/run"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/densim-team/densim-engine/simcore/circuit"
	"github.com/densim-team/densim-engine/simcore/core"
	"github.com/densim-team/densim-engine/simcore/log"
	"github.com/densim-team/densim-engine/simcore/montecarlo"
	"github.com/densim-team/densim-engine/simcore/sampler"
)

var versionByBuildFlag string
var parser *flags.Parser
var simd *Simd

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	simd = &Simd{}
	setParser(simd)
}

type Simd struct {
	DIContainerParameters *DIContainerParameters
	Conf                  *core.Conf
}

type DIContainerParameters struct {
	Circuit string  `long:"circuit" description:"demo circuit" default:"bell" choice:"bell" choice:"decay" env:"DENSIM_CIRCUIT"`
	T1      float64 `long:"t1" description:"qubit relaxation time" default:"1000" env:"DENSIM_T1"`
	T2      float64 `long:"t2" description:"qubit coherence time" default:"1000" env:"DENSIM_T2"`
}

func setParser(simd *Simd) {
	parser = flags.NewParser(simd, flags.Default)
	parser.ShortDescription = "densim simd"
	parser.LongDescription = "the Monte Carlo driver of the densim density-matrix simulator."
	parser.AddCommand("run", "start run", "run the configured circuit over many trials", newRunCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to pasre flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func (s *Simd) provideDIContainer() (c *dig.Container, err error) {
	c = dig.New()
	err = c.Provide(func() montecarlo.RunSetting { return montecarlo.LoadRunSetting() })
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() (montecarlo.CircuitFactory, error) {
		p := s.DIContainerParameters
		switch p.Circuit {
		case "bell":
			return bellCircuitFactory(p.T1, p.T2), nil
		case "decay":
			return decayCircuitFactory(p.T1, p.T2), nil
		default:
			return nil, fmt.Errorf("%s is an unknown demo circuit", p.Circuit)
		}
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(montecarlo.NewRunner)
	if err != nil {
		return &dig.Container{}, err
	}
	return
}

// bellCircuitFactory prepares and measures a two-qubit Bell state, with
// idle decoherence filled in between the gates.
func bellCircuitFactory(t1, t2 float64) montecarlo.CircuitFactory {
	return func(smp sampler.Sampler) (*circuit.Circuit, error) {
		c := circuit.New("bell")
		if err := c.AddQubit("A", t1, t2); err != nil {
			return nil, err
		}
		if err := c.AddQubit("B", t1, t2); err != nil {
			return nil, err
		}
		if err := c.AddClassicalBit("MA"); err != nil {
			return nil, err
		}
		if err := c.AddClassicalBit("MB"); err != nil {
			return nil, err
		}
		c.AddHadamard("A", 0)
		c.AddHadamard("B", 0)
		c.AddCPhase("A", "B", 10)
		c.AddHadamard("B", 20)
		c.AddMeasurement("A", 30, smp, "MA")
		c.AddMeasurement("B", 30, smp, "MB")
		c.AddWaitingGates(nil, math.NaN(), math.NaN())
		c.Order()
		return c, nil
	}
}

// decayCircuitFactory excites one qubit, lets it idle, and measures.
func decayCircuitFactory(t1, t2 float64) montecarlo.CircuitFactory {
	return func(smp sampler.Sampler) (*circuit.Circuit, error) {
		c := circuit.New("decay")
		if err := c.AddQubit("A", t1, t2); err != nil {
			return nil, err
		}
		if err := c.AddClassicalBit("MA"); err != nil {
			return nil, err
		}
		c.AddRotateX("A", 0, math.Pi)
		c.AddMeasurement("A", t1, smp, "MA")
		c.AddWaitingGates(nil, math.NaN(), math.NaN())
		c.Order()
		return c, nil
	}
}

func main() {
	parse()
}

type runCmd struct{}

func newRunCmd() *runCmd {
	return &runCmd{}
}

func (c *runCmd) Execute(args []string) error {
	logger := log.SetZap(simd.Conf)
	defer logger.Sync()

	core.SetVersion(simd.Conf, versionByBuildFlag)
	log.VersionLog()

	core.ResetSetting()
	registerSetting()
	zap.L().Debug("Registered setting")
	if err := core.ParseSettingFromPath(simd.Conf.SettingPath); err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse settings/reason:%s", err))
		return err
	}

	zap.L().Debug(fmt.Sprintf("Providing DI Container with parameters %+v", simd.DIContainerParameters))
	container, err := simd.provideDIContainer()
	if err != nil {
		zap.L().Error(fmt.Sprintf("Failed to setting up DI-Container. Reason:%s", err.Error()))
		return err
	}

	var recorder *log.RunMetricsRecorder
	if simd.Conf.EnableMetricsLog {
		recorder, err = log.NewRunMetricsRecorder(simd.Conf.MetricsLogDir)
		if err != nil {
			zap.L().Error(fmt.Sprintf("Failed to setting up metrics recorder. Reason:%s", err.Error()))
			return err
		}
		defer recorder.Close()
	}

	return container.Invoke(func(runner *montecarlo.Runner) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var g run.Group
		g.Add(run.SignalHandler(ctx, os.Interrupt))
		g.Add(func() error {
			rs := runner.Setting
			rd := montecarlo.NewRunData(simd.DIContainerParameters.Circuit, rs.Shots, rs.Seed, rs.Sampler)
			err := runner.Run(ctx, rd)
			if recorder != nil {
				recorder.Record(rd)
			}
			if err != nil {
				return err
			}
			fmt.Println(rd.Result.String())
			return nil
		}, func(error) {
			cancel()
		})

		if err := g.Run(); err != nil {
			if _, ok := err.(run.SignalError); ok {
				zap.L().Info(fmt.Sprintf("Stopped by signal. Reason:%s", err))
				return nil
			}
			fmt.Fprintf(os.Stderr, "execution error:%v\n", err)
			return err
		}
		return nil
	})
}

func registerSetting() {
	core.RegisterSetting(montecarlo.RunSettingKey, montecarlo.NewDefaultRunSetting())
}
