// Package montecarlo repeats a circuit replay over fresh states and
// aggregates the declared measurement outcomes into counts. Trials are
// distributed over a worker pool; each worker owns a circuit instance and
// a sampler stream of its own. Single-worker runs are bitwise
// reproducible for a fixed seed; multi-worker runs are statistically
// equivalent but split the trial queue by scheduling.
package montecarlo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/densim-team/densim-engine/simcore/circuit"
	"github.com/densim-team/densim-engine/simcore/sampler"
	"github.com/densim-team/densim-engine/simcore/sparsedm"
)

const meterName = "github.com/densim-team/densim-engine/simcore/montecarlo"

// CircuitFactory builds a fresh circuit wired to the given sampler.
// It is called once per worker; the returned circuit must not be shared.
type CircuitFactory func(s sampler.Sampler) (*circuit.Circuit, error)

// Runner executes Monte Carlo runs with a fixed worker pool size.
type Runner struct {
	Setting    RunSetting
	NewCircuit CircuitFactory

	trialCounter metric.Int64Counter
}

func NewRunner(rs RunSetting, factory CircuitFactory) (*Runner, error) {
	if factory == nil {
		return nil, fmt.Errorf("montecarlo runner needs a circuit factory")
	}
	if rs.Workers < 1 {
		rs.Workers = 1
	}
	meter := otel.Meter(meterName)
	tc, err := meter.Int64Counter(
		"simcore.montecarlo.trials",
		metric.WithDescription("finished Monte Carlo trials"))
	if err != nil {
		return nil, err
	}
	return &Runner{
		Setting:      rs,
		NewCircuit:   factory,
		trialCounter: tc,
	}, nil
}

// workerResult is one worker's share of a run.
type workerResult struct {
	counts   Counts
	traceSum float64
	trials   int
	err      error
}

// Run executes rd.Shots trials and fills rd.Result in place. The run fails
// as a whole when any trial fails; the partial counts of the other workers
// are kept in the result for inspection.
func (r *Runner) Run(ctx context.Context, rd *RunData) error {
	started := time.Now()
	rd.Status = RUNNING
	zap.L().Info(fmt.Sprintf("Starting run %s with %d shot(s) on %d worker(s)",
		rd.ID, rd.Shots, r.Setting.Workers))

	queue := newConqFIFO()
	for i := 0; i < rd.Shots; i++ {
		if err := queue.Enqueue(&trial{index: i}); err != nil {
			rd.Status = FAILED
			return fmt.Errorf("failed to enqueue trial %d. Reason:%s", i, err)
		}
	}

	results := make([]workerResult, r.Setting.Workers)
	var wg sync.WaitGroup
	for w := 0; w < r.Setting.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			results[w] = r.runWorker(ctx, rd, int64(w), queue)
		}(w)
	}
	wg.Wait()

	result := &Result{Counts: Counts{}}
	var errs error
	trials := 0
	traceSum := 0.0
	for _, wr := range results {
		errs = multierr.Append(errs, wr.err)
		for k, v := range wr.counts {
			result.Counts[k] += v
		}
		trials += wr.trials
		traceSum += wr.traceSum
	}
	if trials > 0 {
		result.TraceMean = traceSum / float64(trials)
	}
	result.ExecutionTime = time.Since(started)

	rd.Result = result
	rd.Ended = strfmt.DateTime(time.Now())
	if errs != nil {
		rd.Status = FAILED
		result.Message = errs.Error()
		zap.L().Error(fmt.Sprintf("Run %s failed. Reason:%s", rd.ID, errs))
		return errs
	}
	rd.Status = SUCCEEDED
	zap.L().Info(fmt.Sprintf("Run %s succeeded with %d trial(s) in %s",
		rd.ID, trials, result.ExecutionTime))
	return nil
}

// runWorker drains the trial queue with a worker-private circuit and
// sampler. Seeds are offset by the worker index to keep the streams
// independent.
func (r *Runner) runWorker(ctx context.Context, rd *RunData, worker int64, queue fifo) workerResult {
	wr := workerResult{counts: Counts{}}

	smp, err := r.Setting.NewSampler(rd.Seed + worker)
	if err != nil {
		wr.err = fmt.Errorf("worker %d failed to build sampler. Reason:%s", worker, err)
		return wr
	}
	c, err := r.NewCircuit(smp)
	if err != nil {
		wr.err = fmt.Errorf("worker %d failed to build circuit. Reason:%s", worker, err)
		return wr
	}
	c.Order()
	measurements := c.Measurements()

	bits := make([]string, 0)
	for _, b := range c.Bits() {
		bits = append(bits, b.Name())
	}

	attrs := metric.WithAttributes(
		attribute.String("run_id", rd.ID),
		attribute.Int64("worker", worker))
	for {
		select {
		case <-ctx.Done():
			wr.err = multierr.Append(wr.err, ctx.Err())
			return wr
		default:
		}
		if _, err := queue.Dequeue(); err != nil {
			// Empty queue, worker is done.
			return wr
		}
		state, err := sparsedm.New(bits)
		if err != nil {
			wr.err = multierr.Append(wr.err, err)
			return wr
		}
		if err := c.ApplyTo(state); err != nil {
			wr.err = multierr.Append(wr.err, err)
			return wr
		}
		wr.counts[outcomeKey(measurements)]++
		wr.traceSum += state.Trace()
		wr.trials++
		r.trialCounter.Add(ctx, 1, attrs)
	}
}

// outcomeKey concatenates the latest declared outcome of every measurement
// gate, in gate order.
func outcomeKey(measurements []*circuit.Measurement) string {
	var sb strings.Builder
	for _, m := range measurements {
		ms := m.Measurements()
		if len(ms) == 0 {
			continue
		}
		sb.WriteString(strconv.Itoa(ms[len(ms)-1]))
	}
	return sb.String()
}
