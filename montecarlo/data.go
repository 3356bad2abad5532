package montecarlo

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

type Status int // Lifecycle of one Monte Carlo run.
type Counts map[string]uint32

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	READY     Status = iota // Accepted but not yet started.
	RUNNING                 // Trials in flight.
	SUCCEEDED               // All trials finished.
	FAILED                  // Finished with at least one trial error.
)

func (s Status) String() string {
	switch s {
	case READY:
		return "ready"
	case RUNNING:
		return "running"
	case SUCCEEDED:
		return "succeeded"
	case FAILED:
		return "failed"
	default:
		return "unknown"
	}
}

func ToStatus(s string) (Status, error) {
	switch s {
	case "ready":
		return READY, nil
	case "running":
		return RUNNING, nil
	case "succeeded":
		return SUCCEEDED, nil
	case "failed":
		return FAILED, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", s)
	}
}

func (c Counts) String() string {
	st, err := jsonIter.Marshal(c)
	if err != nil {
		zap.L().Error("Failed to marshal montecarlo.Counts")
		return ""
	}
	return string(st)
}

// Result is the aggregate outcome of a finished run. Counts keys are the
// declared measurement outcomes of one trial, concatenated in gate order.
type Result struct {
	Counts        Counts        `json:"counts"`
	TraceMean     float64       `json:"trace_mean"`
	Message       string        `json:"message"`
	ExecutionTime time.Duration `json:"execution_time"`
}

func (r *Result) String() string {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		zap.L().Error("Failed to marshal montecarlo.Result")
		return ""
	}
	return string(pretty.Pretty(st))
}

// RunData carries one Monte Carlo run through its lifecycle.
type RunData struct {
	ID      string
	Title   string
	Shots   int
	Seed    int64
	Sampler string
	Status  Status
	Result  *Result
	Created strfmt.DateTime
	Ended   strfmt.DateTime
}

// NewRunData builds a ready run with a fresh ID.
func NewRunData(title string, shots int, seed int64, samplerName string) *RunData {
	return &RunData{
		ID:      uuid.NewString(),
		Title:   title,
		Shots:   shots,
		Seed:    seed,
		Sampler: samplerName,
		Status:  READY,
		Result:  &Result{Counts: Counts{}},
		Created: strfmt.DateTime(time.Now()),
	}
}

func (rd *RunData) Clone() *RunData {
	c := deepcopy.Copy(rd).(*RunData)
	c.Created = *rd.Created.DeepCopy()
	c.Ended = *rd.Ended.DeepCopy()
	return c
}
