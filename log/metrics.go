package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/densim-team/densim-engine/simcore/common"
	"github.com/densim-team/densim-engine/simcore/core"
	"github.com/densim-team/densim-engine/simcore/montecarlo"
)

const (
	runIDKeyInMetrics     = "run_id"
	shotsKeyInMetrics     = "shots"
	statusKeyInMetrics    = "status"
	traceMeanKeyInMetrics = "trace_mean"
	durationKeyInMetrics  = "duration_ms"
)

// RunMetricsRecorder appends one JSON line per finished run to a daily
// metrics file, separate from the application log.
type RunMetricsRecorder struct {
	dl *dailyLogger
	sl *slog.Logger
}

func NewRunMetricsRecorder(fileDir string) (*RunMetricsRecorder, error) {
	if err := common.IsDirWritable(fileDir); err != nil {
		zap.L().Error("failed to set up run metrics recorder", zap.Error(err))
		return nil, fmt.Errorf("failed to write to %s: %w", fileDir, err)
	}
	dl := newDailyLogger(fileDir)
	return &RunMetricsRecorder{
		dl: dl,
		sl: slog.New(slog.NewJSONHandler(dl, nil)),
	}, nil
}

func (r *RunMetricsRecorder) Record(rd *montecarlo.RunData) {
	r.sl.Info(
		"Metrics",
		slog.String(runIDKeyInMetrics, rd.ID),
		slog.Int(shotsKeyInMetrics, rd.Shots),
		slog.String(statusKeyInMetrics, rd.Status.String()),
		slog.Float64(traceMeanKeyInMetrics, rd.Result.TraceMean),
		slog.Int64(durationKeyInMetrics, rd.Result.ExecutionTime.Milliseconds()),
	)
}

func (r *RunMetricsRecorder) Close() {
	r.dl.Close()
}

type dailyLogger struct {
	mu              sync.Mutex
	fileDir         string
	currentFileName string
	file            *os.File
}

func newDailyLogger(fileDir string) *dailyLogger {
	return &dailyLogger{
		fileDir: fileDir,
	}
}

func (dl *dailyLogger) Write(p []byte) (n int, err error) {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	fileName := fmt.Sprintf("metrics-%s.log", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(dl.fileDir, fileName)
	currentFilePath := filepath.Join(dl.fileDir, dl.currentFileName)

	if dl.file == nil || currentFilePath != filePath {
		if dl.file != nil {
			dl.file.Close()
		}
		var err error
		dl.file, err = os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return 0, err
		}
		dl.currentFileName = fileName
	}

	return dl.file.Write(p)
}

func (dl *dailyLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	if dl.file != nil {
		return dl.file.Close()
	}
	return nil
}

// VersionLog writes the running version at debug level.
func VersionLog() {
	zap.L().Debug("simd version:" + core.Version)
}
