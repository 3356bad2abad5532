package core

type Conf struct {
	Version            string `long:"version" description:"version of the simulator" env:"DENSIM_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"DENSIM_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"DENSIM_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"DENSIM_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"DENSIM_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"DENSIM_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"DENSIM_LOG_ROTATION_MAX_DAYS"`
	EnableMetricsLog   bool   `long:"enable-metrics-log" description:"write run metrics to a daily json file" env:"DENSIM_ENABLE_METRICS_LOG"`
	MetricsLogDir      string `long:"metrics-log-dir" description:"run metrics file dir" default:"./shares/metrics" env:"DENSIM_METRICS_LOG_DIR"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"DENSIM_SETTING_PATH"`
}
