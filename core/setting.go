package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/densim-team/densim-engine/simcore/common"
	"go.uber.org/zap"
)

var globalSetting *Setting

// Setting holds the per-component settings parsed from the TOML setting
// file. Components register their default setting structs at startup and
// read them back, possibly overridden by the file, through
// GetComponentSetting.
type Setting struct {
	ComponentSetting map[string]interface{} `toml:"com,omitempty"`
}

func ResetSetting() {
	globalSetting = &Setting{
		ComponentSetting: make(map[string]interface{}),
	}
}

func RegisterSetting(settingName string, settingVal interface{}) {
	globalSetting.ComponentSetting[settingName] = settingVal
}

func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := common.ReadSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	return globalSetting.parseSetting(tomlString)
}

func GetGlobalSetting() *Setting {
	return globalSetting
}

func GetComponentSetting(name string) (interface{}, bool) {
	if globalSetting == nil {
		zap.L().Error("Setting is not initialized")
		return nil, false
	}
	val, ok := globalSetting.ComponentSetting[name]
	return val, ok
}

func (s *Setting) parseSetting(tomlString string) error {
	_, err := toml.Decode(tomlString, s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	return nil
}
