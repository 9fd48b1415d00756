package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/ghflow/internal/utils"
)

const (
	testEnvironmentPrefixConstant           = "TESTGHFLOW"
	testEnvironmentLogLevelVariableConstant = "TESTGHFLOW_COMMON_LOG_LEVEL"
	testLogLevelKeyConstant                 = "common.log_level"
	testCommandTimeoutKeyConstant           = "common.command_timeout"
	testDefaultLogLevelConstant             = "info"
	testEmbeddedLogLevelConstant            = "debug"
	testFileLogLevelConstant                = "warn"
	testEnvironmentLogLevelConstant         = "error"
	testConfigFileNameConstant              = "config.yaml"
	testConfigContentTemplateConstant       = "common:\n  log_level: %s\n"
	testConfigurationNameConstant           = "config"
	testConfigurationTypeConstant           = "yaml"
	testSubtestNameTemplateConstant         = "%d_%s"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
}

type configurationCommonFixture struct {
	LogLevel       string        `mapstructure:"log_level"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	Remotes        []string      `mapstructure:"remotes"`
}

func TestConfigurationLoaderPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedLogLevel    string
		fileLogLevel        string
		environmentLogLevel string
		expectedLogLevel    string
	}{
		{name: "defaults apply without other sources", expectedLogLevel: testDefaultLogLevelConstant},
		{name: "embedded configuration overrides defaults", embeddedLogLevel: testEmbeddedLogLevelConstant, expectedLogLevel: testEmbeddedLogLevelConstant},
		{name: "file overrides embedded configuration", embeddedLogLevel: testEmbeddedLogLevelConstant, fileLogLevel: testFileLogLevelConstant, expectedLogLevel: testFileLogLevelConstant},
		{name: "environment overrides file", fileLogLevel: testFileLogLevelConstant, environmentLogLevel: testEnvironmentLogLevelConstant, expectedLogLevel: testEnvironmentLogLevelConstant},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			tempDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileLogLevel) > 0 {
				configurationFilePath = filepath.Join(tempDirectory, testConfigFileNameConstant)
				writeError := os.WriteFile(configurationFilePath, []byte(fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileLogLevel)), 0o600)
				require.NoError(testInstance, writeError)
			}
			if len(testCase.environmentLogLevel) > 0 {
				testInstance.Setenv(testEnvironmentLogLevelVariableConstant, testCase.environmentLogLevel)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{tempDirectory})
			if len(testCase.embeddedLogLevel) > 0 {
				configurationLoader.SetEmbeddedConfiguration([]byte(fmt.Sprintf(testConfigContentTemplateConstant, testCase.embeddedLogLevel)), testConfigurationTypeConstant)
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant}, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderDecodesDurationsAndLists(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationContent := "common:\n  command_timeout: 90s\n  remotes: origin,upstream\n"
	require.NoError(testInstance, os.WriteFile(filepath.Join(configurationDirectory, testConfigFileNameConstant), []byte(configurationContent), 0o600))

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{"", configurationDirectory})

	loadedConfiguration := configurationFixture{}
	metadata, loadError := configurationLoader.LoadConfiguration("", map[string]any{testCommandTimeoutKeyConstant: "0s"}, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, 90*time.Second, loadedConfiguration.Common.CommandTimeout)
	require.Equal(testInstance, []string{"origin", "upstream"}, loadedConfiguration.Common.Remotes)
	require.Equal(testInstance, filepath.Join(configurationDirectory, testConfigFileNameConstant), metadata.ConfigFileUsed)
}

func TestConfigurationLoaderReportsMalformedFile(testInstance *testing.T) {
	configurationFilePath := filepath.Join(testInstance.TempDir(), testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte("common: [unterminated"), 0o600))

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	_, loadError := configurationLoader.LoadConfiguration(configurationFilePath, nil, &configurationFixture{})
	require.Error(testInstance, loadError)
}
