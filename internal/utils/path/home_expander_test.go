package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/ghflow/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/alice"

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare tilde", input: "~", expected: testHomeDirectoryConstant},
		{name: "tilde prefix", input: "~/src/ghflow", expected: filepath.Join(testHomeDirectoryConstant, "src/ghflow")},
		{name: "other user", input: "~bob/src", expected: "~bob/src"},
		{name: "absolute path", input: "/srv/ghflow", expected: "/srv/ghflow"},
		{name: "empty", input: "", expected: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderKeepsPathWhenHomeIsUnknown(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/logs/ghflow.log", expander.Expand("~/logs/ghflow.log"))
}

func TestHomeExpanderResolveDirectory(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	resolvedHome, homeError := expander.ResolveDirectory("~/work")
	require.NoError(testInstance, homeError)
	require.Equal(testInstance, filepath.Join(testHomeDirectoryConstant, "work"), resolvedHome)

	resolvedCurrent, currentError := expander.ResolveDirectory("  ")
	require.NoError(testInstance, currentError)
	require.True(testInstance, filepath.IsAbs(resolvedCurrent))
}
