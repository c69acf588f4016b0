package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	require.True(t, names["server"])
	require.True(t, names["dashboard"])
	require.True(t, names["bot"])

	addr := serverCmd.Flags().Lookup("addr")
	require.NotNil(t, addr)
	require.Equal(t, ":8000", addr.DefValue)
	require.Equal(t, ":8501", dashboardCmd.Flags().Lookup("addr").DefValue)
	require.NotNil(t, dashboardCmd.Flags().Lookup("camera"))
}
