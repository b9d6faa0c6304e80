package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

func TestListenAddr(t *testing.T) {
	withServices(t, nil, nil)

	addr, err := listenAddr(9000, false)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", addr)

	addr, err = listenAddr(9000, true)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", addr, "an explicit port wins over --http")

	addr, err = listenAddr(0, false)
	require.NoError(t, err)
	assert.Empty(t, addr, "stdio")
}

func TestListenAddr_HTTPUsesSettings(t *testing.T) {
	withServices(t, nil, nil)
	t.Setenv("REPORTRAG_SERVER_ADDR", "")
	require.NoError(t, os.Unsetenv("REPORTRAG_SERVER_ADDR"))

	addr, err := listenAddr(0, true)

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultServerAddr, addr)
}

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("http"))
}
