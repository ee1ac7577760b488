package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/riskibarqy/tournament-desk/internal/config"
	cacherepo "github.com/riskibarqy/tournament-desk/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/tournament-desk/internal/infrastructure/repository/csvfile"
	"github.com/riskibarqy/tournament-desk/internal/platform/logging"
	"github.com/riskibarqy/tournament-desk/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClock() clockwork.Clock {
	return clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
}

func TestNewRuntime_CSVBackendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	cfg := config.Config{StoreBackend: config.StoreBackendCSV, StoreCSVPath: path}

	rt, err := NewRuntime(context.Background(), cfg, testClock(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	assert.IsType(t, &csvfile.Store{}, rt.Store)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestNewRuntime_MemoryBackendWithSeedAndCache(t *testing.T) {
	cfg := config.Config{
		StoreBackend:  config.StoreBackendMemory,
		StoreSeedDemo: true,
		CacheEnabled:  true,
		CacheTTL:      time.Minute,
	}

	rt, err := NewRuntime(context.Background(), cfg, testClock(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	assert.IsType(t, &cacherepo.TeamTableStore{}, rt.Store)

	games, err := rt.Service.ListGamesWithTeams(context.Background())
	require.NoError(t, err)
	assert.Len(t, games, 4)
}

func TestNewRuntime_UnknownBackend(t *testing.T) {
	_, err := NewRuntime(context.Background(), config.Config{StoreBackend: "sqlite"}, testClock(), logging.NewNop())
	require.Error(t, err)
}

func TestNewHTTPServer(t *testing.T) {
	rt, err := NewRuntime(context.Background(), config.Config{StoreBackend: config.StoreBackendMemory}, testClock(), logging.NewNop())
	require.NoError(t, err)

	t.Run("requires addr", func(t *testing.T) {
		_, err := NewHTTPServer(config.Config{}, rt.Service, logging.NewNop())
		require.Error(t, err)
	})

	t.Run("requires service", func(t *testing.T) {
		var service *usecase.TournamentService
		_, err := NewHTTPServer(config.Config{HTTPAddr: ":0"}, service, logging.NewNop())
		require.Error(t, err)
	})

	t.Run("builds server", func(t *testing.T) {
		srv, err := NewHTTPServer(config.Config{
			HTTPAddr:     ":8080",
			ReadTimeout:  time.Second,
			WriteTimeout: 2 * time.Second,
		}, rt.Service, logging.NewNop())
		require.NoError(t, err)
		assert.Equal(t, ":8080", srv.Addr)
		assert.Equal(t, 2*time.Second, srv.WriteTimeout)
		assert.NotNil(t, srv.Handler)
	})
}

func TestRuntime_CloseNil(t *testing.T) {
	var rt *Runtime
	require.NoError(t, rt.Close())
}
