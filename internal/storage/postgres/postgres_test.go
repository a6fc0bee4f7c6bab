package postgres

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhstats/genrep/internal/database"
	"github.com/zhstats/genrep/pkg/core"
)

func TestNew_FallsBackToSQLite(t *testing.T) {
	t.Cleanup(viper.Reset)
	// nothing listens on port 1
	viper.Set("db.host", "127.0.0.1")
	viper.Set("db.port", "1")

	b, err := New(zerolog.Nop(), filepath.Join(t.TempDir(), "fallback.db"), nil)
	require.NoError(t, err)
	assert.Equal(t, database.DriverSQLite, b.Driver())

	require.NoError(t, b.Init())
	require.NoError(t, b.Store(&core.Record{Path: "a.rep"}))
	require.NoError(t, b.Close())
}
