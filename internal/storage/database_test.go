package storage

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qna_web/pkg/config"
)

func TestOpen_SQLite(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	db, err := Open(config.DBConfig{
		Driver:     "sqlite",
		Path:       filepath.Join(t.TempDir(), "qna.db"),
		LogQueries: true,
	}, log)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping(context.Background()))
	require.NoError(t, db.AutoMigrate())

	for _, table := range []string{"users", "questions", "answers", "question_voter", "answer_voter"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.Contains(t, buf.String(), `"component":"gorm"`)

	buf.Reset()
	require.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	assert.Contains(t, buf.String(), "query failed")
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(config.DBConfig{Driver: "mysql"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unsupported database driver")
}
