package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	logrus "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestSetupWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	Setup(file, "warn")
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())

	logrus.Info("hidden")
	logrus.Warn("visible")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
	assert.NotContains(t, string(data), "hidden")
}

func TestSetupFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	Setup("", "loud")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func newBufferedLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(level)
	return l, &buf
}

func TestGormLoggerTrace(t *testing.T) {
	l, buf := newBufferedLogger(logrus.DebugLevel)
	g := NewGormLogger(l)
	sql := func() (string, int64) { return "SELECT * FROM trucks", 2 }

	g.Trace(context.Background(), time.Now(), sql, nil)
	assert.Contains(t, buf.String(), "SELECT * FROM trucks")

	buf.Reset()
	g.Trace(context.Background(), time.Now(), sql, errors.New("no such table"))
	assert.Contains(t, buf.String(), "query failed")
	assert.Contains(t, buf.String(), "no such table")

	buf.Reset()
	g.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.NotContains(t, buf.String(), "query failed")
}

func TestGormLoggerQuietAboveDebug(t *testing.T) {
	l, buf := newBufferedLogger(logrus.InfoLevel)
	g := NewGormLogger(l)

	g.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String())

	g.LogMode(gormlogger.Silent).Error(context.Background(), "boom %d", 1)
	assert.Empty(t, buf.String())
}
