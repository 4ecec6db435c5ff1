package logging_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mogud/snowdi/core/logging"
	"github.com/stretchr/testify/assert"
)

type sample struct{}

func TestParseLevel(t *testing.T) {
	for _, c := range []struct {
		in  string
		out logging.Level
	}{
		{"trace", logging.TRACE},
		{"DEBUG", logging.DEBUG},
		{" Info ", logging.INFO},
		{"4", logging.WARN},
		{"none", logging.NONE},
	} {
		l, err := logging.ParseLevel(c.in)
		assert.NoError(t, err, c.in)
		assert.Equal(t, c.out, l, c.in)
	}

	_, err := logging.ParseLevel("loud")
	assert.Error(t, err)
	_, err = logging.ParseLevel("9")
	assert.Error(t, err)

	assert.Equal(t, "INFO", logging.INFO.String())
}

func TestFormatter(t *testing.T) {
	data := &logging.LogData{
		Time:    time.Date(2024, 3, 5, 7, 8, 9, 120_000_000, time.Local),
		Name:    "averyveryverylongname",
		Level:   logging.WARN,
		Message: func() string { return "hello" },
	}

	line := logging.DefaultLogFormatter(data)
	assert.True(t, strings.HasPrefix(line, "2024/03/05 07:08:09.12  WARN"), line)
	assert.Contains(t, line, "averyveryveryl..")
	assert.True(t, strings.HasSuffix(line, " hello"))
	assert.NotContains(t, line, "\x1b[")

	colored := logging.ColorLogFormatter(data)
	assert.Contains(t, colored, "\x1b[1;33m")
	assert.True(t, strings.HasSuffix(colored, "\x1b[0m"))

	formatters := logging.NewLogFormatterContainer()
	assert.NotNil(t, formatters.GetFormatter("Default"))
	assert.NotNil(t, formatters.GetFormatter("Color"))
	assert.Nil(t, formatters.GetFormatter("Fancy"))
}

func TestDefaultLogger(t *testing.T) {
	var records []*logging.LogData
	h := logging.LogHandlerFunc(func(data *logging.LogData) {
		records = append(records, data)
	})

	logger := logging.NewDefaultLogger("app", h, func(data *logging.LogData) {
		data.Custom = append(data.Custom, "built")
	})
	logger.Infof("a=%d", 1)
	logger.With("worker", "42").Errorf("b")

	if assert.Len(t, records, 2) {
		assert.Equal(t, "app", records[0].Path)
		assert.Equal(t, logging.INFO, records[0].Level)
		assert.Equal(t, "a=1", records[0].Message())
		assert.Equal(t, []any{"built"}, records[0].Custom)

		assert.Equal(t, "worker", records[1].Name)
		assert.Equal(t, "42", records[1].ID)
		assert.Equal(t, logging.ERROR, records[1].Level)
	}

	assert.NotPanics(t, func() {
		logging.NewDefaultLogger("nil", nil, nil).Infof("dropped")
	})
}

func TestNewLogger(t *testing.T) {
	var path string
	logger := logging.NewLogger[*sample](logging.LogHandlerFunc(func(data *logging.LogData) {
		path = data.Path
	}), nil)
	logger.Debugf("x")
	assert.Equal(t, "github.com/mogud/snowdi/core/logging_test/sample", path)
	assert.Equal(t, "int", logging.TypePath[int]())
}

func TestSimpleLogHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	logging.NewDefaultLogger("p", logging.NewSimpleLogHandler(buf), nil).Infof("simple")
	assert.Contains(t, buf.String(), " INFO")
	assert.True(t, strings.HasSuffix(buf.String(), "simple\n"))
}
