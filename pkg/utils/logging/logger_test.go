package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/safetylens/safetytracker/pkg/utils/logging"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		in      string
		want    logging.Format
		wantErr bool
	}{
		{in: "", want: logging.FormatAuto},
		{in: "auto", want: logging.FormatAuto},
		{in: "JSON", want: logging.FormatJSON},
		{in: "console", want: logging.FormatConsole},
		{in: "xml", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := logging.ParseFormat(tc.in)
			if tc.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tc.want)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	gt.Equal(t, logging.ParseLogLevel("DEBUG"), slog.LevelDebug)
	gt.Equal(t, logging.ParseLogLevel("warning"), slog.LevelWarn)
	gt.Equal(t, logging.ParseLogLevel("error"), slog.LevelError)
	gt.Equal(t, logging.ParseLogLevel("verbose"), slog.LevelInfo)
}

func TestNewLoggerWithFormat(t *testing.T) {
	t.Run("auto falls back to JSON for non-terminal writers", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewLogger(slog.LevelInfo, &buf)
		logger.Info("Dataset loaded", "records", 6)

		gt.S(t, buf.String()).Contains(`"msg":"Dataset loaded"`)
		gt.S(t, buf.String()).Contains(`"records":6`)
	})

	t.Run("level filters records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewLoggerWithFormat(slog.LevelWarn, &buf, logging.FormatJSON)
		logger.Info("hidden")
		gt.Equal(t, buf.Len(), 0)
	})

	t.Run("console writes plain text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.NewLoggerWithFormat(slog.LevelInfo, &buf, logging.FormatConsole)
		logger.Info("Dashboard warmed up")
		gt.S(t, buf.String()).Contains("Dashboard warmed up")
	})
}
