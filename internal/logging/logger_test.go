package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	tests := []struct {
		level, env string
		want       zapcore.Level
	}{
		{"debug", "dev", zapcore.DebugLevel},
		{"WARN", "prod", zapcore.WarnLevel},
		{"nonsense", "dev", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.env, func(t *testing.T) {
			l, err := Init(tt.level, tt.env)
			require.NoError(t, err)
			defer l.Closer()
			assert.Equal(t, tt.want, l.Level.Level())
			assert.NotNil(t, l.Sugar)
		})
	}
}
