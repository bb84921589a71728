package arguments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsServer(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			args: nil,
			want: Config{
				NatsSubject:    "fees.configuration",
				HPServer:       "0.0.0.0:8000",
				CacheSize:      128,
				CacheTimeLimit: 30 * time.Second,
				LogLevel:       "info",
			},
		},
		{
			name: "flags",
			args: []string{"-d", "postgres://fees@localhost/fees", "-n", "0.0.0.0:4222", "-cs", "5", "-ctl", "2"},
			want: Config{
				PostgresDSN:    "postgres://fees@localhost/fees",
				NatsURL:        "0.0.0.0:4222",
				NatsSubject:    "fees.configuration",
				HPServer:       "0.0.0.0:8000",
				CacheSize:      5,
				CacheTimeLimit: 2 * time.Second,
				LogLevel:       "info",
			},
		},
		{
			name: "env wins over flags",
			env:  map[string]string{"HTTP_URL": "127.0.0.1:9000", "CACHE_SIZE": "7", "LOG_LEVEL": "debug"},
			args: []string{"-s", "0.0.0.0:8080", "-cs", "5"},
			want: Config{
				NatsSubject:    "fees.configuration",
				HPServer:       "127.0.0.1:9000",
				CacheSize:      7,
				CacheTimeLimit: 30 * time.Second,
				LogLevel:       "debug",
			},
		},
		{
			name:    "bad cache size",
			args:    []string{"-cs", "0"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"-zzz"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := ParseArgsServer(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}
