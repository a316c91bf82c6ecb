package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		config     Config
		wantErr    error
		wantPrefix string
	}{
		{
			name:    "missing address",
			config:  Config{},
			wantErr: ErrAddressRequired,
		},
		{
			name:       "default prefix applied",
			config:     Config{Address: "localhost:6379"},
			wantPrefix: "codebook",
		},
		{
			name:       "custom prefix kept",
			config:     Config{Address: "localhost:6379", Prefix: "guts"},
			wantPrefix: "guts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPrefix, tt.config.Prefix)
		})
	}
}

func TestConfig_PrefixKey(t *testing.T) {
	assert.Equal(t, "codebook:dataset:x", (&Config{Prefix: "codebook"}).PrefixKey("dataset:x"))
	assert.Equal(t, "dataset:x", (&Config{}).PrefixKey("dataset:x"))
}

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, address := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		t.Run(address, func(t *testing.T) {
			client, err := New(&Config{Address: address})
			require.NoError(t, err)
			defer client.Close()

			require.NoError(t, client.Ping(context.Background()).Err())
		})
	}
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New(&Config{Address: "redis://localhost:6379/notanumber"})
	require.Error(t, err)
}
