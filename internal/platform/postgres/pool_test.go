package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ygodeck/internal/config"
)

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://app:secret@db:5432/ygodeck", "postgres://***@db:5432/ygodeck"},
		{"postgres://db:5432/ygodeck", "postgres://db:5432/ygodeck"},
		{"host=db user=app", "host=db user=app"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactDSN(tt.dsn))
	}
}

func TestOpen_BadDSNIsRedacted(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{DSN: "postgres://app:secret@db:notaport/ygodeck"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}
