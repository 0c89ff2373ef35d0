package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
	}{
		{
			name:     "bare SQL",
			response: "SELECT * FROM customers",
			want:     "SELECT * FROM customers",
		},
		{
			name:     "sql fence",
			response: "```sql\nSELECT id, name\nFROM customers\n```",
			want:     "SELECT id, name FROM customers",
		},
		{
			name:     "plain fence",
			response: "```\nSELECT 1\n```",
			want:     "SELECT 1",
		},
		{
			name:     "comment lines dropped",
			response: "-- all customers\nSELECT * FROM customers\n# done",
			want:     "SELECT * FROM customers",
		},
		{
			name:     "trailing commentary after fence dropped",
			response: "```sql\nSELECT count(*) FROM orders\n```\nThis counts the orders.",
			want:     "SELECT count(*) FROM orders",
		},
		{
			name:     "multiline joined",
			response: "SELECT o.id\nFROM orders o\nJOIN customers c ON c.id = o.customer_id",
			want:     "SELECT o.id FROM orders o JOIN customers c ON c.id = o.customer_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFromResponse(tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractFromResponseEmpty(t *testing.T) {
	for _, response := range []string{"", "   ", "```sql\n```", "-- just a comment"} {
		_, err := ExtractFromResponse(response)
		assert.ErrorIs(t, err, ErrEmptyResponse, "response: %q", response)
	}
}
