package shipping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rowanmarsh/verdi/internal/shipping"
)

func TestDefaultTable_FeeCents(t *testing.T) {
	table := shipping.DefaultTable()

	tests := []struct {
		city     string
		expected int64
	}{
		{"cairo", 5000},
		{"Cairo", 5000},
		{"  CAIRO  ", 5000},
		{"giza", 5000},
		{"alexandria", 7500},
		{"Alexandria", 7500},
		{"luxor", 10000},
		{"", 10000},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.FeeCents(tt.city))
		})
	}
}

func TestNewFlatRateTable_NormalizesKeys(t *testing.T) {
	table := shipping.NewFlatRateTable(map[string]int64{"Springfield": 1200}, 9900)

	assert.Equal(t, int64(1200), table.FeeCents("springfield"))
	assert.Equal(t, int64(1200), table.FeeCents("SPRINGFIELD"))
	assert.Equal(t, int64(9900), table.FeeCents("shelbyville"))
}
