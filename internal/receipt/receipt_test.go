package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStripsAccountDigits(t *testing.T) {
	when := time.Date(2023, 10, 18, 14, 30, 0, 0, time.Local)
	html, err := Render("12345 Smith", "$50.00", when, "AUTH1")
	require.NoError(t, err)

	assert.Contains(t, html, "for Smith")
	assert.NotContains(t, html, "12345")
	assert.Contains(t, html, "$50.00")
	assert.Contains(t, html, "AUTH1")
	assert.Contains(t, html, "18-10-2023 14:30:00")
}

func TestRenderNumericLabelHasNoName(t *testing.T) {
	html, err := Render("00000", "$25.00", time.Unix(1700000000, 0), "AUTH2")
	require.NoError(t, err)

	assert.Contains(t, html, "Payment receipt</h1>")
	assert.Contains(t, html, "AUTH2")
}

func TestRenderEmptyName(t *testing.T) {
	html, err := Render("", "$5.00", time.Unix(1700000000, 0), "AUTH3")
	require.NoError(t, err)
	assert.Contains(t, html, "Payment receipt</h1>")
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12345 Smith", " Smith"},
		{"00000 - New Customer", " New Customer"},
		{"00000", ""},
		{"", ""},
		{"Jones", " Jones"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, displayName(tt.in), tt.in)
	}
}
