package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contractor/errors"
)

func TestCasingApply(t *testing.T) {
	tests := []struct {
		input  string
		casing Casing
		want   string
	}{
		{"PersonDto", Pascal, "PersonDto"},
		{"personDto", Pascal, "PersonDto"},
		{"PersonDto", Camel, "personDto"},
		{"PersonDto", Kebab, "person-dto"},
		{"PersonDto", Snake, "person_dto"},
		{"TypeScript", Kebab, "type-script"},
		{"DTOItem", Kebab, "d-t-o-item"},
		{"orders", Kebab, "orders"},
		{"OrdersClient", Snake, "orders_client"},
		{"", Kebab, ""},
		{"", Pascal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.casing.String()+"/"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.casing.Apply(tt.input))
		})
	}
}

func TestParseCasing(t *testing.T) {
	tests := []struct {
		input string
		want  Casing
	}{
		{"pascal", Pascal},
		{"Camel", Camel},
		{" kebab ", Kebab},
		{"SNAKE", Snake},
	}
	for _, tt := range tests {
		got, err := ParseCasing(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseCasingUnknown(t *testing.T) {
	_, err := ParseCasing("upper")
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), `"upper"`)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestUnknownCasingApplyIsIdentity(t *testing.T) {
	assert.Equal(t, "PersonDto", Casing(42).Apply("PersonDto"))
	assert.Equal(t, "unknown", Casing(42).String())
}
