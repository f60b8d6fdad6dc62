package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Azúcar", "azucar"},
		{"CAFÉ MOLIDO", "cafe molido"},
		{"Jalapeño", "jalapeno"},
		{"leche", "leche"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Fold(tc.in), "Fold(%q)", tc.in)
	}
}
