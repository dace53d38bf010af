package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Query    string `validate:"notblank"`
	Category string `validate:"omitempty,category"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		in    sample
		valid bool
	}{
		{"plain", sample{Query: "coffee $5"}, true},
		{"known category", sample{Query: "x", Category: "Dining"}, true},
		{"blank query", sample{Query: " \t "}, false},
		{"unknown category", sample{Query: "x", Category: "crypto"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate.Struct(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
