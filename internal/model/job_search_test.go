package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeJobTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Data Scientist", "data scientist"},
		{"  DATA SCIENTIST  ", "data scientist"},
		{"DevOps Engineer", "devops engineer"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeJobTitle(tt.input))
	}
}
