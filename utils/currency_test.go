package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCompactINR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1.0K"},
		{45500, "₹45.5K"},
		{100000, "₹1.0L"},
		{250000, "₹2.5L"},
		{10000000, "₹1.0Cr"},
		{123400000, "₹12.3Cr"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCompactINR(tt.amount))
	}
}
