package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConcurrency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  int
		flag int
		want int
	}{
		{"config value used when flag unset", 8, 0, 8},
		{"flag overrides config", 8, 2, 2},
		{"both unset leaves the pipeline default in charge", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveConcurrency(&Config{Concurrency: tt.cfg}, tt.flag)
			assert.Equal(t, tt.want, got)
		})
	}
}
