package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSummary(t *testing.T) {
	assert.Equal(t, "built 1,200 words into /tmp/wordswap.bin", buildSummary(1200, "/tmp/wordswap.bin"))
	assert.Equal(t, "built 3 words (snapshot disabled)", buildSummary(3, ""))
}
