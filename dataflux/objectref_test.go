package dataflux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectGroup_TotalSize(t *testing.T) {
	g := ObjectGroup{{Size: 10}, {Size: 20}, {Size: 30}}
	assert.Equal(t, uint64(60), g.TotalSize())
}

func TestOptimizationParams_ValidateFillsDefaultConcurrency(t *testing.T) {
	p := OptimizationParams{MaxCompositeObjectSize: 1000}
	require.NoError(t, p.Validate())
	assert.Equal(t, 1, p.GroupConcurrency)
}

func TestOptimizationParams_ValidateRejectsZeroCap(t *testing.T) {
	p := OptimizationParams{}
	assert.Error(t, p.Validate())
}

func TestOptimizationParams_ValidatePreservesExplicitConcurrency(t *testing.T) {
	p := OptimizationParams{MaxCompositeObjectSize: 1000, GroupConcurrency: 8}
	require.NoError(t, p.Validate())
	assert.Equal(t, 8, p.GroupConcurrency)
}
