package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostfolk/pveforge/pkg/provision"
)

func TestRunPlainPreservesPercentSigns(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	result, err := RunPlain(logger, func(progress provision.ProgressCallback) (*provision.Result, error) {
		progress(provision.NewProgressEvent(provision.StageCreating, "rootfs is 50% allocated", 35))
		progress(provision.NewProgressEvent(provision.StageComplete, "100% done", 100))
		return &provision.Result{ID: 100}, nil
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	out := buf.String()
	assert.Contains(t, out, "rootfs is 50% allocated")
	assert.Contains(t, out, "100% done")
	assert.NotContains(t, out, "%!", "percent signs in messages must print literally")
}

func TestRunPlainErrorEventsPrintVerbatim(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	_, err := RunPlain(logger, func(progress provision.ProgressCallback) (*provision.Result, error) {
		progress(provision.NewErrorEvent("disk at 95% capacity"))
		return &provision.Result{}, nil
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "disk at 95% capacity")
	assert.NotContains(t, buf.String(), "%!")
}
