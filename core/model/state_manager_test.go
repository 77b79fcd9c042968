package model

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("DecisionTreeClassifier", "Predict")
	var notFitted *scierrors.NotFittedError
	require.True(t, scierrors.As(err, &notFitted))
	assert.Equal(t, "Predict", notFitted.Method)

	s.SetFitted(3, 10)
	assert.NoError(t, s.RequireFitted("DecisionTreeClassifier", "Predict"))
	nf, ns := s.GetDimensions()
	assert.Equal(t, 3, nf)
	assert.Equal(t, 10, ns)

	assert.NoError(t, s.RequireFeatures("Predict", 3))
	err = s.RequireFeatures("Predict", 4)
	assert.True(t, scierrors.Is(err, scierrors.ErrColumnMismatch))

	s.Reset()
	assert.False(t, s.IsFitted())
}

type savedModel struct {
	Name   string
	Values []float64
}

func TestPersistenceRoundTrip(t *testing.T) {
	in := savedModel{Name: "stump", Values: []float64{0.25, 0.75}}

	var buf bytes.Buffer
	require.NoError(t, SaveModelToWriter(in, &buf))
	var out savedModel
	require.NoError(t, LoadModelFromReader(&out, &buf))
	assert.Equal(t, in, out)

	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, SaveModel(in, path))
	var fromFile savedModel
	require.NoError(t, LoadModel(&fromFile, path))
	assert.Equal(t, in, fromFile)

	assert.Error(t, LoadModel(&fromFile, filepath.Join(t.TempDir(), "missing.gob")))
}
