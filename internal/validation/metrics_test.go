package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassificationMetricsPerfect(t *testing.T) {
	y := []string{"service", "price_value", "service"}

	accuracy, weighted, perLabel, err := classificationMetrics(y, y)
	require.NoError(t, err)

	assert.Equal(t, 1.0, accuracy)
	assert.Equal(t, 1.0, weighted.Precision)
	assert.Equal(t, 1.0, weighted.Recall)
	assert.Equal(t, 1.0, weighted.F1)
	assert.Equal(t, 2, perLabel["service"].Support)
	assert.Equal(t, 1, perLabel["price_value"].Support)
}

func TestClassificationMetricsKnownValues(t *testing.T) {
	yTrue := []string{"a", "a", "b", "b"}
	yPred := []string{"a", "b", "b", "b"}

	accuracy, weighted, perLabel, err := classificationMetrics(yTrue, yPred)
	require.NoError(t, err)

	assert.InDelta(t, 0.75, accuracy, 1e-9)

	// a: tp=1 fp=0 fn=1 -> P=1, R=0.5, F1=2/3
	assert.InDelta(t, 1.0, perLabel["a"].Precision, 1e-9)
	assert.InDelta(t, 0.5, perLabel["a"].Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, perLabel["a"].F1, 1e-9)

	// b: tp=2 fp=1 fn=0 -> P=2/3, R=1, F1=0.8
	assert.InDelta(t, 2.0/3.0, perLabel["b"].Precision, 1e-9)
	assert.InDelta(t, 1.0, perLabel["b"].Recall, 1e-9)
	assert.InDelta(t, 0.8, perLabel["b"].F1, 1e-9)

	// support-weighted: each label has support 2 of 4 samples
	assert.InDelta(t, (1.0+2.0/3.0)/2, weighted.Precision, 1e-9)
	assert.InDelta(t, 0.75, weighted.Recall, 1e-9)
	assert.InDelta(t, (2.0/3.0+0.8)/2, weighted.F1, 1e-9)
}

func TestClassificationMetricsUnionLabels(t *testing.T) {
	// "c" appears only in predictions; it still gets a per-label entry with
	// zero recall rather than being dropped.
	yTrue := []string{"a", "b"}
	yPred := []string{"a", "c"}

	_, _, perLabel, err := classificationMetrics(yTrue, yPred)
	require.NoError(t, err)

	require.Contains(t, perLabel, "c")
	assert.Equal(t, 0, perLabel["c"].Support)
	assert.Equal(t, 0.0, perLabel["c"].Precision)
	assert.Equal(t, 0.0, perLabel["c"].Recall)
	assert.Equal(t, 0.0, perLabel["c"].F1)

	// "b" was never predicted: zero division yields 0, not NaN.
	assert.Equal(t, 0.0, perLabel["b"].Precision)
	assert.Equal(t, 0.0, perLabel["b"].F1)
}

func TestClassificationMetricsEmpty(t *testing.T) {
	_, _, _, err := classificationMetrics(nil, nil)
	assert.Error(t, err)

	_, _, _, err = classificationMetrics([]string{"a"}, []string{"a", "b"})
	assert.Error(t, err)
}
