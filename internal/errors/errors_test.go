package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	weftErrors "github.com/feltlabs/weft/internal/errors"
)

func TestSentinelErrorsExist(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrWorkflowNotFound", weftErrors.ErrWorkflowNotFound},
		{"ErrWorkflowParse", weftErrors.ErrWorkflowParse},
		{"ErrWorkflowSchema", weftErrors.ErrWorkflowSchema},
		{"ErrStaleGeneration", weftErrors.ErrStaleGeneration},
		{"ErrTaskIndexRange", weftErrors.ErrTaskIndexRange},
		{"ErrStepIndexRange", weftErrors.ErrStepIndexRange},
		{"ErrStoreCorrupt", weftErrors.ErrStoreCorrupt},
		{"ErrSpawnFailed", weftErrors.ErrSpawnFailed},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.err)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	all := []error{
		weftErrors.ErrWorkflowNotFound,
		weftErrors.ErrWorkflowParse,
		weftErrors.ErrWorkflowSchema,
		weftErrors.ErrStaleGeneration,
		weftErrors.ErrTaskIndexRange,
		weftErrors.ErrStepIndexRange,
		weftErrors.ErrStoreCorrupt,
		weftErrors.ErrSpawnFailed,
	}

	for i, a := range all {
		for j, b := range all {
			if i == j {
				assert.ErrorIs(t, a, b)
			} else {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestWrappedSentinelSurvivesErrorsIs(t *testing.T) {
	wrapped := fmt.Errorf("spawn of step 2: %w", weftErrors.ErrSpawnFailed)
	assert.ErrorIs(t, wrapped, weftErrors.ErrSpawnFailed)
}
