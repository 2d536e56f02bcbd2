package document_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birchlabs/folio/pkg/document"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err      error
		expected document.ErrorKind
	}{
		"structure invalid": {
			err:      fmt.Errorf("parse header: %w", document.ErrStructureInvalid),
			expected: document.KindStructureInvalid,
		},
		"resource missing": {
			err:      document.ErrResourceMissing,
			expected: document.KindResourceMissing,
		},
		"fs not exist counts as missing": {
			err:      fmt.Errorf("open: %w", fs.ErrNotExist),
			expected: document.KindResourceMissing,
		},
		"transport unexpected": {
			err:      fmt.Errorf("read body: %w", document.ErrTransportUnexpected),
			expected: document.KindTransportUnexpected,
		},
		"anything else is generic": {
			err:      errors.New("who knows"),
			expected: document.KindGeneric,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, document.Classify(tc.err))
		})
	}
}

func TestErrorKindMessageKeys(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		kind     document.ErrorKind
		expected string
	}{
		"generic":   {kind: document.KindGeneric, expected: "folio-loading-error"},
		"structure": {kind: document.KindStructureInvalid, expected: "folio-invalid-file-error"},
		"missing":   {kind: document.KindResourceMissing, expected: "folio-missing-file-error"},
		"transport": {kind: document.KindTransportUnexpected, expected: "folio-unexpected-response-error"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, tc.kind.MessageKey())
		})
	}
}

func TestLoadingTaskIdentity(t *testing.T) {
	t.Parallel()

	a := document.NewLoadingTask(nil)
	b := document.NewLoadingTask(nil)

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestLoadingTaskDestroy(t *testing.T) {
	t.Parallel()

	calls := 0
	task := document.NewLoadingTask(func(context.Context) error {
		calls++

		return nil
	})

	require.NoError(t, task.Destroy(context.Background()))
	require.NoError(t, task.Destroy(context.Background()))
	assert.Equal(t, 1, calls)

	_, err := task.Document().Await(context.Background())
	require.ErrorIs(t, err, document.ErrTaskDestroyed)
}

func TestLoadingTaskDestroyAfterResolve(t *testing.T) {
	t.Parallel()

	task := document.NewLoadingTask(nil)
	task.Resolve(nil)

	// Destroy after settlement must not clobber the resolution.
	require.NoError(t, task.Destroy(context.Background()))

	_, err := task.Document().Await(context.Background())
	assert.NoError(t, err)
}
