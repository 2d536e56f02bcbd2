package document

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/birchlabs/folio/pkg/viewer"
)

// ErrTaskDestroyed settles a task future when the task is destroyed before
// the engine finished loading.
var ErrTaskDestroyed = errors.New("loading task destroyed")

// LoadingTask is an identity-bearing handle to one in-flight open operation.
// The session tracks at most one; superseded tasks are identity-compared and
// their settlements ignored.
type LoadingTask struct {
	fut     *viewer.Future[Document]
	destroy func(ctx context.Context) error
	id      string
	once    sync.Once
}

// NewLoadingTask creates a task. The destroy hook, if non-nil, is invoked
// exactly once from Destroy so the engine can release in-flight resources.
func NewLoadingTask(destroy func(ctx context.Context) error) *LoadingTask {
	return &LoadingTask{
		id:      uuid.NewString(),
		fut:     viewer.NewFuture[Document](),
		destroy: destroy,
	}
}

// ID returns the unique task identity.
func (t *LoadingTask) ID() string {
	return t.id
}

// Document returns the settlement future for the open operation.
func (t *LoadingTask) Document() *viewer.Future[Document] {
	return t.fut
}

// Resolve settles the task with a loaded document.
func (t *LoadingTask) Resolve(doc Document) {
	t.fut.Resolve(doc)
}

// Reject settles the task with a load failure.
func (t *LoadingTask) Reject(err error) {
	t.fut.Reject(err)
}

// Destroy cancels the task. It is idempotent; an unsettled future is
// rejected with [ErrTaskDestroyed] so awaiters unblock.
func (t *LoadingTask) Destroy(ctx context.Context) error {
	var err error

	t.once.Do(func() {
		t.fut.Reject(ErrTaskDestroyed)

		if t.destroy != nil {
			err = t.destroy(ctx)
		}
	})

	return err
}
