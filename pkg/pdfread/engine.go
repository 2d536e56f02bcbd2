// Package pdfread backs the document engine with a real PDF parser. Parse
// failures are classified into the session's reportable error kinds.
package pdfread

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/log"
)

// ErrNoPath is returned when open parameters carry no file path.
var ErrNoPath = errors.New("no document path")

// Engine opens PDF files from the local filesystem. The returned loading
// task settles asynchronously; destroying it releases the underlying file.
type Engine struct {
	tracer trace.Tracer
}

func NewEngine() *Engine {
	return &Engine{
		tracer: otel.Tracer("pdfread"),
	}
}

// Open validates the parameters and starts loading in the background. Load
// failures settle the task, not this call.
func (e *Engine) Open(ctx context.Context, params document.OpenParams) (*document.LoadingTask, error) {
	if params.Path == "" {
		return nil, ErrNoPath
	}

	doc := &pdfDocument{
		name: filepath.Base(params.Path),
	}

	task := document.NewLoadingTask(func(ctx context.Context) error {
		return doc.close(ctx)
	})

	go e.load(ctx, task, doc, params.Path)

	return task, nil
}

func (e *Engine) load(ctx context.Context, task *document.LoadingTask, doc *pdfDocument, path string) {
	ctx, span := e.tracer.Start(ctx, "load", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("task", task.ID()),
	))
	defer span.End()

	file, reader, err := openPDF(path)
	if err != nil {
		log.WithContext(ctx).DebugContext(ctx, "open pdf",
			slog.String("path", path),
			slog.Any("err", err),
		)

		task.Reject(classifyOpenError(err))

		return
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		task.Reject(fmt.Errorf("stat %q: %w", path, err))

		return
	}

	doc.file = file
	doc.reader = reader
	doc.size = stat.Size()

	task.Resolve(doc)
}

// openPDF wraps the parser, converting its panics on malformed input into
// errors.
func openPDF(path string) (file *os.File, reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			if file != nil {
				_ = file.Close()
			}

			file = nil
			reader = nil
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	file, reader, err = pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open pdf: %w", err)
	}

	return file, reader, nil
}

func classifyOpenError(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", document.ErrResourceMissing, err)
	}

	return fmt.Errorf("%w: %w", document.ErrStructureInvalid, err)
}
