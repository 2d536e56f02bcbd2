package pdfread

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/birchlabs/folio/pkg/document"
)

// pdfDocument adapts a parsed PDF to the document interface. The parser is
// not safe for concurrent use, so every accessor serializes on the mutex and
// shields itself from parser panics on malformed object graphs.
type pdfDocument struct {
	file   *os.File
	reader *pdf.Reader
	name   string
	size   int64
	mu     sync.Mutex
}

var _ document.Document = (*pdfDocument)(nil)

func (d *pdfDocument) NumPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := safely(func() int { return d.reader.NumPage() })
	if err != nil {
		return 0
	}

	return n
}

func (d *pdfDocument) FileName() string {
	return d.name
}

func (d *pdfDocument) GetMetadata(_ context.Context) (document.Info, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return safely(func() document.Info {
		info := d.reader.Trailer().Key("Info")

		return document.Info{
			Title:        info.Key("Title").Text(),
			Author:       info.Key("Author").Text(),
			Subject:      info.Key("Subject").Text(),
			Keywords:     info.Key("Keywords").Text(),
			Creator:      info.Key("Creator").Text(),
			Producer:     info.Key("Producer").Text(),
			CreationDate: info.Key("CreationDate").Text(),
			ModDate:      info.Key("ModDate").Text(),
		}
	})
}

func (d *pdfDocument) GetPageLayout(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return safely(func() string {
		return d.catalog().Key("PageLayout").Name()
	})
}

func (d *pdfDocument) GetPageMode(_ context.Context) (document.PageMode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	mode, err := safely(func() string {
		return d.catalog().Key("PageMode").Name()
	})
	if err != nil {
		return "", err
	}

	if mode == "" {
		return document.PageModeNone, nil
	}

	return document.PageMode(mode), nil
}

func (d *pdfDocument) GetOpenAction(_ context.Context) (*document.OpenAction, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dest, err := safely(func() string {
		action := d.catalog().Key("OpenAction")

		dest := func(v pdf.Value) string {
			switch v.Kind() {
			case pdf.Name:
				return v.Name()
			case pdf.String:
				return v.Text()
			}

			return ""
		}

		// Either a bare named destination, or a GoTo action wrapping one.
		if d := dest(action); d != "" {
			return d
		}

		if action.Kind() == pdf.Dict {
			return dest(action.Key("D"))
		}

		return ""
	})
	if err != nil {
		return nil, err
	}

	if dest == "" {
		return nil, nil
	}

	return &document.OpenAction{Dest: dest}, nil
}

func (d *pdfDocument) GetDownloadInfo(_ context.Context) (document.DownloadInfo, error) {
	return document.DownloadInfo{Length: d.size}, nil
}

func (d *pdfDocument) PageSize(_ context.Context, n int) (float64, float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	type size struct {
		w, h float64
	}

	s, err := safely(func() size {
		box := inheritedKey(d.reader.Page(n).V, "MediaBox")

		return size{
			w: box.Index(2).Float64() - box.Index(0).Float64(),
			h: box.Index(3).Float64() - box.Index(1).Float64(),
		}
	})
	if err != nil {
		return 0, 0, fmt.Errorf("page %d size: %w", n, err)
	}

	return s.w, s.h, nil
}

func (d *pdfDocument) Cleanup(_ bool) error {
	// All state is backed by the open file; nothing transient to release.
	return nil
}

func (d *pdfDocument) close(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == nil {
		return nil
	}

	file := d.file
	d.file = nil
	d.reader = nil

	if err := file.Close(); err != nil {
		return fmt.Errorf("close %q: %w", d.name, err)
	}

	return nil
}

func (d *pdfDocument) catalog() pdf.Value {
	return d.reader.Trailer().Key("Root")
}

// inheritedKey resolves a page attribute through the Pages tree, since keys
// like MediaBox may live on any ancestor node.
func inheritedKey(page pdf.Value, key string) pdf.Value {
	for v := page; !v.IsNull(); v = v.Key("Parent") {
		if attr := v.Key(key); !attr.IsNull() {
			return attr
		}
	}

	return pdf.Value{}
}

// safely runs fn, converting parser panics into structure errors. A closed
// document reports the same way: its nil reader panics inside fn.
func safely[T any](fn func() T) (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", document.ErrStructureInvalid, r)
		}
	}()

	return fn(), nil
}
