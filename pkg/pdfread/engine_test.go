package pdfread_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/pdfread"
)

// writePDF assembles a valid single-revision PDF from the given objects,
// numbering them from 1 and computing the xref offsets.
func writePDF(t *testing.T, objects []string, trailer string) string {
	t.Helper()

	var buf bytes.Buffer

	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, len(objects))
	for i, obj := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefStart := buf.Len()

	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")

	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	fmt.Fprintf(&buf, "trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer, xrefStart)

	path := filepath.Join(t.TempDir(), "sample.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	return path
}

func writeSamplePDF(t *testing.T) string {
	t.Helper()

	return writePDF(t,
		[]string{
			`<< /Type /Catalog /Pages 2 0 R /PageLayout /TwoColumnLeft /PageMode /UseOutlines /OpenAction << /S /GoTo /D (intro) >> >>`,
			`<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 612 792] >>`,
			`<< /Type /Page /Parent 2 0 R >>`,
			`<< /Type /Page /Parent 2 0 R /MediaBox [0 0 300 400] >>`,
			`<< /Title (Quarterly Report) /Author (Finance) /Producer (folio test) >>`,
		},
		`<< /Size 6 /Root 1 0 R /Info 5 0 R >>`,
	)
}

func openSample(t *testing.T, path string) document.Document {
	t.Helper()

	task, err := pdfread.NewEngine().Open(t.Context(), document.OpenParams{Path: path})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = task.Destroy(t.Context())
	})

	doc, err := task.Document().Await(t.Context())
	require.NoError(t, err)

	return doc
}

func TestEngineOpen(t *testing.T) {
	t.Parallel()

	path := writeSamplePDF(t)
	doc := openSample(t, path)

	assert.Equal(t, 2, doc.NumPages())
	assert.Equal(t, "sample.pdf", doc.FileName())

	layout, err := doc.GetPageLayout(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "TwoColumnLeft", layout)

	mode, err := doc.GetPageMode(t.Context())
	require.NoError(t, err)
	assert.Equal(t, document.PageModeOutlines, mode)

	action, err := doc.GetOpenAction(t.Context())
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, "intro", action.Dest)

	info, err := doc.GetMetadata(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", info.Title)
	assert.Equal(t, "Finance", info.Author)

	stat, err := os.Stat(path)
	require.NoError(t, err)

	dl, err := doc.GetDownloadInfo(t.Context())
	require.NoError(t, err)
	assert.Equal(t, stat.Size(), dl.Length)
}

func TestEnginePageSizes(t *testing.T) {
	t.Parallel()

	doc := openSample(t, writeSamplePDF(t))

	// Page 1 inherits the MediaBox from the pages tree.
	w, h, err := doc.PageSize(t.Context(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 612.0, w, 1e-9)
	assert.InDelta(t, 792.0, h, 1e-9)

	// Page 2 declares its own.
	w, h, err = doc.PageSize(t.Context(), 2)
	require.NoError(t, err)
	assert.InDelta(t, 300.0, w, 1e-9)
	assert.InDelta(t, 400.0, h, 1e-9)
}

func TestEngineOpenMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope.pdf")

	task, err := pdfread.NewEngine().Open(t.Context(), document.OpenParams{Path: path})
	require.NoError(t, err)

	_, err = task.Document().Await(t.Context())
	require.Error(t, err)
	assert.Equal(t, document.KindResourceMissing, document.Classify(err))
}

func TestEngineOpenGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o600))

	task, err := pdfread.NewEngine().Open(t.Context(), document.OpenParams{Path: path})
	require.NoError(t, err)

	_, err = task.Document().Await(t.Context())
	require.Error(t, err)
	assert.Equal(t, document.KindStructureInvalid, document.Classify(err))
}

func TestEngineOpenNoPath(t *testing.T) {
	t.Parallel()

	_, err := pdfread.NewEngine().Open(t.Context(), document.OpenParams{})
	require.ErrorIs(t, err, pdfread.ErrNoPath)
}

func TestEngineDestroyReleasesDocument(t *testing.T) {
	t.Parallel()

	task, err := pdfread.NewEngine().Open(t.Context(), document.OpenParams{Path: writeSamplePDF(t)})
	require.NoError(t, err)

	doc, err := task.Document().Await(t.Context())
	require.NoError(t, err)
	require.Equal(t, 2, doc.NumPages())

	require.NoError(t, task.Destroy(t.Context()))
	require.NoError(t, task.Destroy(t.Context()))

	// Accessors on a released document fail instead of panicking.
	_, err = doc.GetMetadata(t.Context())
	require.Error(t, err)
}

func TestEngineOpenActionNamedDestination(t *testing.T) {
	t.Parallel()

	path := writePDF(t,
		[]string{
			`<< /Type /Catalog /Pages 2 0 R /OpenAction /chapter1 >>`,
			`<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>`,
			`<< /Type /Page /Parent 2 0 R >>`,
		},
		`<< /Size 4 /Root 1 0 R >>`,
	)

	doc := openSample(t, path)

	action, err := doc.GetOpenAction(t.Context())
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, "chapter1", action.Dest)

	// No declared layout or mode: empty layout, default mode.
	layout, err := doc.GetPageLayout(t.Context())
	require.NoError(t, err)
	assert.Empty(t, layout)

	mode, err := doc.GetPageMode(t.Context())
	require.NoError(t, err)
	assert.Equal(t, document.PageModeNone, mode)
}
