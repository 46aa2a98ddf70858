package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"mime/multipart"
	"os"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspectionflow/internal/models"
)

type fakeLedger struct {
	mu   sync.Mutex
	rows [][]string
	err  error
}

func (f *fakeLedger) AppendRow(_ context.Context, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

type fakeArchive struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (f *fakeArchive) Publish(_ context.Context, filename string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if len(content) == 0 {
		return "", errors.New("empty content")
	}
	f.published = append(f.published, filename)
	return "https://archive.example/" + filename, nil
}

type fakeAuditor struct {
	recs []*models.InspectionRecord
	err  error
}

func (f *fakeAuditor) Record(_ context.Context, rec *models.InspectionRecord) error {
	if f.err != nil {
		return f.err
	}
	f.recs = append(f.recs, rec)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestPipeline(t *testing.T, ledger Ledger, archive Archive, auditor Auditor) *Pipeline {
	t.Helper()
	return NewPipeline(Config{
		StagingDir: t.TempDir(),
		ReportsDir: t.TempDir(),
	}, ledger, archive, auditor, testLogger())
}

type formBuilder struct {
	buf bytes.Buffer
	w   *multipart.Writer
}

func newFormBuilder() *formBuilder {
	b := &formBuilder{}
	b.w = multipart.NewWriter(&b.buf)
	return b
}

func (b *formBuilder) field(t *testing.T, name, value string) {
	t.Helper()
	require.NoError(t, b.w.WriteField(name, value))
}

func (b *formBuilder) file(t *testing.T, field, name string, content []byte) {
	t.Helper()
	part, err := b.w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
}

func (b *formBuilder) form(t *testing.T) *multipart.Form {
	t.Helper()
	require.NoError(t, b.w.Close())
	form, err := multipart.NewReader(&b.buf, b.w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

// The scenario published in the form documentation: two fields, one defect
// with one image, one QC signature, nothing else.
func buildScenarioForm(t *testing.T) *multipart.Form {
	b := newFormBuilder()
	b.field(t, "date", "2024-01-01")
	b.field(t, "supplier_name", "Acme")
	b.field(t, "defectType[]", "Stitching")
	b.field(t, "minor[]", "2")
	b.field(t, "major[]", "0")
	b.file(t, "defectImages_0[]", "stitch.png", pngBytes(t))
	b.field(t, "qc_signature", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngBytes(t)))
	return b.form(t)
}

func TestProcessEndToEnd(t *testing.T) {
	ledger := &fakeLedger{}
	archive := &fakeArchive{}
	auditor := &fakeAuditor{}
	p := newTestPipeline(t, ledger, archive, auditor)

	result, err := p.Process(context.Background(), buildScenarioForm(t))
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(result.PDF, []byte("%PDF-")))
	assert.Regexp(t, regexp.MustCompile(`^inspection_\d{8}_\d{6}\.pdf$`), result.Filename)
	// Header, defects, signatures; no category pages.
	assert.Equal(t, 3, result.PageCount)
	assert.Empty(t, result.Warnings)

	require.Len(t, ledger.rows, 1)
	require.Len(t, ledger.rows[0], len(models.LedgerKeys))
	assert.Equal(t, "2024-01-01", ledger.rows[0][0])
	assert.Equal(t, "Acme", ledger.rows[0][2])

	require.Len(t, archive.published, 1)
	assert.Equal(t, result.Filename, archive.published[0])
	assert.Equal(t, "https://archive.example/"+result.Filename, result.SideEffects.ArchiveLink)

	require.Len(t, auditor.recs, 1)
	rec := auditor.recs[0]
	assert.Equal(t, "Acme", rec.Supplier)
	assert.Equal(t, "2024-01-01", rec.InspectionDate)
	assert.Equal(t, result.Filename, rec.ReportFilename)
	assert.Equal(t, "ok", rec.LedgerStatus)
	assert.Equal(t, "ok", rec.ArchiveStatus)
	assert.Equal(t, result.SideEffects.ArchiveLink, rec.ArchiveLink)
}

func TestProcessLedgerFailureDoesNotBlockReport(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("ledger unreachable")}
	archive := &fakeArchive{}
	auditor := &fakeAuditor{}
	p := newTestPipeline(t, ledger, archive, auditor)

	result, err := p.Process(context.Background(), buildScenarioForm(t))
	require.NoError(t, err)

	assert.NotEmpty(t, result.PDF)
	assert.Error(t, result.SideEffects.LedgerErr)
	assert.Len(t, archive.published, 1)
	require.Len(t, auditor.recs, 1)
	assert.Equal(t, "failed", auditor.recs[0].LedgerStatus)
}

func TestProcessArchiveFailureDoesNotBlockReport(t *testing.T) {
	archive := &fakeArchive{err: errors.New("archive unreachable")}
	p := newTestPipeline(t, &fakeLedger{}, archive, &fakeAuditor{})

	result, err := p.Process(context.Background(), buildScenarioForm(t))
	require.NoError(t, err)

	assert.NotEmpty(t, result.PDF)
	assert.Error(t, result.SideEffects.ArchiveErr)
	assert.Empty(t, result.SideEffects.ArchiveLink)
}

func TestProcessWithoutSideEffectClients(t *testing.T) {
	p := newTestPipeline(t, nil, nil, nil)

	result, err := p.Process(context.Background(), buildScenarioForm(t))
	require.NoError(t, err)
	assert.NotEmpty(t, result.PDF)
	assert.NoError(t, result.SideEffects.LedgerErr)
	assert.NoError(t, result.SideEffects.ArchiveErr)
}

func TestProcessShortCountListsWarnInsteadOfFailing(t *testing.T) {
	b := newFormBuilder()
	b.field(t, "date", "2024-01-01")
	b.field(t, "defectType[]", "Stitching")
	b.field(t, "defectType[]", "Fabric")
	b.field(t, "minor[]", "1")
	p := newTestPipeline(t, nil, nil, nil)

	result, err := p.Process(context.Background(), b.form(t))
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 2)
}

func TestProcessDefaultsTotalsToZero(t *testing.T) {
	auditor := &fakeAuditor{}
	p := newTestPipeline(t, nil, nil, auditor)

	b := newFormBuilder()
	b.field(t, "defectType[]", "Stitching")
	b.field(t, "minor[]", "2")
	b.field(t, "major[]", "0")

	result, err := p.Process(context.Background(), b.form(t))
	require.NoError(t, err)
	// Header, defects, signatures.
	assert.Equal(t, 3, result.PageCount)
}

func TestProcessKeepsLocalCopy(t *testing.T) {
	reportsDir := t.TempDir()
	p := NewPipeline(Config{
		StagingDir: t.TempDir(),
		ReportsDir: reportsDir,
	}, nil, nil, nil, testLogger())

	result, err := p.Process(context.Background(), buildScenarioForm(t))
	require.NoError(t, err)

	copied, err := os.ReadFile(reportsDir + "/" + result.Filename)
	require.NoError(t, err)
	assert.Equal(t, result.PDF, copied)
}

func TestProcessCleansUpStaging(t *testing.T) {
	stagingDir := t.TempDir()
	p := NewPipeline(Config{
		StagingDir: stagingDir,
		ReportsDir: "",
	}, nil, nil, nil, testLogger())

	_, err := p.Process(context.Background(), buildScenarioForm(t))
	require.NoError(t, err)

	entries, err := os.ReadDir(stagingDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
