package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"inspectionflow/internal/intake"
	"inspectionflow/internal/models"
	"inspectionflow/internal/report"
)

// Ledger appends one summary row per submission to an external tabular
// store. Implementations are best-effort from the pipeline's point of view.
type Ledger interface {
	AppendRow(ctx context.Context, row []string) error
}

// Archive uploads a finished report and returns a link or identifier.
type Archive interface {
	Publish(ctx context.Context, filename string, content []byte) (string, error)
}

// Auditor records what happened to one submission.
type Auditor interface {
	Record(ctx context.Context, rec *models.InspectionRecord) error
}

// Config carries the pipeline's local-filesystem and timeout settings.
type Config struct {
	// StagingDir roots the per-submission staging areas; empty means the
	// system temp dir.
	StagingDir string
	// ReportsDir receives a local copy of each generated report; empty
	// disables the copy.
	ReportsDir string
	// SideEffectTimeout bounds each external call.
	SideEffectTimeout time.Duration
}

// Pipeline turns one submitted form into a rendered report plus its
// best-effort side effects. Any of ledger, archive, and auditor may be nil,
// which disables that step.
type Pipeline struct {
	cfg       Config
	assembler *report.Assembler
	ledger    Ledger
	archive   Archive
	auditor   Auditor
	log       *slog.Logger
	now       func() time.Time
}

// NewPipeline wires a pipeline from its dependencies.
func NewPipeline(cfg Config, ledger Ledger, archive Archive, auditor Auditor, log *slog.Logger) *Pipeline {
	if cfg.SideEffectTimeout <= 0 {
		cfg.SideEffectTimeout = 30 * time.Second
	}
	return &Pipeline{
		cfg:       cfg,
		assembler: report.NewAssembler(log),
		ledger:    ledger,
		archive:   archive,
		auditor:   auditor,
		log:       log,
		now:       time.Now,
	}
}

// Process runs intake, assembly, and the post-assembly side effects for one
// multipart form. Only intake staging setup and document assembly can fail
// the request; every external call reports its outcome in the result's
// SideEffects instead.
func (p *Pipeline) Process(ctx context.Context, form *multipart.Form) (*models.Result, error) {
	id := uuid.NewString()
	logCtx := p.log.With("submissionId", id)

	staging, err := intake.NewStaging(p.cfg.StagingDir, id)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare staging area: %w", err)
	}
	defer func() {
		if err := staging.Cleanup(); err != nil {
			logCtx.Warn("Failed to clean up staging area.", "error", err)
		}
	}()

	sub := p.collect(form, staging, id, logCtx)
	logCtx.Info("Submission collected.",
		"defects", len(sub.Defects),
		"signatures", len(sub.Signatures),
		"warnings", len(sub.Warnings))

	plan := report.BuildPlan(sub)
	pdfBytes, err := p.assembler.Render(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble report: %w", err)
	}

	if err := report.Validate(pdfBytes); err != nil {
		logCtx.Warn("Rendered report failed validation.", "error", err)
	}
	pageCount, err := report.PageCount(pdfBytes)
	if err != nil {
		logCtx.Warn("Could not determine report page count.", "error", err)
	}

	filename := report.Filename(p.now())
	p.keepLocalCopy(filename, pdfBytes, logCtx)

	result := &models.Result{
		Filename:  filename,
		PDF:       pdfBytes,
		PageCount: pageCount,
		Warnings:  sub.Warnings,
	}
	result.SideEffects = p.runSideEffects(ctx, sub, result, logCtx)
	return result, nil
}

// collect builds the in-memory submission record from the parsed form.
func (p *Pipeline) collect(form *multipart.Form, staging *intake.Staging, id string, logCtx *slog.Logger) *models.Submission {
	values := url.Values(form.Value)
	in := intake.New(staging, logCtx)

	defectGroups := in.CollectDefectSequence(form)
	defects, warnings := intake.BuildDefects(
		values["defectType[]"],
		values["minor[]"],
		values["major[]"],
		defectGroups,
	)
	for _, w := range warnings {
		logCtx.Warn("Submission anomaly.", "detail", w)
	}

	signatures := make(map[string]string, len(models.SignerRoles))
	for _, role := range models.SignerRoles {
		if path, ok := in.DecodeSignature(values.Get(role.FormField), role.FileName); ok {
			signatures[role.FormField] = path
		}
	}

	return &models.Submission{
		ID:      id,
		Fields:  intake.CollectFields(values),
		Defects: defects,
		DefectTotals: models.DefectTotals{
			Minor: valueOr(values, "totalMinor", "0"),
			Major: valueOr(values, "totalMajor", "0"),
		},
		ImageGroups: in.CollectCategories(form),
		Signatures:  signatures,
		Warnings:    warnings,
	}
}

// runSideEffects performs the ledger append and archive upload concurrently,
// then writes the audit record. None of them can fail the request.
func (p *Pipeline) runSideEffects(ctx context.Context, sub *models.Submission, result *models.Result, logCtx *slog.Logger) models.SideEffects {
	var effects models.SideEffects

	var g errgroup.Group
	if p.ledger != nil {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, p.cfg.SideEffectTimeout)
			defer cancel()
			row := make([]string, 0, len(models.LedgerKeys))
			for _, key := range models.LedgerKeys {
				row = append(row, sub.Fields[key])
			}
			if err := p.ledger.AppendRow(callCtx, row); err != nil {
				logCtx.Warn("Ledger append failed.", "error", err)
				effects.LedgerErr = err
			}
			return nil
		})
	}
	if p.archive != nil {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, p.cfg.SideEffectTimeout)
			defer cancel()
			link, err := p.archive.Publish(callCtx, result.Filename, result.PDF)
			if err != nil {
				logCtx.Warn("Archive upload failed.", "error", err)
				effects.ArchiveErr = err
				return nil
			}
			effects.ArchiveLink = link
			logCtx.Info("Report archived.", "link", link)
			return nil
		})
	}
	_ = g.Wait()

	if p.auditor != nil {
		callCtx, cancel := context.WithTimeout(ctx, p.cfg.SideEffectTimeout)
		defer cancel()
		rec := &models.InspectionRecord{
			SubmissionID:   sub.ID,
			Supplier:       sub.Fields["supplier_name"],
			InspectionDate: sub.Fields["date"],
			ReportFilename: result.Filename,
			PageCount:      result.PageCount,
			ArchiveLink:    effects.ArchiveLink,
			LedgerStatus:   statusOf(effects.LedgerErr),
			ArchiveStatus:  statusOf(effects.ArchiveErr),
			Warnings:       sub.Warnings,
			CreatedAt:      p.now().UTC(),
		}
		if err := p.auditor.Record(callCtx, rec); err != nil {
			logCtx.Warn("Audit record failed.", "error", err)
			effects.AuditErr = err
		}
	}
	return effects
}

// keepLocalCopy writes the report into the configured reports directory.
func (p *Pipeline) keepLocalCopy(filename string, pdfBytes []byte, logCtx *slog.Logger) {
	if p.cfg.ReportsDir == "" {
		return
	}
	if err := os.MkdirAll(p.cfg.ReportsDir, 0o755); err != nil {
		logCtx.Warn("Failed to create reports directory.", "error", err)
		return
	}
	path := filepath.Join(p.cfg.ReportsDir, filename)
	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		logCtx.Warn("Failed to keep local report copy.", "path", path, "error", err)
	}
}

func valueOr(values url.Values, key, fallback string) string {
	if v := values.Get(key); v != "" {
		return v
	}
	return fallback
}

func statusOf(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
