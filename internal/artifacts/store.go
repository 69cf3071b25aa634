package artifacts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/review-insight/backend/internal/insight"
	"github.com/review-insight/backend/internal/report"
	"github.com/review-insight/backend/pkg/logger"
)

// Fixed artifact file names inside the data directory. They are overwritten
// on every successful run with no locking; concurrent runs race on them.
const (
	uploadFileName  = "uploaded_reviews"
	resultsFileName = "latest_results.xlsx"
	summaryFileName = "latest_summary.html"
	reportFileName  = "marketing_report.docx"
)

// Store keeps the run artifacts as flat files under one directory.
type Store struct {
	dataDir string
}

func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dataDir: dataDir}, nil
}

// UploadPath is where the incoming spreadsheet is saved, keeping the
// uploader's file extension so the loader can dispatch on it.
func (s *Store) UploadPath(ext string) string {
	return filepath.Join(s.dataDir, uploadFileName+ext)
}

func (s *Store) ResultsPath() string {
	return filepath.Join(s.dataDir, resultsFileName)
}

func (s *Store) SummaryPath() string {
	return filepath.Join(s.dataDir, summaryFileName)
}

func (s *Store) ReportPath() string {
	return filepath.Join(s.dataDir, reportFileName)
}

// HasResults reports whether a results spreadsheet has been generated.
func (s *Store) HasResults() bool {
	_, err := os.Stat(s.ResultsPath())
	return err == nil
}

// HasSummary reports whether a summary has been generated.
func (s *Store) HasSummary() bool {
	_, err := os.Stat(s.SummaryPath())
	return err == nil
}

// WriteResults renders the analyzed rows into the downloadable spreadsheet.
// The verification column only appears for dual-mode runs.
func (s *Store) WriteResults(rows []insight.AnalyzedRow, withVerification bool) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"original_text", "aspect", "sentiment", "evidence", "rationale"}
	if withVerification {
		header = append(header, "verification_status")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		values := []interface{}{row.OriginalText, string(row.Aspect), string(row.Sentiment), row.Evidence, row.Rationale}
		if withVerification {
			values = append(values, row.VerificationStatus)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(s.ResultsPath()); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	logger.Info("results artifact written",
		zap.String("path", s.ResultsPath()),
		zap.Int("rows", len(rows)),
	)
	return nil
}

// WriteSummary stores the HTML summary artifact.
func (s *Store) WriteSummary(html string) error {
	if html == "" {
		html = "No summary available."
	}
	if err := os.WriteFile(s.SummaryPath(), []byte(html), 0o644); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// BuildReport converts the stored HTML summary into the Word report artifact
// and returns its path.
func (s *Store) BuildReport() (string, error) {
	html, err := os.ReadFile(s.SummaryPath())
	if err != nil {
		return "", fmt.Errorf("read summary: %w", err)
	}

	f, err := os.Create(s.ReportPath())
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := report.WriteDocx(string(html), f); err != nil {
		return "", err
	}

	logger.Info("report artifact written", zap.String("path", s.ReportPath()))
	return s.ReportPath(), nil
}
