package service

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ludo-technologies/pysmell/domain"
	"github.com/zeebo/blake3"
)

// ReportExt is appended to the analyzed file's base name.
const ReportExt = ".json"

// FileReportStore keeps one JSON report per analyzed file in a flat directory.
// Files sharing a base name overwrite each other; the last write wins.
type FileReportStore struct {
	dir     string
	version string
	now     func() time.Time
}

// NewFileReportStore creates a store rooted at dir.
func NewFileReportStore(dir, version string) *FileReportStore {
	return &FileReportStore{dir: dir, version: version, now: time.Now}
}

// Dir returns the directory reports are written to.
func (s *FileReportStore) Dir() string {
	return s.dir
}

// PathFor returns the report path for an analyzed file or report name.
func (s *FileReportStore) PathFor(name string) string {
	base := filepath.Base(name)
	if !strings.HasSuffix(strings.ToLower(base), ".py"+ReportExt) {
		base += ReportExt
	}
	return filepath.Join(s.dir, base)
}

// Save writes the report for file. source is the content the report was computed from.
func (s *FileReportStore) Save(file string, source []byte, report domain.AnalysisReport) (*domain.StoredReport, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	stored := &domain.StoredReport{
		ID:           uuid.NewString(),
		File:         abs,
		SourceDigest: Digest(source),
		GeneratedAt:  s.now().UTC(),
		Version:      s.version,
		Report:       report,
		Path:         s.PathFor(file),
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return nil, domain.NewOutputError("failed to encode report", err)
	}
	if err := writeFileAtomic(stored.Path, data); err != nil {
		return nil, domain.NewOutputError(fmt.Sprintf("failed to save report: %s", stored.Path), err)
	}
	return stored, nil
}

// Load reads a saved report. name is the analyzed file's path or base name, with or
// without the report extension. The report is marked stale when the source file
// is gone or its content no longer matches the recorded digest.
func (s *FileReportStore) Load(name string) (*domain.StoredReport, error) {
	path := s.PathFor(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFileNotFoundError(path, err)
		}
		return nil, domain.NewDomainError(domain.ErrCodeFileNotFound, fmt.Sprintf("failed to read report: %s", path), err)
	}

	var stored domain.StoredReport
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid report file: %s", path), err)
	}
	stored.Path = path

	source, err := os.ReadFile(stored.File)
	stored.Stale = err != nil || Digest(source) != stored.SourceDigest
	return &stored, nil
}

// Digest returns the hex BLAKE3 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// writeFileAtomic writes into a temp file beside path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var _ domain.ReportStore = (*FileReportStore)(nil)
