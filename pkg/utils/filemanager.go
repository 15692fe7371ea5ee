// =============================================================================
// tagfill - File Manager Utility
// =============================================================================
//
// This module provides file handling around a fill run:
//   - Directory management
//   - Output file naming
//   - Input archival (moving the data file once it has been used)
//   - Validation log and run summary files
//
// ARCHIVAL STRATEGY:
//   - The data file is moved to the archive directory after a successful run
//   - A file already in the archive is never overwritten; the new copy gets
//     a timestamp suffix
//   - Failed runs leave the data file where it is
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/tagfill/internal/validation"
)

const timestampLayout = "20060102_150405"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for a run.
type FileManager struct {
	// OutputDir receives PDFs, plan workbooks, documents and logs.
	OutputDir string

	// ArchiveDir receives used data files.
	ArchiveDir string

	// UseTimestampSubdirs archives into dated subdirectories.
	// Example: input_archive/2024/01/15/data.csv
	UseTimestampSubdirs bool

	// Now is the clock used for names. Defaults to time.Now.
	Now func() time.Time
}

// NewFileManager creates a FileManager for the given directories.
func NewFileManager(outputDir, archiveDir string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
		Now:        time.Now,
	}
}

func (fm *FileManager) now() time.Time {
	if fm.Now == nil {
		return time.Now()
	}
	return fm.Now()
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output and archive directories if they
// don't exist. Empty entries are skipped.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputPath returns a path in OutputDir for a new output file.
//
// PARAMETERS:
//   - format: The base name. Placeholders:
//       {uuid}      - A random UUID
//       {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//       {date}      - Current date (YYYYMMDD)
//       {time}      - Current time (HHMMSS)
//     plus any key of params, e.g. {mode}.
//   - ext: The extension to ensure, such as ".pdf".
//   - params: Extra placeholder values.
//
// EXAMPLE:
//   format: "tags_{mode}_{timestamp}"
//   params: {"mode": "multi"}
//   output: "output/tags_multi_20240115_143022.pdf"
func (fm *FileManager) OutputPath(format, ext string, params map[string]string) string {
	return filepath.Join(fm.OutputDir, GenerateOutputFileName(format, ext, params, fm.now()))
}

// GenerateOutputFileName fills the placeholders in format and ensures the
// name ends in ext.
func GenerateOutputFileName(format, ext string, params map[string]string, now time.Time) string {
	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format(timestampLayout),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}
	return result
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves a data file to the archive directory and returns
// its new path.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	archivePath := fm.archivePath(filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// cross-device moves fail; fall back to copy and delete
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

func (fm *FileManager) archivePath(filePath string) string {
	now := fm.now()
	dir := fm.ArchiveDir
	if fm.UseTimestampSubdirs {
		dir = filepath.Join(dir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	name := filepath.Base(filePath)
	path := filepath.Join(dir, name)
	if FileExists(path) {
		ext := filepath.Ext(name)
		path = filepath.Join(dir, fmt.Sprintf("%s_%s%s", strings.TrimSuffix(name, ext), now.Format(timestampLayout), ext))
	}
	return path
}

// =============================================================================
// VALIDATION LOG
// =============================================================================

// WriteValidationLog writes findings for a data file to a log in
// OutputDir. Nothing is written when there are no findings.
func (fm *FileManager) WriteValidationLog(dataFile string, findings []*validation.ValidationError) (string, error) {
	if len(findings) == 0 {
		return "", nil
	}

	now := fm.now()
	logPath := filepath.Join(fm.OutputDir, fmt.Sprintf("validation_log_%s.txt", now.Format(timestampLayout)))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create validation log: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "tagfill - Validation Log\n"+
		"Generated: %s\n"+
		"Data File: %s\n"+
		"Findings:  %d\n"+
		"================================================================================\n\n",
		now.Format("2006-01-02 15:04:05"), dataFile, len(findings))

	for i, f := range findings {
		fmt.Fprintf(w, "Finding #%d\n"+
			"  Severity: %s\n"+
			"  Line:     %d\n"+
			"  Field:    %s\n"+
			"  Value:    %s\n"+
			"  Message:  %s\n\n",
			i+1, f.Severity, f.Line, f.Field, f.Value, f.Message)
	}

	w.WriteString("================================================================================\n" +
		"End of Validation Log\n")

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush validation log: %w", err)
	}
	return logPath, nil
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary describes one fill run.
type RunSummary struct {
	StartTime time.Time
	EndTime   time.Time
	RunID     string
	DataFile  string
	Mode      string

	Records       int
	Filled        int
	Cleared       int
	Pages         int
	PagesCreated  int
	Dropped       int
	MissingFrames int
	Warnings      int

	// Outputs lists files written by the run.
	Outputs []string
}

// WriteRunSummary writes summary to a text file in OutputDir.
func (fm *FileManager) WriteRunSummary(summary RunSummary) (string, error) {
	path := filepath.Join(fm.OutputDir, fmt.Sprintf("run_summary_%s.txt", summary.StartTime.Format(timestampLayout)))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "tagfill - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:     %s\n"+
		"  Start Time: %s\n"+
		"  Duration:   %s\n"+
		"  Data File:  %s\n"+
		"  Mode:       %s\n\n"+
		"Statistics:\n"+
		"  Records:        %d\n"+
		"  Filled:         %d\n"+
		"  Cleared:        %d\n"+
		"  Pages:          %d\n"+
		"  Pages Created:  %d\n"+
		"  Dropped:        %d\n"+
		"  Missing Frames: %d\n"+
		"  Warnings:       %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.DataFile,
		summary.Mode,
		summary.Records,
		summary.Filled,
		summary.Cleared,
		summary.Pages,
		summary.PagesCreated,
		summary.Dropped,
		summary.MissingFrames,
		summary.Warnings)

	if len(summary.Outputs) > 0 {
		w.WriteString("Outputs:\n")
		for _, o := range summary.Outputs {
			fmt.Fprintf(w, "  %s\n", o)
		}
		w.WriteString("\n")
	}

	w.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}
	return path, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
