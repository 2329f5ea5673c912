package export

import (
	"encoding/csv"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"

	apperrors "github.com/wonderdash/wonderdash/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteCSV streams the bundle as CSV: header row first, then data rows.
func WriteCSV(w io.Writer, bundle Bundle) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(bundle.Headers); err != nil {
		return apperrors.Wrap(err, apperrors.CodeExportError, "failed to write CSV header")
	}
	if err := writer.WriteAll(bundle.Rows); err != nil {
		return apperrors.Wrap(err, apperrors.CodeExportError, "failed to write CSV rows")
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeExportError, "failed to flush CSV")
	}
	return nil
}

// SaveCSV writes the bundle to path, creating parent directories as needed.
func SaveCSV(path string, bundle Bundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Wrap(err, apperrors.CodeExportError, "failed to create export directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeExportError, "failed to create export file")
	}
	defer f.Close()
	return WriteCSV(f, bundle)
}

// WriteJSON emits the bundle as indented JSON.
func WriteJSON(w io.Writer, bundle Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		return apperrors.Wrap(err, apperrors.CodeExportError, "failed to encode bundle as JSON")
	}
	return nil
}

// DefaultFileName derives a file name from the bundle title and timestamp.
func DefaultFileName(bundle Bundle, ext string) string {
	name := strings.ToLower(bundle.Title)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return name + "_" + bundle.AsOf.UTC().Format("20060102-150405") + "." + ext
}

// clipboardCommands in preference order; the first binary found on PATH
// wins.
var clipboardCommands = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// CopyToClipboard pipes the bundle as CSV into the platform clipboard tool.
func CopyToClipboard(bundle Bundle) error {
	var payload strings.Builder
	if err := WriteCSV(&payload, bundle); err != nil {
		return err
	}

	for _, candidate := range clipboardCommands {
		if _, err := exec.LookPath(candidate[0]); err != nil {
			continue
		}
		cmd := exec.Command(candidate[0], candidate[1:]...)
		cmd.Stdin = strings.NewReader(payload.String())
		if err := cmd.Run(); err != nil {
			return apperrors.Wrap(err, apperrors.CodeExportError, "clipboard command failed")
		}
		return nil
	}
	return apperrors.NewUserFacing(apperrors.CodeExportError,
		"no clipboard tool found",
		"Install pbcopy, wl-copy, xclip or xsel, or export to CSV instead.")
}
