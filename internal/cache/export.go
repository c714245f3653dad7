package cache

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type ExportFormat string

const (
	ExportFormatYAML ExportFormat = "yaml"
	ExportFormatTSV  ExportFormat = "tsv"
)

// AllExportFormats lists the formats Export understands.
var AllExportFormats = []ExportFormat{ExportFormatYAML, ExportFormatTSV}

// Export writes every stored record to w.
func (s *Store) Export(w io.Writer, format ExportFormat) error {
	switch format {
	case ExportFormatTSV:
		lines, err := s.readLines()
		if err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("fmt.Fprintln > %w", err)
			}
		}
		return nil
	case ExportFormatYAML:
		records, err := s.Records()
		if err != nil {
			return err
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(records); err != nil {
			return fmt.Errorf("encoder.Encode > %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encoder.Close > %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown export format: %s", format)
}
