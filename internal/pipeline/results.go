package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var errNilResult = errors.New("nil result")

// ToJSON serializes a single result to pretty JSON.
func ToJSON(res *ScanResult) (string, error) {
	if res == nil {
		return "", errNilResult
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToJSONList serializes multiple results to a pretty JSON array.
func ToJSONList(results []*ScanResult) (string, error) {
	if results == nil {
		results = []*ScanResult{}
	}
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToYAML serializes a result to YAML.
func ToYAML(res *ScanResult) (string, error) {
	if res == nil {
		return "", errNilResult
	}
	b, err := yaml.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var csvHeader = []string{"source", "document_type", "status", "field", "value"}

// ToCSV exports one row per declared field, with a header. Absent values
// are written as empty cells.
func ToCSV(results ...*ScanResult) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, res := range results {
		if res == nil {
			return "", errNilResult
		}
		for _, key := range res.ExtractedData.Keys() {
			v, _ := res.ExtractedData.Get(key).Get()
			row := []string{res.Source, string(res.DocumentType), res.Status, key, v}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// ToPlainText renders a result for terminal output.
func ToPlainText(res *ScanResult) (string, error) {
	if res == nil {
		return "", errNilResult
	}
	var sb strings.Builder
	if res.Source != "" {
		fmt.Fprintf(&sb, "Source: %s\n", res.Source)
	}
	fmt.Fprintf(&sb, "Document type: %s (%s", res.DocumentType, res.TypeSource)
	if res.ClassifierKeyword != "" {
		fmt.Fprintf(&sb, ", keyword %q", res.ClassifierKeyword)
	}
	sb.WriteString(")\n")
	fmt.Fprintf(&sb, "Status: %s\n", res.Status)
	if !res.Supported {
		return sb.String(), nil
	}
	fmt.Fprintf(&sb, "Fields: %d/%d\n", res.FieldsFound, res.FieldsTotal)

	keys := res.ExtractedData.Keys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k)+1)
	}
	for _, k := range keys {
		v, ok := res.ExtractedData.Get(k).Get()
		if !ok {
			v = "-"
		}
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, k+":", v)
	}
	return sb.String(), nil
}

// ValidateScanResult checks the internal consistency of a result.
func ValidateScanResult(res *ScanResult) error {
	if res == nil {
		return errNilResult
	}
	switch res.Status {
	case StatusSuccess, StatusNotSupported:
	default:
		return fmt.Errorf("unknown status %q", res.Status)
	}
	if res.Supported != (res.Status == StatusSuccess) {
		return fmt.Errorf("status %q does not match supported=%t", res.Status, res.Supported)
	}
	if res.FieldsTotal != res.ExtractedData.Len() {
		return fmt.Errorf("fields_total %d, extracted_data has %d keys", res.FieldsTotal, res.ExtractedData.Len())
	}
	if res.FieldsFound != res.ExtractedData.Found() {
		return fmt.Errorf("fields_found %d, extracted_data has %d values", res.FieldsFound, res.ExtractedData.Found())
	}
	if res.FieldsFound > res.FieldsTotal {
		return fmt.Errorf("fields_found %d exceeds fields_total %d", res.FieldsFound, res.FieldsTotal)
	}
	return nil
}
