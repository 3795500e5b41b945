package batch

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"gopkg.in/yaml.v3"
)

type documentEntry struct {
	File   string               `json:"file"             yaml:"file"`
	Error  string               `json:"error,omitempty"  yaml:"error,omitempty"`
	Result *pipeline.ScanResult `json:"result,omitempty" yaml:"result,omitempty"`
}

type batchOutput struct {
	Documents []documentEntry        `json:"documents" yaml:"documents"`
	Stats     pipeline.ParallelStats `json:"stats"     yaml:"stats"`
}

func newBatchOutput(items []pipeline.ItemResult) batchOutput {
	out := batchOutput{
		Documents: make([]documentEntry, len(items)),
		Stats:     pipeline.CalculateParallelStats(items),
	}
	for i, it := range items {
		entry := documentEntry{File: itemName(it), Result: it.Result}
		if it.Err != nil {
			entry.Error = it.Err.Error()
		}
		out.Documents[i] = entry
	}
	return out
}

func itemName(it pipeline.ItemResult) string {
	if it.Input.Path != "" {
		return it.Input.Path
	}
	return it.Input.Name
}

// formatBatchResults formats the batch results in the given format.
func formatBatchResults(items []pipeline.ItemResult, format string) (string, error) {
	switch format {
	case "json", "":
		b, err := json.MarshalIndent(newBatchOutput(items), "", "  ")
		return string(b), err
	case "yaml":
		b, err := yaml.Marshal(newBatchOutput(items))
		return strings.TrimRight(string(b), "\n"), err
	case "csv":
		return formatCSV(items)
	case "text":
		return formatText(items)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatCSV writes one row per field of every successful document.
func formatCSV(items []pipeline.ItemResult) (string, error) {
	results := make([]*pipeline.ScanResult, 0, len(items))
	for _, it := range items {
		if it.Err == nil && it.Result != nil {
			results = append(results, it.Result)
		}
	}
	out, err := pipeline.ToCSV(results...)
	return strings.TrimRight(out, "\n"), err
}

func formatText(items []pipeline.ItemResult) (string, error) {
	var output strings.Builder
	for i, it := range items {
		if i > 0 {
			output.WriteString("\n")
		}
		fmt.Fprintf(&output, "# %s\n", itemName(it))
		if it.Err != nil {
			fmt.Fprintf(&output, "Error: %v\n", it.Err)
			continue
		}
		text, err := pipeline.ToPlainText(it.Result)
		if err != nil {
			return "", err
		}
		output.WriteString(text)
	}
	return strings.TrimRight(output.String(), "\n"), nil
}
