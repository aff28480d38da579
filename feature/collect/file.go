package collect

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"recruit-sync/feature/clean"
)

// FileSource imports records from a local JSON, CSV or TXT file.
type FileSource struct {
	path   string
	logger *zap.Logger
}

// NewFileSource creates a file importer for the given path. The format is
// picked by file extension.
func NewFileSource(path string, log *zap.Logger) *FileSource {
	return &FileSource{path: path, logger: log}
}

func (s *FileSource) Name() string {
	return "file:" + filepath.Base(s.path)
}

func (s *FileSource) Fetch(ctx context.Context) ([]map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		return s.importJSON(data)
	case ".csv":
		return s.importCSV(data)
	case ".txt":
		return s.importTXT(data)
	default:
		return nil, fmt.Errorf("unsupported import format %q", filepath.Ext(s.path))
	}
}

// importJSON accepts either a bare list of records or an object with a
// "records" list.
func (s *FileSource) importJSON(data []byte) ([]map[string]any, error) {
	var list []map[string]any
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Records []map[string]any `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse JSON import: %w", err)
	}
	return wrapped.Records, nil
}

// importCSV reads a header row of field names followed by one record per row.
func (s *FileSource) importCSV(data []byte) ([]map[string]any, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV import: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	var records []map[string]any
	for _, row := range rows[1:] {
		rec := make(map[string]any, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			value := strings.TrimSpace(row[i])
			switch strings.TrimSpace(name) {
			case "免笔试", "no_written_test":
				rec[name] = clean.TruthyText(value)
			default:
				rec[name] = value
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// importTXT reads one record per line in the form 公司名,岗位名[,行业[,城市]].
func (s *FileSource) importTXT(data []byte) ([]map[string]any, error) {
	var records []map[string]any

	for lineNum, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if len(parts) < 2 {
			s.logger.Warn("Skipping malformed import line", zap.Int("line", lineNum+1))
			continue
		}

		rec := map[string]any{
			"公司名称": parts[0],
			"岗位":     parts[1],
			"信息来源": fmt.Sprintf("文件导入 (行%d)", lineNum+1),
		}
		if len(parts) > 2 && parts[2] != "" {
			rec["行业"] = parts[2]
		}
		if len(parts) > 3 && parts[3] != "" {
			rec["工作城市"] = parts[3]
		}
		records = append(records, rec)
	}

	return records, nil
}
