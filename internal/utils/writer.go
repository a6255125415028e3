package utils

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/HeadlineFind/internal/models"
)

// WriteJSONL 每行一个JSON对象,UTF-8原样输出,不转义HTML字符
func WriteJSONL(w io.Writer, items []models.Headline) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range items {
		if err := enc.Encode(&items[i]); err != nil {
			return fmt.Errorf("序列化第%d条失败: %w", i+1, err)
		}
	}
	return nil
}

// WriteJSONDocument 输出 {"generated_at_utc", "run_id", "items"} 文档
func WriteJSONDocument(w io.Writer, doc models.HeadlineDocument) error {
	if doc.Items == nil {
		doc.Items = []models.Headline{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}
	return nil
}

// OutputFileMode 结果文件与归档快照的权限
const OutputFileMode os.FileMode = 0644

// HeadlineWriter 按格式把结果写入文件
type HeadlineWriter struct {
	Format models.OutputFormat
	RunID  string
	Now    func() time.Time
}

// NewHeadlineWriter 创建写入器
func NewHeadlineWriter(format models.OutputFormat, runID string) *HeadlineWriter {
	return &HeadlineWriter{
		Format: format,
		RunID:  runID,
		Now:    time.Now,
	}
}

// WriteFile 写入path,先写临时文件再重命名,失败时不留下半截文件
func (hw *HeadlineWriter) WriteFile(path string, items []models.Headline) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	// CreateTemp 默认0600,结果文件需要其他用户可读
	if err := tmp.Chmod(OutputFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("设置文件权限失败 [%s]: %w", path, err)
	}

	bw := bufio.NewWriter(tmp)
	if err := hw.encode(bw, items); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("写入文件失败 [%s]: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入文件失败 [%s]: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("重命名文件失败 [%s]: %w", path, err)
	}

	Debugf("已写入 %d 条到 %s", len(items), path)
	return nil
}

// WriteArchive 在dir下写入当天的快照,返回快照路径
func (hw *HeadlineWriter) WriteArchive(dir string, items []models.Headline) (string, error) {
	path := ArchivePath(dir, hw.Now(), hw.Format)
	if err := hw.WriteFile(path, items); err != nil {
		return "", err
	}
	return path, nil
}

func (hw *HeadlineWriter) encode(w io.Writer, items []models.Headline) error {
	switch hw.Format {
	case models.FormatJSON:
		return WriteJSONDocument(w, models.HeadlineDocument{
			GeneratedAtUTC: hw.Now().UTC().Format(models.TimestampLayout),
			RunID:          hw.RunID,
			Items:          items,
		})
	case models.FormatJSONL, "":
		return WriteJSONL(w, items)
	default:
		return fmt.Errorf("不支持的输出格式: %q", hw.Format)
	}
}
