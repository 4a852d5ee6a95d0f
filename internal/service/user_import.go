package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"project-hub/internal/dto"
)

// ── 用户导入业务错误 ──

var (
	ErrImportNoData      = errors.New("导入文件中没有数据行")
	ErrImportBadHeader   = errors.New("表头缺少必要列（email 以及 name 或 firstName/lastName）")
	ErrImportTooManyRows = fmt.Errorf("导入行数超过上限 %d", maxBulkRows)
	ErrImportFormat      = errors.New("仅支持 .csv 与 .xlsx 文件")
)

// 导入文件列名（大小写、空格、下划线不敏感）
const (
	colName      = "name"
	colFirstName = "firstname"
	colLastName  = "lastname"
	colEmail     = "email"
	colPassword  = "password"
)

// ParseImportFile 按扩展名解析导入文件，首行为表头或直接为数据
func (s *userService) ParseImportFile(filename string, reader io.Reader) ([]dto.BulkUserRow, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(reader)
	case ".xlsx":
		records, err = readXLSX(reader)
	default:
		return nil, ErrImportFormat
	}
	if err != nil {
		return nil, err
	}

	return parseImportRecords(records)
}

func readCSV(reader io.Reader) ([][]string, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("无法解析 CSV 文件: %w", err)
	}
	return records, nil
}

func readXLSX(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析 Excel 文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	return rows, nil
}

// parseImportRecords 表头定位列，跳过全空行。
// 首行没有任何可识别列名时视为无表头文件，按 firstName,lastName,email[,password] 位置读取。
func parseImportRecords(records [][]string) ([]dto.BulkUserRow, error) {
	if len(records) == 0 {
		return nil, ErrImportNoData
	}

	idx, data := parseHeaderIndex(records[0]), records[1:]
	switch {
	case !hasKnownColumn(idx):
		idx, data = positionalIndex(), records
	case idx[colEmail] < 0 || (idx[colName] < 0 && idx[colFirstName] < 0):
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, key string) string {
		i := idx[key]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rows []dto.BulkUserRow
	for _, record := range data {
		item := dto.BulkUserRow{
			Name:      cell(record, colName),
			FirstName: cell(record, colFirstName),
			LastName:  cell(record, colLastName),
			Email:     cell(record, colEmail),
			Password:  cell(record, colPassword),
		}
		if item.Name == "" && item.FirstName == "" && item.LastName == "" && item.Email == "" && item.Password == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxBulkRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

var headerReplacer = strings.NewReplacer(" ", "", "_", "", "-", "")

// parseHeaderIndex 表头列名 → 列索引，缺失列为 -1
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		colName:      -1,
		colFirstName: -1,
		colLastName:  -1,
		colEmail:     -1,
		colPassword:  -1,
	}
	for i, h := range header {
		// Excel 另存的 CSV 首列可能带 BOM
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		key = headerReplacer.Replace(key)
		if _, ok := idx[key]; ok && idx[key] < 0 {
			idx[key] = i
		}
	}
	return idx
}

func hasKnownColumn(idx map[string]int) bool {
	for _, i := range idx {
		if i >= 0 {
			return true
		}
	}
	return false
}

// positionalIndex 无表头文件的固定列序
func positionalIndex() map[string]int {
	return map[string]int{
		colName:      -1,
		colFirstName: 0,
		colLastName:  1,
		colEmail:     2,
		colPassword:  3,
	}
}
