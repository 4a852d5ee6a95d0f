package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"project-hub/internal/model"
	"project-hub/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportFormat       = errors.New("导出格式仅支持 csv 与 xlsx")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// 导出格式
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入
type ExportService interface {
	// ExportUsers 导出全部用户（不含密码哈希），返回内容与建议文件名
	ExportUsers(ctx context.Context, format string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

var exportHeader = []string{"id", "name", "email", "role", "createdAt"}

func (s *exportService) ExportUsers(ctx context.Context, format string) (*bytes.Buffer, string, error) {
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		return nil, "", ErrExportFormat
	}

	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("users-%s.%s", s.now().Format("20060102"), format)

	var buf *bytes.Buffer
	if format == ExportFormatXLSX {
		buf, err = writeUsersXLSX(users)
	} else {
		buf, err = writeUsersCSV(users)
	}
	if err != nil {
		s.logger.Error("生成导出文件失败", zap.String("format", format), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, filename, nil
}

func userRecord(u *model.User) []string {
	return []string{u.ID, u.Name, u.Email, u.Role, u.CreatedAt.UTC().Format(time.RFC3339)}
}

func writeUsersCSV(users []model.User) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for i := range users {
		if err := w.Write(userRecord(&users[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf, w.Error()
}

func writeUsersXLSX(users []model.User) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Users"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, err
	}

	f.SetColWidth(sheetName, "A", "A", 38)
	f.SetColWidth(sheetName, "B", "C", 28)
	f.SetColWidth(sheetName, "D", "D", 10)
	f.SetColWidth(sheetName, "E", "E", 22)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}
	f.SetCellStyle(sheetName, "A1", "E1", headerStyle)

	for i := range users {
		record := userRecord(&users[i])
		row := make([]interface{}, len(record))
		for j, v := range record {
			row[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
