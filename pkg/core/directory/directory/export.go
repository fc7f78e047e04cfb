package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/core/directory"
	"github.com/scienceol/labinv/pkg/core/directory/projection"
	"github.com/scienceol/labinv/pkg/middleware/auth"
	"github.com/scienceol/labinv/pkg/middleware/logger"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Users"

var exportHeader = []any{
	"User ID", "Last Name", "First Name", "Middle Name", "Designation",
	"Laboratory", "Email", "Username", "Phone Number", "Status",
}

// Export writes the whole current projection, every page, to xlsx.
func (d *directoryImpl) Export(ctx context.Context, sess *auth.Session) (*directory.ExportFile, error) {
	users, err := d.Visible(ctx, sess)
	if err != nil {
		return nil, err
	}

	data, err := WriteXLSX(users)
	if err != nil {
		logger.Errorf(ctx, "export users err: %+v", err)
		return nil, code.ExportErr.WithErr(err)
	}
	return &directory.ExportFile{
		Name: fmt.Sprintf("users-%s.xlsx", time.Now().Format("20060102-150405")),
		Data: data,
	}, nil
}

func WriteXLSX(users []projection.User) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, u := range users {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			u.UserID, u.LastName, u.FirstName, u.MiddleName, u.Designation,
			u.Laboratory, u.Email, u.Username, u.PhoneNumber, u.Status,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
