package intake

import (
	"fmt"
	"time"

	"github.com/scienceol/labinv/pkg/common/code"
	"github.com/scienceol/labinv/pkg/core/intake"
	"github.com/scienceol/labinv/pkg/repo/model"
	"github.com/shopspring/decimal"
)

const (
	dateLayout   = "2006-01-02"
	expiryLayout = "2006-01-02T15:04:05"

	initialRemarks = "Initial Inventory"
)

var inputLayouts = []string{
	time.RFC3339,
	expiryLayout,
	"2006-01-02T15:04",
	dateLayout,
}

type check struct {
	failed bool
	msg    string
}

// Validate returns the first failing check only, in form order.
func Validate(f *intake.FormReq) error {
	checks := []check{
		{f.Date == "", "Date is required."},
		{f.LabID == 0, "Laboratory is required."},
		{f.Category == 0, "Category is required."},
		{f.Personnel == 0, "Personnel is required."},
		{f.ItemName == "", "Item Name is required."},
		{f.ItemCode == "", "Item Code is required."},
		{!f.Quantity.IsPositive(), "Quantity must be greater than zero."},
		{!f.QtyPerContainer.IsPositive(), "Quantity Per Container must be greater than zero."},
		{f.Unit == "", "Unit is required."},
		{f.LotNo == "", "Lot Number is required."},
		{f.Location == "", "Location is required."},
		{f.ExpiryDate == "", "Expiry Date is required."},
		{f.Supplier == 0, "Supplier is required."},
		{!f.Cost.IsPositive(), "Cost must be greater than zero."},
		{f.ReorderThreshold < 0, "Reorder Threshold cannot be negative."},
		{f.MaxThreshold < 0, "Max Threshold cannot be negative."},
	}
	for _, c := range checks {
		if c.failed {
			return code.FormValidationErr.WithMsg(c.msg)
		}
	}
	return nil
}

// Containers is ceil(quantity / perContainer).
func Containers(quantity, perContainer decimal.Decimal) (int64, error) {
	if !quantity.IsPositive() {
		return 0, code.FormValidationErr.WithMsg("Quantity must be greater than zero.")
	}
	if !perContainer.IsPositive() {
		return 0, code.FormValidationErr.WithMsg("Quantity Per Container must be greater than zero.")
	}
	return quantity.Div(perContainer).Ceil().IntPart(), nil
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Payload is a validated form ready to be sent.
type Payload struct {
	Material   *model.Material
	Log        *model.InventoryLog
	Containers int64
}

// BuildPayload validates f, then coerces numbers and formats dates. The
// material carries no stock; it arrives with the log entry.
func BuildPayload(f *intake.FormReq) (*Payload, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}
	date, ok := parseDate(f.Date)
	if !ok {
		return nil, code.FormValidationErr.WithMsg("Date is invalid.")
	}
	expiry, ok := parseDate(f.ExpiryDate)
	if !ok {
		return nil, code.FormValidationErr.WithMsg("Expiry Date is invalid.")
	}
	containers, err := Containers(f.Quantity, f.QtyPerContainer)
	if err != nil {
		return nil, err
	}

	return &Payload{
		Material: &model.Material{
			SupplierID:        f.Supplier,
			CategoryID:        f.Category,
			LabID:             f.LabID,
			ItemCode:          f.ItemCode,
			ItemName:          f.ItemName,
			Unit:              f.Unit,
			Location:          f.Location,
			ExpiryDate:        expiry.Format(expiryLayout),
			Cost:              f.Cost,
			TotalNoContainers: 0,
			LotNo:             f.LotNo,
			Notes:             f.Notes,
			QuantityAvailable: 0,
			ReorderThreshold:  f.ReorderThreshold,
			MaxThreshold:      f.MaxThreshold,
			QtyPerContainer:   f.QtyPerContainer,
		},
		Log: &model.InventoryLog{
			UserID:   f.Personnel,
			Date:     date.Format(dateLayout),
			Quantity: f.Quantity,
			Source:   fmt.Sprintf("Add %s", f.Quantity.String()),
			Remarks:  initialRemarks,
		},
		Containers: containers,
	}, nil
}

// LabPath is where the browser lands after a successful intake.
func LabPath(labID int64) string {
	switch labID {
	case 2:
		return "/lab/immunology"
	case 3:
		return "/lab/microbiology"
	default:
		return "/lab/pathology"
	}
}
