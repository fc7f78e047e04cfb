package intake

import (
	"github.com/scienceol/labinv/pkg/repo/model"
	"github.com/shopspring/decimal"
)

// FormReq is the reagent intake draft. Nothing is bound as required here,
// the ordered checks of the form report the first missing field.
type FormReq struct {
	Date             string          `json:"date"`
	LabID            int64           `json:"labId"`
	Category         int64           `json:"category"`
	Personnel        int64           `json:"personnel"`
	ItemName         string          `json:"itemName"`
	ItemCode         string          `json:"itemCode"`
	Quantity         decimal.Decimal `json:"quantity"`
	QtyPerContainer  decimal.Decimal `json:"qtyPerContainer"`
	Unit             string          `json:"unit"`
	LotNo            string          `json:"lotNo"`
	Location         string          `json:"location"`
	ExpiryDate       string          `json:"expiryDate"`
	Supplier         int64           `json:"supplier"`
	Cost             decimal.Decimal `json:"cost"`
	ReorderThreshold int64           `json:"reorderThreshold"`
	MaxThreshold     int64           `json:"maxThreshold"`
	Notes            string          `json:"notes"`
}

type SubmitResp struct {
	Message           string `json:"message"`
	MaterialID        int64  `json:"materialId"`
	TotalNoContainers int64  `json:"totalNoContainers"`
	Redirect          string `json:"redirect"`
}

type PreviewReq struct {
	Quantity        decimal.Decimal `json:"quantity"`
	QtyPerContainer decimal.Decimal `json:"qtyPerContainer"`
}

type PreviewResp struct {
	TotalNoContainers int64 `json:"totalNoContainers"`
}

type OptionsReq struct {
	Personnel int64 `form:"personnel"`
}

type Personnel struct {
	UserID   int64  `json:"userId"`
	FullName string `json:"fullName"`
}

type Laboratory struct {
	LabID int64  `json:"labId"`
	Label string `json:"label"`
}

var Laboratories = []Laboratory{
	{LabID: 1, Label: "Pathology"},
	{LabID: 2, Label: "Immunology"},
	{LabID: 3, Label: "Microbiology"},
}

type OptionsResp struct {
	Personnel    []Personnel       `json:"personnel"`
	Suppliers    []*model.Supplier `json:"suppliers"`
	Categories   []*model.Category `json:"categories"`
	Laboratories []Laboratory      `json:"laboratories"`
}

// SupplierReq targets the filtered suppliers of Personnel, or of the session
// user when Personnel is zero. Restore without SupplierID clears the set.
type SupplierReq struct {
	Personnel  int64 `json:"personnel"`
	SupplierID int64 `json:"supplierId"`
}

type SupplierResp struct {
	Message string      `json:"message"`
	Changed bool        `json:"changed"`
	Hidden  SupplierSet `json:"hidden"`
}

type CreateSupplierReq struct {
	CompanyName   string `json:"companyName" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email" binding:"omitempty,email"`
	PhoneNumber   string `json:"phoneNumber"`
	Address       string `json:"address"`
}

type CreateCategoryReq struct {
	ShortName    string `json:"shortName" binding:"required"`
	Subcategory1 string `json:"subcategory1"`
}
