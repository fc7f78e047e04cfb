package model

import "github.com/shopspring/decimal"

// Material is the body of POST material/create.
type Material struct {
	SupplierID        int64           `json:"supplierId"`
	CategoryID        int64           `json:"categoryId"`
	LabID             int64           `json:"labId"`
	ItemCode          string          `json:"itemCode"`
	ItemName          string          `json:"itemName"`
	Unit              string          `json:"unit"`
	Location          string          `json:"location"`
	ExpiryDate        string          `json:"expiryDate"`
	Cost              decimal.Decimal `json:"cost"`
	TotalNoContainers int64           `json:"totalNoContainers"`
	LotNo             string          `json:"lotNo"`
	Notes             string          `json:"notes"`
	QuantityAvailable int64           `json:"quantityAvailable"`
	ReorderThreshold  int64           `json:"reorderThreshold"`
	MaxThreshold      int64           `json:"maxThreshold"`
	QtyPerContainer   decimal.Decimal `json:"qtyPerContainer"`
}

type MaterialCreated struct {
	MaterialID int64 `json:"materialId"`
}

// InventoryLog is the body of POST inventory-log.
type InventoryLog struct {
	UserID     int64           `json:"userId"`
	MaterialID int64           `json:"materialId"`
	Date       string          `json:"date"`
	Quantity   decimal.Decimal `json:"quantity"`
	Source     string          `json:"source"`
	Remarks    string          `json:"remarks"`
}
