package model

type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivProductCreate   = "product:create"
	PrivProductUpdate   = "product:update"
	PrivProductDelete   = "product:delete"
	PrivOrderView       = "order:view"
	PrivOrderManage     = "order:manage"
	PrivInventoryAdjust = "inventory:adjust"
	PrivDashboardView   = "dashboard:view"
)

var DefaultPrivileges = []Privilege{
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivProductDelete, Name: "Delete Product"},
	{Code: PrivOrderView, Name: "View Orders"},
	{Code: PrivOrderManage, Name: "Update and Cancel Orders"},
	{Code: PrivInventoryAdjust, Name: "Adjust Inventory"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
}
