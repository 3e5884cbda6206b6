package model

type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleStoreAdmin = "STORE_ADMIN"
	RoleStaff      = "STAFF"
)

var DefaultRoles = []Role{
	{
		Code:        RoleStoreAdmin,
		Name:        "Store Administrator",
		Description: "Catalog, order and inventory management",
	},
	{
		Code:        RoleStaff,
		Name:        "Shop Staff",
		Description: "Order handling and stock counts, no catalog edits",
	},
}

// StaffPrivileges are the codes granted to RoleStaff; RoleStoreAdmin gets all.
var StaffPrivileges = []string{
	PrivOrderView,
	PrivOrderManage,
	PrivInventoryAdjust,
	PrivDashboardView,
}
