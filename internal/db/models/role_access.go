package models

import "github.com/GoBazaar/GoBazaar/internal/access"

// RoleAccess grants one access type to one role.
// The composite primary key keeps the per role set free of duplicates.
type RoleAccess struct {
	RoleID string      `gorm:"primaryKey;size:36;column:role_id"`
	Access access.Type `gorm:"primaryKey;size:50;column:access"`
}

// TableName specifies the database table name for the RoleAccess model.
func (RoleAccess) TableName() string {
	return "role_accesses"
}

// RoleAccessRows expands a set into rows for roleID in catalog order.
func RoleAccessRows(roleID string, s access.Set) []RoleAccess {
	rows := make([]RoleAccess, 0, s.Len())
	for _, t := range s.Sorted() {
		rows = append(rows, RoleAccess{RoleID: roleID, Access: t})
	}

	return rows
}

// CatalogAccess records an access type the seed has already handed to the administrator role.
// Types missing here were added to the catalog since the last start.
type CatalogAccess struct {
	Access access.Type `gorm:"primaryKey;size:50;column:access"`
}

// TableName specifies the database table name for the CatalogAccess model.
func (CatalogAccess) TableName() string {
	return "catalog_accesses"
}
