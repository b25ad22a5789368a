package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "item:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Item"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Site management (MASTER_ADMIN only)
	{Code: "site:view", Name: "View Site"},
	{Code: "site:create", Name: "Create Site"},
	{Code: "site:update", Name: "Update Site"},
	{Code: "site:delete", Name: "Delete Site"},
	// Item management
	{Code: "item:view", Name: "View Item"},
	{Code: "item:create", Name: "Create Item"},
	{Code: "item:update", Name: "Update Item"},
	{Code: "item:delete", Name: "Delete Item"},
	// Stock movements
	{Code: "movement:view", Name: "View Movement"},
	{Code: "movement:create", Name: "Record Movement"},
	{Code: "movement:delete", Name: "Delete Movement"},
	// Price management
	{Code: "price:view", Name: "View Prices"},
	{Code: "price:create", Name: "Record Price Point"},
	// Supplier management
	{Code: "supplier:view", Name: "View Supplier"},
	{Code: "supplier:create", Name: "Create Supplier"},
	{Code: "supplier:update", Name: "Update Supplier"},
	{Code: "supplier:delete", Name: "Delete Supplier"},
	// Maintenance management
	{Code: "maintenance:view", Name: "View Maintenance"},
	{Code: "maintenance:create", Name: "Create Maintenance"},
	{Code: "maintenance:update", Name: "Update Maintenance"},
	// Reports and dashboard
	{Code: "report:view", Name: "View Reports"},
	{Code: "dashboard:view", Name: "View Dashboard"},
}
