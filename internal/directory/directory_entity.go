package directory

import "time"

const RoleAdministrator = "ADMIN"

// Account is a directory entry used to resolve notification audiences.
type Account struct {
	ID    string `gorm:"type:varchar(120);primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Email string `gorm:"type:varchar(255);not null" json:"email"`
	Role  string `gorm:"type:varchar(30);not null;index:idx_accounts_role" json:"role"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
