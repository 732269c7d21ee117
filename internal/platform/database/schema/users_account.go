package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Email     string
	Name      string
	Password  string
	Role      string
	CreatedAt string
	UpdatedAt string

	// EmailKey is the unique constraint on the email column.
	EmailKey string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Email:     "email",
	Name:      "name",
	Password:  "passwordhash",
	Role:      "role",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	EmailKey:  "account_email_key",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.Name, t.Password, t.Role, t.CreatedAt, t.UpdatedAt}
}
