package core

// Column defines one column in a CREATE TABLE schema.
type Column struct {
	// Name is the column identifier.
	Name string `json:"name"`

	// Type is the SQL type definition, e.g. "SERIAL PRIMARY KEY" or
	// "VARCHAR(100)".
	Type string `json:"type"`

	// References, when set, adds a foreign key clause, e.g. "users(id)".
	References string `json:"references,omitempty"`
}

// Schema is an ordered list of column definitions. Order is preserved in the
// generated CREATE TABLE statement.
type Schema []Column

// Identity identifies who is operating the toolkit, recorded on server
// connections.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
