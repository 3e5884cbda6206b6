package service

// Actor is the authenticated staff member behind a mutation.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// System is used by the CLI and seeders.
var System = Actor{ID: "system", Name: "system"}
