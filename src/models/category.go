package models

// Categories are shared between drafts and published articles by name, but
// linked through separate join tables because the two article kinds have
// separate lifecycles.
type Category struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}
