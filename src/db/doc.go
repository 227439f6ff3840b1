/*
This package contains lowish-level APIs for making database queries to our Postgres
database. It streamlines the process of mapping query results to Go types, while
allowing you to write arbitrary SQL queries.

The primary functions are Query and QueryIterator.

# Query syntax

This package allows a few small extensions to SQL syntax to streamline the interaction
between Go and Postgres.

Arguments can be provided using placeholders like $1, $2, etc. All arguments will be
safely escaped and mapped from their Go type to the correct Postgres type. (This is a
direct proxy to pgx.)

	ids, err := db.QueryScalar[int](ctx, conn,
		`
		SELECT id
		FROM published_articles
		WHERE slug = ANY($1)
		`,
		[]string{"first-post", "second-post"},
	)

(This also demonstrates a useful tip: if you want to use a slice in your query, use
Postgres arrays instead of IN.)

To query multiple columns at once, you may use a struct type with `db:"column_name"`
tags, and the special $columns placeholder:

	type Article struct {
		ID   int    `db:"id"`
		Slug string `db:"slug"`
	}
	articles, err := db.Query[Article](ctx, conn, `SELECT $columns FROM published_articles`)
	// Resulting query:
	// SELECT id, slug FROM published_articles

When joining multiple tables, the $columns placeholder can take a table prefix:

	articles, err := db.Query[Article](ctx, conn,
		`
		SELECT $columns{a}
		FROM published_articles AS a
		JOIN published_article_categories AS ac ON ac.article_id = a.id
		WHERE ac.category_id = $1
		`,
		catID,
	)
	// Resulting query:
	// SELECT a.id, a.slug FROM published_articles AS a ...
*/
package db
