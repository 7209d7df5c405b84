package sql

import (
	"embed"
)

// Migrations holds the destination schema, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/insert_location.sql
var InsertLocation string

//go:embed queries/current_database.sql
var CurrentDatabase string

// LocationTable is the destination table, as schema and name.
var LocationTable = []string{"location", "tbl_location"}
