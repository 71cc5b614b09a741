package models

import (
	"fmt"
	"io"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Set GENERATE_COLUMN_REPORT=true and start the binary. For each table backing a model,
the report lists database columns that no model field maps to, then a summary:

=== COLUMN MISMATCH REPORT ===
--- Table: blog_posts ---
Found 1 columns not accounted for in model:
  - legacy_slug

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// All returns every model that owns a table, in migration order.
func All() []any {
	return []any{
		&User{},
		&Tag{},
		&BlogPost{},
		&Project{},
		&BlogComment{},
		&ProjectComment{},
		&BlogLike{},
		&ProjectLike{},
	}
}

// GenerateModels migrates the schema and writes typed query helpers to outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()
	return nil
}

// TableMismatch lists the columns of one table that no model field maps to
type TableMismatch struct {
	Table   string
	Missing bool
	Columns []string
}

// ColumnMismatchReport compares live table columns with the model schemas.
func ColumnMismatchReport(db *gorm.DB) ([]TableMismatch, error) {
	var report []TableMismatch
	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		if !db.Migrator().HasTable(table) {
			report = append(report, TableMismatch{Table: table, Missing: true})
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("error querying columns for table %s: %w", table, err)
		}

		report = append(report, TableMismatch{
			Table:   table,
			Columns: findColumnMismatches(columnTypes, stmt.Schema),
		})
	}
	return report, nil
}

func findColumnMismatches(columnTypes []gorm.ColumnType, s *schema.Schema) []string {
	var mismatches []string
	for _, ct := range columnTypes {
		if s.LookUpField(ct.Name()) == nil {
			mismatches = append(mismatches, ct.Name())
		}
	}
	sort.Strings(mismatches)
	return mismatches
}

// WriteColumnMismatchReport renders the report in the format documented above.
func WriteColumnMismatchReport(w io.Writer, report []TableMismatch) int {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	total := 0
	for _, t := range report {
		fmt.Fprintf(w, "--- Table: %s ---\n", t.Table)
		switch {
		case t.Missing:
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
		case len(t.Columns) == 0:
			fmt.Fprintln(w, "All columns are accounted for in the model.")
		default:
			fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(t.Columns))
			for _, col := range t.Columns {
				fmt.Fprintf(w, "  - %s\n", col)
			}
			total += len(t.Columns)
		}
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return total
}
