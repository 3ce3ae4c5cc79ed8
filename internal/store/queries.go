package store

import (
	"fmt"
	"strings"

	"github.com/vvka-141/cdmload/pkg/cdm"
)

// columnTypes gives the declared type of each entry of cdm.ProjectColumns.
var columnTypes = map[string]string{
	"warehouseProjectId": "VARCHAR(255) NOT NULL PRIMARY KEY",
	"orgUid":             "VARCHAR(255)",
	"currentRegistry":    "VARCHAR(255)",
	"projectId":          "VARCHAR(255)",
	"originProjectId":    "VARCHAR(255)",
	"registryOfOrigin":   "VARCHAR(255)",
	"program":            "VARCHAR(255)",
	"projectName":        "TEXT",
	"projectLink":        "TEXT",
	"projectDeveloper":   "TEXT",
	"sector":             "VARCHAR(255)",
	"projectType":        "VARCHAR(255)",
	"projectTags":        "TEXT",
	"coveredByNDC":       "VARCHAR(255)",
	"ndcInformation":     "VARCHAR(255)",
	"projectStatus":      "VARCHAR(255)",
	"projectStatusDate":  "DATE",
	"unitMetric":         "VARCHAR(255)",
	"methodology":        "TEXT",
	"methodology2":       "VARCHAR(255)",
	"validationBody":     "VARCHAR(255)",
	"validationDate":     "DATE",
	"timeStaged":         "VARCHAR(255)",
	"description":        "TEXT",
	"createdAt":          "DATE",
	"updatedAt":          "DATE",
}

// placeholder renders the n-th (1-based) bind parameter of a dialect.
type placeholder func(n int) string

func questionMark(int) string { return "?" }

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

// Column names are mixed case, so they are always double quoted.
func quotedColumns() []string {
	cols := make([]string, len(cdm.ProjectColumns))
	for i, c := range cdm.ProjectColumns {
		cols[i] = `"` + c + `"`
	}
	return cols
}

func createTableSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", cdm.TableName)
	for i, c := range cdm.ProjectColumns {
		fmt.Fprintf(&b, "\t\"%s\" %s", c, columnTypes[c])
		if i < len(cdm.ProjectColumns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}

func insertSQL(ph placeholder) string {
	params := make([]string, len(cdm.ProjectColumns))
	for i := range params {
		params[i] = ph(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		cdm.TableName, strings.Join(quotedColumns(), ", "), strings.Join(params, ", "))
}

// selectSQL reads every row; order is the physical insertion order of each engine.
func selectSQL(orderBy string) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(quotedColumns(), ", "), cdm.TableName, orderBy)
}
