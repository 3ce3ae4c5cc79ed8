package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

func TestFormatTuple(t *testing.T) {
	got := FormatTuple([]any{"a", nil, cdm.NewDate(2019, 2, 1), "it's", `say "hi"`, "tab\there", 3})

	assert.Equal(t, `('a', None, '2019-02-01', "it's", 'say "hi"', 'tab\there', 3)`, got)
}

func TestQuote_BothQuotes(t *testing.T) {
	assert.Equal(t, `'it\'s "x"'`, quote(`it's "x"`))
	assert.Equal(t, `'a\\b'`, quote(`a\b`))
	assert.Equal(t, `'\x01'`, quote("\x01"))
}

func project() cdm.Project {
	return cdm.Project{
		WarehouseProjectID: uuid.MustParse("aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee"),
		OrgUID:             uuid.MustParse("11111111-2222-4333-8444-555555555555"),
		CurrentRegistry:    cdm.CurrentRegistry,
		ProjectID:          "0001",
		ProjectName:        "Wind",
		ValidationDate:     cdm.NewDate(2019, 2, 1),
	}
}

func TestPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := NewWriterPrinter(&buf, ModePlain)

	require.NoError(t, p.PrintProjects([]cdm.Project{project(), project()}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0],
		"('aaaaaaaa-bbbb-4ccc-8ddd-eeeeeeeeeeee', '11111111-2222-4333-8444-555555555555', 'UNFCCC CDM', '0001', None, "))
	assert.Contains(t, lines[0], "'2019-02-01'")
	assert.True(t, strings.HasSuffix(lines[0], "None, None)"))
}

func TestPrinter_PlainEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewWriterPrinter(&buf, ModePlain).PrintProjects(nil))
	assert.Empty(t, buf.String())
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p := NewWriterPrinter(&buf, ModeInteractive)

	require.NoError(t, p.PrintProjects([]cdm.Project{project()}))

	out := buf.String()
	assert.Contains(t, out, "warehouseProjectId")
	assert.Contains(t, out, "updatedAt")
	assert.Contains(t, out, "0001")
	assert.Contains(t, out, nullText)
}
