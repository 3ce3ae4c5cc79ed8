package cdm

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectValues_MatchesColumnOrder(t *testing.T) {
	status := "Registered"
	p := Project{
		WarehouseProjectID: uuid.MustParse("6f1c1b7e-2f7a-4cde-9a59-0d2f51e0a001"),
		OrgUID:             uuid.MustParse("6f1c1b7e-2f7a-4cde-9a59-0d2f51e0a002"),
		CurrentRegistry:    CurrentRegistry,
		ProjectID:          "1234",
		RegistryOfOrigin:   CurrentRegistry,
		ProjectName:        "Wind Farm A",
		ProjectLink:        ProjectLinkPrefix + "1234",
		ProjectStatus:      status,
		UnitMetric:         UnitMetric,
		ValidationDate:     NewDate(2019, time.February, 1),
	}

	values := p.Values()
	require.Len(t, values, 26)
	require.Len(t, ProjectColumns, len(values))
	require.Len(t, p.ScanTargets(), len(values))

	byColumn := make(map[string]any, len(values))
	for i, col := range ProjectColumns {
		byColumn[col] = values[i]
	}

	assert.Equal(t, "6f1c1b7e-2f7a-4cde-9a59-0d2f51e0a001", byColumn["warehouseProjectId"])
	assert.Equal(t, "1234", byColumn["projectId"])
	assert.Equal(t, "UNFCCC CDM", byColumn["currentRegistry"])
	assert.Equal(t, "tCO2", byColumn["unitMetric"])
	assert.Equal(t, NewDate(2019, time.February, 1), byColumn["validationDate"])

	for _, col := range []string{"originProjectId", "program", "coveredByNDC", "ndcInformation",
		"methodology2", "timeStaged", "description", "projectStatusDate", "createdAt", "updatedAt"} {
		assert.Nil(t, byColumn[col], col)
	}
}

func TestDate_ValueAndString(t *testing.T) {
	d := NewDate(2019, time.February, 1)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2019-02-01", v)
	assert.Equal(t, "2019-02-01", d.String())

	var null Date
	v, err = null.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, "", null.String())
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name  string
		src   any
		want  Date
		isErr bool
	}{
		{"nil", nil, Date{}, false},
		{"iso text", "2019-02-01", NewDate(2019, time.February, 1), false},
		{"iso bytes", []byte("2011-12-31"), NewDate(2011, time.December, 31), false},
		{"text with clock", "2019-02-01 00:00:00+00:00", NewDate(2019, time.February, 1), false},
		{"empty text", "", Date{}, false},
		{"time value", time.Date(2020, time.March, 4, 15, 4, 5, 0, time.FixedZone("X", 3600)), NewDate(2020, time.March, 4), false},
		{"garbage", "not a date", Date{}, true},
		{"wrong type", 42, Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.src)
			if tt.isErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestParseBackend(t *testing.T) {
	for in, want := range map[string]Backend{
		"":           BackendSQLite,
		"sqlite":     BackendSQLite,
		"SQLite3":    BackendSQLite,
		"postgres":   BackendPostgres,
		"postgresql": BackendPostgres,
	} {
		got, err := ParseBackend(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBackend("mysql")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseAuthMethod(t *testing.T) {
	m, err := ParseAuthMethod("aws")
	require.NoError(t, err)
	assert.Equal(t, AuthMethodAWSIAM, m)

	m, err = ParseAuthMethod("")
	require.NoError(t, err)
	assert.Equal(t, AuthMethodStandard, m)

	_, err = ParseAuthMethod("kerberos")
	assert.ErrorIs(t, err, ErrUnsupportedAuthMethod)
}

func TestIngestConfig_Validate(t *testing.T) {
	valid := IngestConfig{
		CSVPath: DefaultCSVPath,
		Store:   StoreConfig{Backend: BackendSQLite, Path: DefaultDatabasePath},
	}
	assert.NoError(t, valid.Validate())

	invalid := IngestConfig{
		Store:   StoreConfig{Backend: BackendPostgres},
		Timeout: -time.Second,
	}
	err := invalid.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "CSVPath is required")
	assert.Contains(t, err.Error(), "requires a connection")
	assert.Contains(t, err.Error(), "timeout cannot be negative")
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{ErrUsage, ExitUsageError},
		{ErrInvalidConfig, ExitConfigError},
		{ErrUnsupportedAuthMethod, ExitConfigError},
		{errors.Join(errors.New("open"), ErrConnectionFailed), ExitConnectionError},
		{ErrMissingColumn, ExitMissingColumn},
		{ErrInputFailed, ExitInputError},
		{ErrInsertFailed, ExitStoreError},
		{ErrSchemaFailed, ExitStoreError},
		{errors.New("dial tcp: connection refused"), ExitConnectionError},
		{errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCodeForError(tt.err), "%v", tt.err)
	}
}
