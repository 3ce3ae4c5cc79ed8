// Package transform maps CDM activity export records onto warehouse projects.
package transform

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vvka-141/cdmload/internal/dateparse"
	"github.com/vvka-141/cdmload/pkg/cdm"
)

// Source columns of the CDM activities export that the transformer reads.
const (
	ColumnProjectID        = "Unique project identifier (traceable with Google)"
	ColumnTitle            = "Registration project title"
	ColumnDOE              = "DOE"
	ColumnSector           = "Sectoral scope number(s)"
	ColumnType             = "Type of CDM project: PA/PoA"
	ColumnClassification   = "Project classification"
	ColumnStatus           = "Simplified project status"
	ColumnMethodologies    = "Methodologies used at registration"
	ColumnValidationStart  = "Start of validation"
	ColumnRegistrationDate = "PA:Initial registration request/PoA:First CPA request"
)

// RequiredColumns lists every column a record must carry.
var RequiredColumns = []string{
	ColumnProjectID,
	ColumnTitle,
	ColumnDOE,
	ColumnSector,
	ColumnType,
	ColumnClassification,
	ColumnStatus,
	ColumnMethodologies,
	ColumnValidationStart,
	ColumnRegistrationDate,
}

// Record is one CSV row keyed by header name.
type Record map[string]string

// IDGenerator mints warehouse project identifiers.
type IDGenerator func() uuid.UUID

// Transformer builds projects for a single run.
// Every project it produces carries the same organization ID.
type Transformer struct {
	orgUID uuid.UUID
	newID  IDGenerator
	dates  *dateparse.Parser

	dateFailures int
}

// New creates a Transformer stamping orgUID on every project.
// newID may be nil, in which case random v4 UUIDs are used.
func New(orgUID uuid.UUID, dates *dateparse.Parser, newID IDGenerator) *Transformer {
	if newID == nil {
		newID = uuid.New
	}
	return &Transformer{
		orgUID: orgUID,
		newID:  newID,
		dates:  dates,
	}
}

// OrgUID returns the organization ID stamped on this run's projects.
func (t *Transformer) OrgUID() uuid.UUID {
	return t.orgUID
}

// DateFailures counts malformed date fields seen so far.
func (t *Transformer) DateFailures() int {
	return t.dateFailures
}

// Transform converts one record. A record without a required column
// yields an error wrapping cdm.ErrMissingColumn and no project.
func (t *Transformer) Transform(rec Record) (cdm.Project, error) {
	l := lookup{rec: rec}

	projectID := l.get(ColumnProjectID)
	name := l.get(ColumnTitle)
	doe := l.get(ColumnDOE)
	sector := l.get(ColumnSector)
	projectType := l.get(ColumnType)
	tags := l.get(ColumnClassification)
	status := l.get(ColumnStatus)
	methodology := l.get(ColumnMethodologies)
	validationStart := l.get(ColumnValidationStart)
	registration := l.get(ColumnRegistrationDate)

	if l.err != nil {
		return cdm.Project{}, l.err
	}

	return cdm.Project{
		WarehouseProjectID: t.newID(),
		OrgUID:             t.orgUID,
		CurrentRegistry:    cdm.CurrentRegistry,
		ProjectID:          projectID,
		RegistryOfOrigin:   cdm.CurrentRegistry,
		ProjectName:        name,
		ProjectLink:        cdm.ProjectLinkPrefix + projectID,
		ProjectDeveloper:   doe,
		Sector:             sector,
		ProjectType:        projectType,
		ProjectTags:        tags,
		ProjectStatus:      status,
		UnitMetric:         cdm.UnitMetric,
		// The export may list several methodologies in this one field.
		Methodology:    methodology,
		ValidationBody: doe,
		ValidationDate: t.date(validationStart),
		CreatedAt:      t.date(registration),
	}, nil
}

func (t *Transformer) date(s string) cdm.Date {
	r := t.dates.Parse(s)
	if r.Status == dateparse.StatusMalformed {
		t.dateFailures++
	}
	return r.Value()
}

// lookup records the first missing column so Transform reads straight through.
type lookup struct {
	rec Record
	err error
}

func (l *lookup) get(column string) string {
	if l.err != nil {
		return ""
	}
	v, ok := l.rec[column]
	if !ok {
		l.err = fmt.Errorf("column %q: %w", column, cdm.ErrMissingColumn)
	}
	return v
}
