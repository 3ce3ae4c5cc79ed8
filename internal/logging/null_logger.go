package logging

import "github.com/vvka-141/cdmload/pkg/cdm"

// NullLogger discards everything. Used where a run must stay silent, such as tests.
type NullLogger struct{}

func NewNullLogger() *NullLogger { return &NullLogger{} }

func (*NullLogger) Verbose(string, ...interface{}) {}
func (*NullLogger) Info(string, ...interface{})    {}
func (*NullLogger) Error(string, ...interface{})   {}

var _ cdm.Logger = (*NullLogger)(nil)
