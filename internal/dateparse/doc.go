// Package dateparse converts the day/month/year strings of the CDM export
// into calendar dates.
//
// The export writes dates as DD/MM/YY. Parsing never fails the caller:
// every input yields a Result whose Status says whether the field was
// absent, parsed or malformed.
//
// Four-digit years (DD/MM/YYYY) are accepted unless the parser is strict.
// The legacy loader only understood two-digit years and silently dropped
// the rest; strict mode reproduces that.
package dateparse
