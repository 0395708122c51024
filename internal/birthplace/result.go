package birthplace

import (
	"fmt"

	"nidgate/pkg/domain"
)

// Outcome is the stage at which validation concluded.
type Outcome string

const (
	OutcomeInvalidChecksum Outcome = "invalid_checksum"
	OutcomePrefixNotFound  Outcome = "prefix_not_found"
	OutcomeValid           Outcome = "valid"
)

// Client-facing status lines.
const (
	StatusInvalidChecksum = "Invalid National Code Algorithm"
	StatusPrefixNotFound  = "Birthplace Code Not Found"
	StatusValid           = "National Code is Valid"

	reasonInvalidChecksum = "The control digit does not match the first 9 digits."
	reasonPrefixNotFound  = "The birthplace code prefix '%s' does not exist in the dataset, although the code's algorithm is valid."
)

// ValidationResult describes how far a code got. Location is set only for
// OutcomeValid.
type ValidationResult struct {
	Outcome      Outcome
	NationalCode domain.NationalCode
	Prefix       string
	Location     Location
}

// IsValid reports whether the code passed both checks.
func (r *ValidationResult) IsValid() bool {
	return r.Outcome == OutcomeValid
}

// Status returns the human-readable status line.
func (r *ValidationResult) Status() string {
	switch r.Outcome {
	case OutcomeInvalidChecksum:
		return StatusInvalidChecksum
	case OutcomePrefixNotFound:
		return StatusPrefixNotFound
	default:
		return StatusValid
	}
}

// Reason explains a negative outcome. It is empty for valid codes.
func (r *ValidationResult) Reason() string {
	switch r.Outcome {
	case OutcomeInvalidChecksum:
		return reasonInvalidChecksum
	case OutcomePrefixNotFound:
		return fmt.Sprintf(reasonPrefixNotFound, r.Prefix)
	default:
		return ""
	}
}

// Assemble runs the checksum, then resolves the prefix against d.
func Assemble(code domain.NationalCode, d *Dataset) *ValidationResult {
	res := &ValidationResult{NationalCode: code, Prefix: code.Prefix()}
	if !ValidChecksum(code) {
		res.Outcome = OutcomeInvalidChecksum
		return res
	}
	loc, ok := d.Resolve(res.Prefix)
	if !ok {
		res.Outcome = OutcomePrefixNotFound
		return res
	}
	res.Outcome = OutcomeValid
	res.Location = loc
	return res
}
