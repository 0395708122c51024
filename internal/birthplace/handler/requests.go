package handler

import (
	"nidgate/pkg/domain"
	dErrors "nidgate/pkg/domain-errors"
)

// MsgNationalCodeMissing is returned when the payload has no usable code.
const MsgNationalCodeMissing = "The 'national_code' key is missing from the request payload."

// ValidateRequest is the HTTP request body for POST /api/birthplace/validate.
type ValidateRequest struct {
	NationalCode *string `json:"national_code"`

	parsedNationalCode domain.NationalCode
}

// Validate checks presence, then length, then digits. Surrounding whitespace
// is not trimmed.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ValidateRequest) Validate() error {
	if r == nil || r.NationalCode == nil || *r.NationalCode == "" {
		return dErrors.New(dErrors.CodeValidation, MsgNationalCodeMissing)
	}
	code, err := domain.ParseNationalCode(*r.NationalCode)
	if err != nil {
		return err
	}
	r.parsedNationalCode = code
	return nil
}

// RawNationalCode returns the code exactly as submitted.
func (r *ValidateRequest) RawNationalCode() string {
	if r == nil || r.NationalCode == nil {
		return ""
	}
	return *r.NationalCode
}

// ParsedNationalCode returns the validated code.
func (r *ValidateRequest) ParsedNationalCode() domain.NationalCode {
	return r.parsedNationalCode
}
