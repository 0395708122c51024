package handler

import "nidgate/internal/birthplace"

// ValidationResponse is the HTTP response for POST /api/birthplace/validate.
// Negative outcomes carry a reason; valid ones carry details.
type ValidationResponse struct {
	IsValid bool             `json:"is_valid"`
	Status  string           `json:"status"`
	Outcome string           `json:"outcome"`
	Reason  string           `json:"reason,omitempty"`
	Details *DetailsResponse `json:"details,omitempty"`
}

type DetailsResponse struct {
	NationalCode string `json:"national_code"`
	CodePrefix   string `json:"code_prefix"`
	Birthplace   string `json:"birthplace"`
	Province     string `json:"province,omitempty"`
}

// LookupResponse is the HTTP response for GET /api/birthplace/validate/{code}.
type LookupResponse struct {
	NationalCode  string `json:"national_code"`
	CodePrefix    string `json:"code_prefix"`
	Birthplace    string `json:"birthplace"`
	Province      string `json:"province,omitempty"`
	ChecksumValid bool   `json:"checksum_valid"`
}

type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	DatasetEntries int    `json:"dataset_entries"`
	DatasetSource  string `json:"dataset_source,omitempty"`
}

// FromResult converts a domain ValidationResult to an HTTP response.
// details.national_code echoes input as the client sent it, so a code typed
// in Persian digits comes back in Persian digits; validation itself runs on
// the ASCII form. An empty input falls back to the ASCII form.
func FromResult(result *birthplace.ValidationResult, input string) *ValidationResponse {
	resp := &ValidationResponse{
		IsValid: result.IsValid(),
		Status:  result.Status(),
		Outcome: string(result.Outcome),
	}
	if !result.IsValid() {
		resp.Reason = result.Reason()
		return resp
	}
	if input == "" {
		input = result.NationalCode.String()
	}
	resp.Details = &DetailsResponse{
		NationalCode: input,
		CodePrefix:   result.Prefix,
		Birthplace:   result.Location.City,
		Province:     result.Location.Province,
	}
	return resp
}

// FromLookup converts a domain LookupResult to an HTTP response.
func FromLookup(result *birthplace.LookupResult) *LookupResponse {
	return &LookupResponse{
		NationalCode:  result.NationalCode.String(),
		CodePrefix:    result.Prefix,
		Birthplace:    result.Location.City,
		Province:      result.Location.Province,
		ChecksumValid: result.ChecksumValid,
	}
}
