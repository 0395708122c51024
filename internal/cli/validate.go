package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"nidgate/internal/birthplace"
	"nidgate/pkg/domain"
	dErrors "nidgate/pkg/domain-errors"
)

// ErrInvalidCodes is returned by validate --strict when any code fails.
var ErrInvalidCodes = errors.New("one or more national codes are not valid")

// validateRow is one line of validate output.
type validateRow struct {
	Input        string `json:"input"`
	NationalCode string `json:"national_code,omitempty"`
	IsValid      bool   `json:"is_valid"`
	Status       string `json:"status"`
	Outcome      string `json:"outcome,omitempty"`
	Prefix       string `json:"code_prefix,omitempty"`
	Birthplace   string `json:"birthplace,omitempty"`
	Province     string `json:"province,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

func newValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate CODE [CODE...]",
		Short: "Validate national codes and resolve their birthplace",
		Long: `Validate runs the control-digit check on each code and resolves the
birthplace of codes that pass. Persian and Arabic-Indic digits are accepted.
When the control digit is wrong, the expected digit is shown.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			rows := make([]validateRow, 0, len(args))
			allValid := true
			for _, arg := range args {
				row, err := validateOne(cmd, a.service, arg)
				if err != nil {
					return err
				}
				allValid = allValid && row.IsValid
				rows = append(rows, row)
			}

			if err := renderValidate(cmd.OutOrStdout(), a.output, rows); err != nil {
				return err
			}
			if strict && !allValid {
				return ErrInvalidCodes
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero if any code is not valid")
	return cmd
}

func validateOne(cmd *cobra.Command, svc *birthplace.Service, input string) (validateRow, error) {
	row := validateRow{Input: input}
	code, err := domain.ParseNationalCode(input)
	if err != nil {
		row.Status = "Malformed Input"
		if de, ok := dErrors.As(err); ok {
			row.Detail = de.Message
		}
		return row, nil
	}

	res, err := svc.Validate(cmd.Context(), code)
	if err != nil {
		return row, err
	}
	row.NationalCode = code.String()
	row.IsValid = res.IsValid()
	row.Status = res.Status()
	row.Outcome = string(res.Outcome)
	row.Prefix = res.Prefix
	row.Birthplace = res.Location.City
	row.Province = res.Location.Province

	switch res.Outcome {
	case birthplace.OutcomeInvalidChecksum:
		row.Detail = res.Reason()
		if expected, ok := expectedControlDigit(code); ok {
			row.Detail = fmt.Sprintf("%s Expected control digit: %d.", row.Detail, expected)
		}
	case birthplace.OutcomePrefixNotFound:
		row.Detail = res.Reason()
	}
	return row, nil
}

// expectedControlDigit returns the digit that would make code pass, if the
// failure is not down to repeated digits.
func expectedControlDigit(code domain.NationalCode) (int, bool) {
	first9 := code.String()[:domain.NationalCodeLength-1]
	expected := birthplace.ControlDigit(first9)
	fixed, err := domain.ParseNationalCode(fmt.Sprintf("%s%d", first9, expected))
	if err != nil {
		return 0, false
	}
	return expected, birthplace.ValidChecksum(fixed)
}

func renderValidate(w io.Writer, output string, rows []validateRow) error {
	if output == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Code", "Valid", "Status", "Prefix", "Birthplace", "Province", "Detail"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Input, r.IsValid, r.Status, r.Prefix, r.Birthplace, r.Province, r.Detail})
	}
	t.Render()
	return nil
}
