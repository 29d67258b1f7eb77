package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/straye-as/staffing-api/internal/domain"
	"github.com/straye-as/staffing-api/internal/mapper"
)

// parseKind accepts kinds written with dashes or underscores
func parseKind(s string) (domain.LaborEstimateKind, error) {
	kind := strings.ReplaceAll(strings.ToLower(s), "-", "_")
	if !domain.IsValidLaborEstimateKind(kind) {
		return "", fmt.Errorf("unknown estimate kind %q", s)
	}
	return domain.LaborEstimateKind(kind), nil
}

func parseID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return id, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeEstimate prints an estimate as a table or JSON
func writeEstimate(w io.Writer, estimate *domain.LaborEstimate) error {
	dto := mapper.ToLaborEstimateDTO(estimate)
	if outputFormat == "json" {
		return writeJSON(w, dto)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if estimate.Kind.HasHours() {
		fmt.Fprintln(tw, "POSITION\tHOURS\tWORKERS")
		for _, p := range estimate.Positions {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", p.PositionName, p.HoursOrZero().StringFixed(2), p.Workers)
		}
	} else {
		fmt.Fprintln(tw, "POSITION\tWORKERS")
		for _, p := range estimate.Positions {
			fmt.Fprintf(tw, "%s\t%d\n", p.PositionName, p.Workers)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if estimate.IsEmpty() {
		fmt.Fprintln(w, "(no positions)")
	}
	return nil
}

// writeRequest prints a staffing request as a table or JSON
func writeRequest(w io.Writer, request *domain.StaffingRequest) error {
	dto := mapper.ToStaffingRequestDTO(request)
	if outputFormat == "json" {
		return writeJSON(w, dto)
	}

	fmt.Fprintf(w, "Staffing request %s (%s)\n", dto.ID, dto.Status)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POSITION\tWORKERS")
	for _, req := range dto.Requirements {
		fmt.Fprintf(tw, "%s\t%d\n", req.PositionName, req.WorkersCount)
	}
	return tw.Flush()
}
