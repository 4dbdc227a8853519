package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	perrors "github.com/tecsupnav/placesadmin/internal/errors"
	"github.com/tecsupnav/placesadmin/internal/resource"
	"github.com/tecsupnav/placesadmin/internal/ux"
)

// parseStatus maps --status to an isActive filter. "all" and "" mean no
// filter.
func parseStatus(s string) (*bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return nil, nil
	case "active":
		v := true
		return &v, nil
	case "inactive":
		v := false
		return &v, nil
	default:
		return nil, perrors.New(perrors.ErrCodeValidationInvalid, fmt.Sprintf("invalid status %q", s)).
			WithSuggestion("Use --status active, inactive or all")
	}
}

// changedString returns &val when the flag was set on the command line.
func changedString(cmd *cobra.Command, name, val string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &val
}

func changedInt(cmd *cobra.Command, name string, val int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &val
}

func changedFloat(cmd *cobra.Command, name string, val float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &val
}

func changedBool(cmd *cobra.Command, name string, val bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &val
}

// nonEmpty returns &s unless s is blank.
func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// confirmDestructive asks before an irreversible action. --force skips
// the question; without a terminal --force is required.
func confirmDestructive(force bool, message string) error {
	if force {
		return nil
	}
	if !interactive() {
		return perrors.New(perrors.ErrCodeValidationRequired, "confirmation required").
			WithSuggestion("Pass --force to run without a prompt")
	}
	ok, err := confirm(message, false)
	if err != nil {
		return err
	}
	if !ok {
		return ux.ErrAborted
	}
	return nil
}

// requireChanges fails when none of names was set.
func requireChanges(cmd *cobra.Command, names ...string) error {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return nil
		}
	}
	return perrors.New(perrors.ErrCodeValidationRequired, "nothing to update").
		WithSuggestion(fmt.Sprintf("Pass at least one of --%s", strings.Join(names, ", --")))
}

// loaded returns the value a container fetched. A successful fetch always
// stores one; a missing value means the backend answered with nothing.
func loaded[T any](st resource.EntityState[T]) (T, error) {
	if st.Data == nil {
		var zero T
		return zero, perrors.New(perrors.ErrCodeHTTPNotFound, "the backend returned no data")
	}
	return *st.Data, nil
}
