package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/amatino/amatino"
)

var atLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// parseAt reads a point in time; empty means now and returns nil.
// Times without a zone are UTC.
func parseAt(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range atLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid time %q, use YYYY-MM-DD, 'YYYY-MM-DD HH:MM:SS' or RFC3339", s)
}

// unitFlags binds --global-unit and --custom-unit to a command
type unitFlags struct {
	global int64
	custom int64
}

func (u *unitFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&u.global, "global-unit", 0, "denominate in this global unit")
	cmd.Flags().Int64Var(&u.custom, "custom-unit", 0, "denominate in this entity custom unit")
	cmd.MarkFlagsMutuallyExclusive("global-unit", "custom-unit")
}

// denomination returns the chosen unit, or the zero Denomination if neither
// flag was given.
func (u *unitFlags) denomination() amatino.Denomination {
	switch {
	case u.global > 0:
		return amatino.GlobalDenomination(u.global)
	case u.custom > 0:
		return amatino.CustomDenomination(u.custom)
	}
	return amatino.Denomination{}
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
