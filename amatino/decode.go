package amatino

import "github.com/s0up4200/amatino/api"

type field struct {
	key string
	dst any
}

// requireAll decodes every field, stopping at the first missing key or
// unexpected null.
func requireAll(obj api.Object, fields ...field) error {
	for _, f := range fields {
		if err := obj.Require(f.key, f.dst); err != nil {
			return err
		}
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// derefInt maps a null depth or count to 0.
func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
