package change

import (
	"fmt"
	"strings"
)

// Layer decides which change wins when two changes touch the same element.
// Higher layers are applied later and therefore override lower ones.
type Layer int

const (
	VENDOR Layer = iota
	PARTNER
	CUSTOMER_BASE
	CUSTOMER
	USER
)

var layerNames = map[Layer]string{
	VENDOR:        "VENDOR",
	PARTNER:       "PARTNER",
	CUSTOMER_BASE: "CUSTOMER_BASE",
	CUSTOMER:      "CUSTOMER",
	USER:          "USER",
}

func ParseLayer(s string) (Layer, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VENDOR":
		return VENDOR, nil
	case "PARTNER":
		return PARTNER, nil
	case "CUSTOMER_BASE":
		return CUSTOMER_BASE, nil
	case "CUSTOMER":
		return CUSTOMER, nil
	case "USER":
		return USER, nil
	default:
		return VENDOR, fmt.Errorf("unknown layer: %q", s)
	}
}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

// Compare returns -1, 0 or 1 like strings.Compare.
func (l Layer) Compare(other Layer) int {
	switch {
	case l < other:
		return -1
	case l > other:
		return 1
	}
	return 0
}

func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Layer) UnmarshalText(text []byte) error {
	parsed, err := ParseLayer(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
