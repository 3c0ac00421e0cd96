package enums

import "fmt"

// DesignOrigin records where a design image came from.
type DesignOrigin string

const (
	DesignOriginGallery DesignOrigin = "gallery"
	DesignOriginUpload  DesignOrigin = "upload"
)

var validDesignOrigins = []DesignOrigin{
	DesignOriginGallery,
	DesignOriginUpload,
}

// String implements fmt.Stringer.
func (d DesignOrigin) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DesignOrigin.
func (d DesignOrigin) IsValid() bool {
	for _, candidate := range validDesignOrigins {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDesignOrigin converts raw input into a DesignOrigin.
func ParseDesignOrigin(value string) (DesignOrigin, error) {
	for _, candidate := range validDesignOrigins {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid design origin %q", value)
}
