// Package part names the anatomical parts a case is made of.
package part

import (
	"fmt"
	"strings"
)

// Part tags a surface with the anatomy it represents
type Part int

const (
	Other Part = iota
	Mandible
	Maxilla
)

// All lists every part in display order
var All = []Part{Mandible, Maxilla, Other}

func (p Part) String() string {
	switch p {
	case Mandible:
		return "mandible"
	case Maxilla:
		return "maxilla"
	default:
		return "other"
	}
}

// Parse accepts the english and latin names used in case files
func Parse(s string) (Part, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mandible", "mandibula":
		return Mandible, nil
	case "maxilla":
		return Maxilla, nil
	case "other", "":
		return Other, nil
	}
	return Other, fmt.Errorf("unknown part %q", s)
}
