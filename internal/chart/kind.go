// Package chart shapes parsed rows into chart datasets and renders them.
package chart

import "fmt"

// Kind is the chart type. Building and rendering switch exhaustively over
// it, so adding a kind is a compile-checked change.
type Kind int

const (
	KindBar Kind = iota
	KindLine
	KindPie
	KindScatter
)

var kindNames = map[Kind]string{
	KindBar:     "Bar",
	KindLine:    "Line",
	KindPie:     "Pie",
	KindScatter: "Scatter",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a chart-kind name to its Kind, case-sensitively.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown chart kind %q", s)
}
