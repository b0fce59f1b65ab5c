package unit

import "sort"

// Prefix is an SI decimal prefix applicable to prefixable units.
type Prefix struct {
	Name   string
	Symbol string
	Factor float64
}

// prefixes lists the SI prefixes from yocto to yotta. Micro is spelled
// "u" after normalization (µ and μ both fold to it).
var prefixes = []Prefix{
	{"yotta", "Y", 1e24},
	{"zetta", "Z", 1e21},
	{"exa", "E", 1e18},
	{"peta", "P", 1e15},
	{"tera", "T", 1e12},
	{"giga", "G", 1e9},
	{"mega", "M", 1e6},
	{"kilo", "k", 1e3},
	{"hecto", "h", 1e2},
	{"deka", "da", 1e1},
	{"deci", "d", 1e-1},
	{"centi", "c", 1e-2},
	{"milli", "m", 1e-3},
	{"micro", "u", 1e-6},
	{"nano", "n", 1e-9},
	{"pico", "p", 1e-12},
	{"femto", "f", 1e-15},
	{"atto", "a", 1e-18},
	{"zepto", "z", 1e-21},
	{"yocto", "y", 1e-24},
}

// Lookup orders: longest spelling first so "da" beats "d" and
// "deka" beats "deci" prefixes of equal leading letters.
var (
	prefixesBySymbolLen []Prefix
	prefixesByNameLen   []Prefix
)

func init() {
	prefixesBySymbolLen = append(prefixesBySymbolLen, prefixes...)
	sort.SliceStable(prefixesBySymbolLen, func(i, j int) bool {
		return len(prefixesBySymbolLen[i].Symbol) > len(prefixesBySymbolLen[j].Symbol)
	})
	prefixesByNameLen = append(prefixesByNameLen, prefixes...)
	sort.SliceStable(prefixesByNameLen, func(i, j int) bool {
		return len(prefixesByNameLen[i].Name) > len(prefixesByNameLen[j].Name)
	})
}
