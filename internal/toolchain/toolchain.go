// Package toolchain defines the closed set of compiler toolchains BuildMeC
// can drive and resolves per-project compiler overrides.
package toolchain

import "strings"

// Kind identifies a toolchain by language.
type Kind string

const (
	KindC   Kind = "c"
	KindCPP Kind = "cpp"
)

// Toolchain pairs a source-file extension with the compiler program that
// handles it.
type Toolchain struct {
	Kind      Kind
	Extension string
	Program   string
}

// known holds every supported toolchain, in display order.
var known = []Toolchain{
	{Kind: KindC, Extension: ".c", Program: "gcc"},
	{Kind: KindCPP, Extension: ".cpp", Program: "g++"},
}

// Default returns the toolchain used when none is requested.
func Default() Toolchain {
	tc, _ := Lookup(string(KindCPP))
	return tc
}

// Lookup finds a toolchain by kind name. Matching is case-insensitive;
// "c++" is accepted as an alias for "cpp".
func Lookup(name string) (Toolchain, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "c++" {
		name = string(KindCPP)
	}
	for _, tc := range known {
		if string(tc.Kind) == name {
			return tc, true
		}
	}
	return Toolchain{}, false
}

// ByProgram finds a toolchain by its compiler program name.
func ByProgram(program string) (Toolchain, bool) {
	for _, tc := range known {
		if tc.Program == program {
			return tc, true
		}
	}
	return Toolchain{}, false
}

// Kinds returns the names of all supported toolchains.
func Kinds() []string {
	names := make([]string, 0, len(known))
	for _, tc := range known {
		names = append(names, string(tc.Kind))
	}
	return names
}

// All returns every supported toolchain.
func All() []Toolchain {
	out := make([]Toolchain, len(known))
	copy(out, known)
	return out
}

// Resolve picks the compiler program and flags for a build. An override
// naming a known toolchain program is honored together with its flags;
// an empty or unrecognized override falls back to the default toolchain
// with no flags. The boolean reports whether the override was honored,
// so callers can warn about unrecognized names.
func Resolve(overrideName string, overrideFlags []string) (string, []string, bool) {
	if overrideName != "" {
		if _, ok := ByProgram(overrideName); ok {
			return overrideName, overrideFlags, true
		}
	}
	return Default().Program, nil, false
}
