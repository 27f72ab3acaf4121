package casestream

import "math"

// ExcludePolicy selects which classes of missing values are excluded from
// analysis.
type ExcludePolicy int

const (
	// ExcludeAny excludes system-missing and user-missing values.
	ExcludeAny ExcludePolicy = iota
	// ExcludeSystem excludes only system-missing values, so user-missing
	// codes participate in analysis as ordinary values.
	ExcludeSystem
)

func (p ExcludePolicy) String() string {
	switch p {
	case ExcludeAny:
		return "any"
	case ExcludeSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Variable describes one numeric column of a case.
type Variable struct {
	// Name is the dictionary name of the variable.
	Name string
	// Index is the column position within a case.
	Index int
	// Missing holds the user-declared missing values, if any.
	Missing []float64
}

// IsMissing reports whether x counts as missing for v under the given policy.
// NaN is the system-missing value and is missing under every policy.
func (v Variable) IsMissing(x float64, policy ExcludePolicy) bool {
	if math.IsNaN(x) {
		return true
	}
	if policy == ExcludeSystem {
		return false
	}
	for _, m := range v.Missing {
		if x == m {
			return true
		}
	}
	return false
}

// Schema describes the layout of a case stream: the case width, the declared
// variables, and the optional dictionary weight variable.
type Schema struct {
	Width  int
	Vars   []Variable
	Weight *Variable
}

// Case is one observation: a fixed-width row of float64 values.
type Case []float64

// Value returns the value of v in c.
func (c Case) Value(v Variable) float64 {
	return c[v.Index]
}

// Complete reports whether c has no missing values among vars under the
// given policy.
func Complete(c Case, vars []Variable, policy ExcludePolicy) bool {
	for _, v := range vars {
		if v.IsMissing(c[v.Index], policy) {
			return false
		}
	}
	return true
}

// WeightFunc yields the analysis weight of a case.
type WeightFunc func(Case) float64

// UnitWeight weights every case 1.0. It is the weight function of an
// unweighted dictionary.
func UnitWeight(Case) float64 { return 1 }

// VariableWeight returns a WeightFunc reading the dictionary weight variable
// v. Missing and non-positive weights contribute nothing.
func VariableWeight(v Variable) WeightFunc {
	return func(c Case) float64 {
		w := c[v.Index]
		if math.IsNaN(w) || w <= 0 {
			return 0
		}
		return w
	}
}
