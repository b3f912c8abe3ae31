package generator

import "strings"

// Complexity biases the model's output style.
type Complexity string

const (
	Simple       Complexity = "simple"
	Intermediate Complexity = "intermediate"
	Advanced     Complexity = "advanced"
)

// Complexities lists the accepted values in display order.
var Complexities = []Complexity{Simple, Intermediate, Advanced}

const (
	simpleSuffix       = "Instruction: Keep the workflow straightforward and linear, focusing only on the core request."
	intermediateSuffix = "Instruction: Please include necessary data transformation steps and conditional logic (e.g., using an IF node) if the workflow requires it."
	advancedSuffix     = "Instruction: Please design a robust, production-ready workflow. Include error handling branches (e.g., check for success/failure after an API call), add comments inside node parameters for complex logic, and consider potential edge cases in the workflow design."
)

// ParseComplexity maps s to a Complexity. Unrecognized input selects
// Intermediate.
func ParseComplexity(s string) Complexity {
	switch c := Complexity(strings.ToLower(strings.TrimSpace(s))); c {
	case Simple, Intermediate, Advanced:
		return c
	default:
		return Intermediate
	}
}

// Valid reports whether c is one of the three known values.
func (c Complexity) Valid() bool {
	switch c {
	case Simple, Intermediate, Advanced:
		return true
	}
	return false
}

// Label is the human-facing name.
func (c Complexity) Label() string {
	switch c {
	case Simple:
		return "Simple"
	case Advanced:
		return "Advanced"
	default:
		return "Intermediate"
	}
}

// Description is the one-line explanation shown next to the label.
func (c Complexity) Description() string {
	switch c {
	case Simple:
		return "A direct, linear workflow."
	case Advanced:
		return "Robust, with error handling."
	default:
		return "Includes logic and data steps."
	}
}

// Suffix returns the instruction appended to the user prompt.
func (c Complexity) Suffix() string {
	switch c {
	case Simple:
		return simpleSuffix
	case Advanced:
		return advancedSuffix
	default:
		return intermediateSuffix
	}
}

// Next cycles Simple -> Intermediate -> Advanced -> Simple.
func (c Complexity) Next() Complexity {
	switch c {
	case Simple:
		return Intermediate
	case Intermediate:
		return Advanced
	default:
		return Simple
	}
}

// BuildPrompt appends the complexity instruction to prompt after a blank line.
func BuildPrompt(prompt string, c Complexity) string {
	return prompt + "\n\n" + c.Suffix()
}
