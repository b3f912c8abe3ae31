package generator

import _ "embed"

// SystemInstruction describes the target JSON shape and modeling conventions.
// It is sent unchanged with every request.
//
//go:embed system_instruction.md
var SystemInstruction string
