// Package slotshift holds build metadata of the slotshift module.
package slotshift

// Version is the released version of the slotshift module.
const Version = "0.1.0"

// ModulePath is the Go module path.
const ModulePath = "github.com/mesh-intelligence/slotshift"
