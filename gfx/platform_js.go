//go:build js && wasm

package gfx

import "github.com/phanxgames/crossmath"

// DefaultProfile is the profile used when no config names one.
const DefaultProfile = crossmath.ProfileWeb
