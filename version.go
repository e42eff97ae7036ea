package sprout

import _ "embed"

// Version is the released version of sprout.
//
//go:embed VERSION
var Version string
