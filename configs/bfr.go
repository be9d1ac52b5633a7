package configs

// Runtime is the `bfr` block of a config file: defaults for the
// pipeline that flags override.
type Runtime struct {
	Width     int    `json:"width"`
	ArraySize int    `json:"arraySize"`
	Limit     uint64 `json:"limit"`
	Optimize  *bool  `json:"optimize"`
}

// RuntimeSchema closes the `bfr` block against typos.
const RuntimeSchema = `
bfr?: {
	width?: 8 | 16 | 32
	arraySize?: int & >0
	limit?: int & >=0
	optimize?: bool
}
`
