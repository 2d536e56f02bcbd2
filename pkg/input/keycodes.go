package input

// Platform key codes consulted by the dispatcher tables.
const (
	KeyBackspace = 8
	KeyEnter     = 13
	KeyCtrl      = 17
	KeyEscape    = 27
	KeySpace     = 32
	KeyPageUp    = 33
	KeyPageDown  = 34
	KeyEnd       = 35
	KeyHome      = 36
	KeyLeft      = 37
	KeyUp        = 38
	KeyRight     = 39
	KeyDown      = 40

	Key0    = 48
	KeyNum0 = 96

	KeyF = 70
	KeyG = 71
	KeyJ = 74
	KeyK = 75
	KeyN = 78
	KeyP = 80
	KeyR = 82

	// Zoom-in key codes across layouts: '=', numpad '+', and the
	// browser-specific '+' variants.
	KeyEquals    = 61
	KeyNumPlus   = 107
	KeyPlusFF    = 171
	KeyEqualsWK  = 187
	KeyMinus     = 173
	KeyNumMinus  = 109
	KeyMinusWK   = 189
)
