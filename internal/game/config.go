package game

// Window defaults.
const (
	WindowTitle = "Racer"
	MinWindow   = 320 // smallest window edge; tiny tracks are scaled up
)

// HUD layout in track pixels, measured from the top-right and top-left corners.
const (
	HUDRightInset = 180
	HUDTimerY     = 20
	HUDBestY      = 60
	HUDLastY      = 85
	HUDLapY       = 110
	HelpX         = 15
	HelpY         = 15
	HelpLineStep  = 18
	GateLabelRise = 20
)

// Line widths in track pixels.
const (
	GateLineWidth    = 3.0
	PendingLineWidth = 1.0
)

// Font sizes in track pixels.
const (
	TimerFontSize = 30.0
	LabelFontSize = 16.0
	HelpFontSize  = 14.0
)

// Font atlas layout: printable ASCII, 16 glyph cells per row.
const (
	FontFirstRune = 32
	FontLastRune  = 126
	FontCols      = 16
)

// Sprite buffer capacity (point sprites per draw call).
const MaxSpriteRender = 4096

// Simulation steps allowed per rendered frame before time is dropped.
const MaxStepsPerFrame = 5

// Audio.
const (
	MaxVoices   = 4 // cues sounding at once
	AudioVolume = 0.6
)
