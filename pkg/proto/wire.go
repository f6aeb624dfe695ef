package proto

// Every frame in either direction starts with this byte. A receiver that
// lost track of the stream scans forward until it sees it again.
const SyncToken = 0xA5

// MaxArgs bounds the u16 parameter list of a single command frame.
const MaxArgs = 12

// Data block tags, sent in a second frame directly after a command whose
// opcode announces attached data.
const (
	DataFieldByte   = 0x01
	DataFieldShort  = 0x02
	DataFieldInt    = 0x03
	DataFieldLong   = 0x04
	DataFieldFloat  = 0x05
	DataFieldDouble = 0x06
	LastDataField   = 0x07
)

// Opcode range boundaries. Routing goes by range first, exact opcode second.
const (
	OpcodeFirstInternal       = 0x08
	OpcodeLastInternal        = 0x0F
	OpcodeLastDisplay         = 0x3F
	OpcodeFirstButton         = 0x40
	OpcodeLastButton          = 0x4F
	OpcodeFirstSlider         = 0x50
	OpcodeLastSlider          = 0x5F
	OpcodeFirstWithData       = 0x60
	OpcodeFirstButtonWithData = 0x70
	OpcodeLastButtonWithData  = 0x77
	OpcodeFirstSliderWithData = 0x78
	OpcodeLastSliderWithData  = 0x7E
	OpcodeNop                 = 0x7F
)

// Internal commands.
const (
	CmdGlobalSettings   = 0x08
	CmdRequestMaxCanvas = 0x09
	CmdSensorSettings   = 0x0A
	CmdGetNumber        = 0x0C
	CmdGetText          = 0x0D
	CmdGetInfo          = 0x0E
	CmdPlayTone         = 0x0F
)

// CmdGlobalSettings subcommands.
const (
	SubFlagsAndSize        = 0x00
	SubSetCodepage         = 0x01
	SubSetCharacterMapping = 0x02
	SubSetLongTouchTimeout = 0x08
	SubSetOrientationLock  = 0x0C
)

// SubFlagsAndSize flag bits.
const (
	FlagResetAll          = 0x01
	FlagTouchBasicDisable = 0x02
	FlagTouchMoveDisable  = 0x04
	FlagLongTouchEnable   = 0x08
	FlagUseMaxSize        = 0x10
)

// CmdGetInfo subcommands.
const (
	InfoLocalTime = 0x00
	InfoUtcTime   = 0x01
)

// Display commands.
const (
	CmdClearDisplay         = 0x10
	CmdDrawDisplay          = 0x11
	CmdClearDisplayOptional = 0x12
	CmdDrawPixel            = 0x14
	CmdDrawChar             = 0x16
	CmdDrawLineRel          = 0x20
	CmdDrawLine             = 0x21
	CmdDrawRectRel          = 0x24
	CmdFillRectRel          = 0x25
	CmdDrawRect             = 0x26
	CmdFillRect             = 0x27
	CmdDrawCircle           = 0x28
	CmdFillCircle           = 0x29
	CmdDrawVectorDegree     = 0x2C
	CmdDrawVectorRadian     = 0x2D
	CmdWriteSettings        = 0x34
)

// CmdWriteSettings subcommands.
const (
	WriteFlagsAndSize = 0x00
	WritePosition     = 0x01
	WriteLineColumn   = 0x02
)

// Display commands with a data block.
const (
	CmdDrawString               = 0x60
	CmdDebugString              = 0x61
	CmdWriteString              = 0x62
	CmdGetNumberWithShortPrompt = 0x64
	CmdGetTextWithShortPrompt   = 0x65
	CmdDrawPath                 = 0x68
	CmdFillPath                 = 0x69
	CmdDrawChart                = 0x6A
	CmdDrawChartNoRender        = 0x6B
)

// Button commands.
const (
	CmdButtonDraw           = 0x40
	CmdButtonDrawCaption    = 0x41
	CmdButtonSettings       = 0x42
	CmdButtonRemove         = 0x43
	CmdButtonActivateAll    = 0x48
	CmdButtonDeactivateAll  = 0x49
	CmdButtonGlobalSettings = 0x4A
)

// Button commands with a data block.
const (
	CmdButtonCreate            = 0x70
	CmdButtonSetCaptionForTrue = 0x71
	CmdButtonSetCaption        = 0x72
	CmdButtonSetCaptionAndDraw = 0x73
)

// CmdButtonSettings subcommands.
const (
	ButtonSetColor                = 0x00
	ButtonSetColorAndDraw         = 0x01
	ButtonSetCaptionColor         = 0x02
	ButtonSetCaptionColorAndDraw  = 0x03
	ButtonSetValue                = 0x04
	ButtonSetValueAndDraw         = 0x05
	ButtonSetColorAndValue        = 0x06
	ButtonSetColorAndValueAndDraw = 0x07
	ButtonSetPosition             = 0x08
	ButtonSetPositionAndDraw      = 0x09
	ButtonSetActive               = 0x10
	ButtonResetActive             = 0x11
	ButtonSetAutorepeatTiming     = 0x12
	ButtonSetCallback             = 0x20
)

// CmdButtonGlobalSettings flag bits.
const (
	ButtonsGlobalUseUpEvents = 0x01
	ButtonsGlobalSetBeepTone = 0x02
)

// Slider commands.
const (
	CmdSliderDraw           = 0x50
	CmdSliderSettings       = 0x51
	CmdSliderDrawBorder     = 0x52
	CmdSliderGlobalSettings = 0x53
	CmdSliderRemove         = 0x54
	CmdSliderActivateAll    = 0x58
	CmdSliderDeactivateAll  = 0x59
)

// Slider commands with a data block.
const (
	CmdSliderCreate         = 0x78
	CmdSliderSetCaption     = 0x79
	CmdSliderPrintValue     = 0x7A
	CmdSliderSetValueString = 0x7B
)

// CmdSliderSettings subcommands.
const (
	SliderSetColorThreshold       = 0x00
	SliderSetColorBarBackground   = 0x01
	SliderSetColorBar             = 0x02
	SliderSetValueAndDrawBar      = 0x03
	SliderSetPosition             = 0x04
	SliderSetActive               = 0x05
	SliderResetActive             = 0x06
	SliderSetScaleFactor          = 0x07
	SliderSetValueFormat          = 0x08
	SliderSetCallback             = 0x09
	SliderSetFlags                = 0x0A
	SliderSetCaptionProperties    = 0x0B
	SliderSetPrintValueProperties = 0x0C
)

// Event tags, host to client. Tags below EventFirstCallback carry the short
// touch payload, tags at or above it carry the callback payload.
const (
	EventTouchDown  = 0x00
	EventTouchMove  = 0x01
	EventTouchUp    = 0x02
	EventTouchError = 0x03

	EventConnectionBuildUp = 0x04
	EventRedraw            = 0x05
	EventReorientation     = 0x06
	EventDisconnect        = 0x14

	EventFirstCallback         = 0x20
	EventButtonCallback        = 0x20
	EventSliderCallback        = 0x21
	EventSwipeCallback         = 0x22
	EventLongTouchDownCallback = 0x23
	EventNumberCallback        = 0x28
	EventInfoCallback          = 0x29
	EventTextCallback          = 0x2A
	EventNop                   = 0x2F

	EventFirstSensorAction = 0x30
	EventLastSensorAction  = 0x3F

	EventRequestedCanvasSize = 0x60
)

// Payload sizes in bytes, excluding sync token and tag.
const (
	TouchEventSize    = 4
	CallbackEventSize = 12
)
