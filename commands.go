package sh1106

const (
	setLowColumn          = 0x00
	setHighColumn         = 0x10
	setMemoryMode         = 0x20
	setStartLine          = 0x40
	setContrast           = 0x81
	setChargePump         = 0x8D
	setSegmentRemap       = 0xA0
	setDisplayAllOnResume = 0xA4
	setNormalDisplay      = 0xA6
	setInvertDisplay      = 0xA7
	setMultiplexRatio     = 0xA8
	setDisplayOff         = 0xAE
	setDisplayOn          = 0xAF
	setPageAddr           = 0xB0
	setComScanInc         = 0xC0
	setComScanDec         = 0xC8
	setDisplayOffset      = 0xD3
	setDisplayClockDiv    = 0xD5
	setPrecharge          = 0xD9
	setComPins            = 0xDA
	setVComDetect         = 0xDB
)

const (
	// The SH1106 has 132 columns of RAM, the 128 visible ones start at column 2.
	columnOffset = 2

	// physicalWidthBytes is the size of a single data write.
	physicalWidthBytes = 132 >> 3

	pages           = 64 >> 3
	chunksPerPage   = 8
	defaultContrast = 0xCF
)
