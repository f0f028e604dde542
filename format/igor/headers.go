package igor

import (
	"bytes"
	"encoding/binary"
)

const (
	maxDims       = 4
	maxWaveName   = 31
	recordTypeMsk = 0x7FFF

	// RecordWave is the record type of a wave record.
	RecordWave = 3
	// WaveVersion is the only wave record version understood by this package.
	WaveVersion = 5
)

type recordHeader struct {
	RecordType   uint16
	Version      int16
	NumDataBytes int32
}

// binHeader5 follows the int16 version that opens a wave record.
type binHeader5 struct {
	Checksum       int16
	WfmSize        int32
	FormulaSize    int32
	NoteSize       int32
	DataEUnitsSize int32
	DimEUnitsSize  [maxDims]int32
	DimLabelsSize  [maxDims]int32
	SIndicesSize   int32
	OptionsSize1   int32
	OptionsSize2   int32
}

// waveHeader5 uses the 32-bit pointer layout Igor writes on every platform.
type waveHeader5 struct {
	Next         uint32
	CreationDate uint32
	ModDate      uint32
	NPnts        int32
	Type         int16
	DLock        int16
	WhPad1       [6]byte
	WhVersion    int16
	BName        [maxWaveName + 1]byte
	WhPad2       int32
	DFolder      uint32
	NDim         [maxDims]int32
	SfA          [maxDims]float64
	SfB          [maxDims]float64
	DataUnits    [4]byte
	DimUnits     [maxDims][4]byte
	FsValid      int16
	WhPad3       int16
	TopFullScale float64
	BotFullScale float64
	DataEUnits   uint32
	DimEUnits    [maxDims]uint32
	DimLabels    [maxDims]uint32
	WaveNoteH    uint32
	Platform     uint8
	Spare        [3]byte
	WhUnused     [13]int32
	VRefNum      int32
	DirID        int32
	AModified    int16
	WModified    int16
	SwModified   int16
	UseBits      byte
	KindBits     byte
	Formula      uint32
	DepID        int32
	WhPad4       int16
	SrcFldr      int16
	FileName     uint32
	SIndices     uint32
}

// Sizes in bytes of the fixed wave record prefix.
const (
	versionSize    = 2
	binHeaderSize  = 62
	waveHeaderSize = 320
	prefixSize     = versionSize + binHeaderSize + waveHeaderSize
)

// name returns bname up to its first NUL.
func (h *waveHeader5) name() string {
	if i := bytes.IndexByte(h.BName[:], 0); i >= 0 {
		return string(h.BName[:i])
	}
	return string(h.BName[:])
}

func (h *waveHeader5) setName(name string) {
	h.BName = [maxWaveName + 1]byte{}
	if len(name) > maxWaveName {
		name = name[:maxWaveName]
	}
	copy(h.BName[:], name)
}

// rank counts the leading non-zero extents.
func (h *waveHeader5) rank() int {
	n := 0
	for n < maxDims && h.NDim[n] != 0 {
		n++
	}
	return n
}

// checksum returns the value that makes the 16-bit word sum of b zero when
// stored in the checksum field. Over a complete prefix it is zero exactly
// when the stored checksum is consistent.
func checksum(b []byte) int16 {
	var sum int16
	for i := 0; i+1 < len(b); i += 2 {
		sum += int16(binary.LittleEndian.Uint16(b[i:]))
	}
	return -sum
}
