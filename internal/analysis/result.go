package analysis

import (
	"github.com/deepteams/avcore/internal/frameio"
	"github.com/deepteams/avcore/internal/me"
)

// Partition is the motion partitioning of a macroblock.
type Partition uint8

const (
	Part16x16 Partition = iota
	Part8x8
)

func (p Partition) String() string {
	if p == Part8x8 {
		return "8x8"
	}
	return "16x16"
}

// PredMode is the prediction direction of a macroblock.
type PredMode uint8

const (
	PredL0 PredMode = iota // past references
	PredL1                 // future reference
	PredBi                 // weighted average of both
)

func (p PredMode) String() string {
	switch p {
	case PredL1:
		return "L1"
	case PredBi:
		return "Bi"
	}
	return "L0"
}

// MB is the decision for one macroblock.
type MB struct {
	Part Partition
	Pred PredMode
	Ref  int8     // index into the past references
	MV   [4]me.MV // first-list vector per 8x8 quadrant, all equal for 16x16
	MV1  me.MV    // future-reference vector of PredL1 and PredBi

	Cost      int   // mode decision cost
	Bits      int   // coded bits, header and chroma included
	CBP       uint8 // coded luma quadrants
	ChromaCBP uint8 // bit 0 for Cb, bit 1 for Cr
	SSD       int   // luma reconstruction error
	PredSSD   int   // luma prediction error
}

// Result is the analysis of one picture.
type Result struct {
	Width, Height     int
	MBWidth, MBHeight int
	MBs               []MB
	Recon             *frameio.Picture
	Rows              [][]byte // coded rows when Options.Bitstream is set

	Bits           int
	Cost           int64
	SSE, PredSSE   uint64 // luma
	PSNR, PredPSNR float64
	SSIM           float64

	Preds [3]int // macroblocks per PredMode
	Split int    // macroblocks using Part8x8
	Coded int    // macroblocks with a coded luma residual
}

// At returns the macroblock at (mbx, mby).
func (r *Result) At(mbx, mby int) *MB { return &r.MBs[mby*r.MBWidth+mbx] }
