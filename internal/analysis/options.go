package analysis

import (
	"fmt"

	"github.com/deepteams/avcore/internal/logging"
	"github.com/deepteams/avcore/internal/me"
	"github.com/deepteams/avcore/internal/quant"
	"github.com/deepteams/avcore/internal/scan"
)

// Options configures an Analyzer.
type Options struct {
	ME             me.Config
	QP             int  // quantizer of the residual and the cost tables
	Partitions8x8  bool // also try four 8x8 partitions per macroblock
	BidirWeight    int  // weight of the past reference in 64ths when bi-predicting
	Transform8x8   bool
	Decimate       bool
	NoiseReduction int  // denoise strength, 0 disables
	Field          bool // field scan order
	Chroma         bool // code the chroma DC of each macroblock
	Bitstream      bool // keep the coded rows in Result.Rows
	Workers        int  // row workers, 0 picks one per CPU
	Logger         logging.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ME:            me.DefaultConfig(),
		QP:            26,
		Partitions8x8: true,
		BidirWeight:   32,
		Transform8x8:  true,
		Decimate:      true,
		Chroma:        true,
	}
}

// Validate reports whether o is usable.
func (o *Options) Validate() error {
	if err := o.ME.Validate(); err != nil {
		return err
	}
	if o.QP < 0 || o.QP > quant.MaxQP {
		return fmt.Errorf("analysis: qp %d out of [0, %d]", o.QP, quant.MaxQP)
	}
	if o.BidirWeight < 0 || o.BidirWeight > 64 {
		return fmt.Errorf("analysis: bidir weight %d out of [0, 64]", o.BidirWeight)
	}
	if o.NoiseReduction < 0 {
		return fmt.Errorf("analysis: negative noise reduction %d", o.NoiseReduction)
	}
	if o.Workers < 0 {
		return fmt.Errorf("analysis: negative worker count %d", o.Workers)
	}
	return nil
}

func (o *Options) scanOrder() scan.Order {
	if o.Field {
		return scan.Field
	}
	return scan.Frame
}
