// Package avcore provides the motion estimation and residual coding core
// of an H.264-style video encoder in pure Go.
//
// For every 16x16 macroblock of a picture it searches past (and optionally
// one future) reference pictures for the best quarter-pel motion vector,
// decides between 16x16 and 8x8 partitions and bi-prediction, and codes
// the prediction residual with the integer transforms, quantization and
// scans of H.264. The package supports:
//   - Diamond, hexagon, uneven multi-hexagon and exhaustive searches
//   - Half and quarter-pel refinement, optionally rate-distortion driven
//   - Joint refinement of bi-predicted vector pairs
//   - 4x4 and 8x8 transforms with decimation and noise reduction
//   - Frame and field scans
//   - Parallel analysis of macroblock rows
//
// Basic usage for a pair of pictures:
//
//	res, err := avcore.AnalyzePair(ctx, cur, ref, avcore.DefaultOptions())
//
// Basic usage for a sequence:
//
//	seq, err := avcore.NewSequence(avcore.SequenceOptions{Analysis: avcore.DefaultOptions(), Refs: 2})
//	defer seq.Close()
//	for _, p := range pictures {
//		res, err := seq.Push(ctx, p)
//		...
//	}
package avcore
