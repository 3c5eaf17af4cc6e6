// Package cost converts bit counts into distortion units. It holds the
// per-QP lambda tables and the motion vector cost tables the motion search
// adds to its block metrics.
package cost

// MaxQP is the largest quantizer the tables cover.
const MaxQP = 51

// lambdaTab is the SAD-domain lambda per QP.
var lambdaTab = [MaxQP + 1]uint8{
	1, 1, 1, 1, 1, 1, 1, 1, // 0-7
	1, 1, 1, 1, 1, 1, 1, 1, // 8-15
	2, 2, 2, 2, 3, 3, 3, 4, // 16-23
	4, 4, 5, 6, 6, 7, 8, 9, // 24-31
	10, 11, 13, 14, 16, 18, 20, 23, // 32-39
	25, 29, 32, 36, 40, 45, 51, 57, // 40-47
	64, 72, 81, 91, // 48-51
}

// 2^(i/3) in units of 1/1024, one QP period.
var lambda2Tab = [6]int{1024, 1290, 1625, 2048, 2580, 3251}

// Lambda2Bits is the fixed-point precision of Lambda2.
const Lambda2Bits = 8

func clampQP(qp int) int {
	if qp < 0 {
		return 0
	}
	if qp > MaxQP {
		return MaxQP
	}
	return qp
}

// Lambda returns the lambda that weighs bits against SAD or SATD at qp.
func Lambda(qp int) int { return int(lambdaTab[clampQP(qp)]) }

// Lambda2 returns the lambda that weighs bits against SSD at qp, scaled by
// 1<<Lambda2Bits. It is 0.85 * 2^((qp-12)/3).
func Lambda2(qp int) int {
	qp = clampQP(qp)
	return (lambda2Tab[qp%6] << (2 * (qp / 6))) * 85 / 6400
}

// RD combines a distortion and a bit count with a Lambda2 weight.
func RD(ssd, bits, lambda2 int) int {
	return ssd + (bits*lambda2+(1<<(Lambda2Bits-1)))>>Lambda2Bits
}
