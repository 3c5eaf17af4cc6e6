package cost

import (
	"math"
	"sync"
)

// DefaultRange is the half-width, in quarter pels, of the tables a Cache
// builds: twice the largest vertical MV range of a level 4 stream.
const DefaultRange = 2 * 4 * 512

// mvBits returns the estimated size of an MV difference of magnitude v
// in quarter pels.
func mvBits(v int) float64 {
	if v == 0 {
		return 0.718
	}
	return 2*math.Log2(float64(v+1)) + 1.718
}

// MVTable maps a signed MV difference in quarter pels to its cost. The
// table is immutable once built and may be shared between goroutines.
type MVTable struct {
	lambda int
	rng    int
	cost   []uint16    // cost[rng+d] is the cost of difference d
	fpel   [4][]uint16 // fpel[j][rng/4+i] = cost of 4*i+j
}

// NewMVTable builds the table for lambda covering differences in
// [-rangeQpel, rangeQpel].
func NewMVTable(lambda, rangeQpel int) *MVTable {
	rangeQpel = (rangeQpel + 3) &^ 3
	t := &MVTable{
		lambda: lambda,
		rng:    rangeQpel,
		cost:   make([]uint16, 2*rangeQpel+1),
	}
	for i := 0; i <= rangeQpel; i++ {
		c := float64(lambda)*mvBits(i) + .5
		if c > math.MaxUint16 {
			c = math.MaxUint16
		}
		t.cost[rangeQpel+i] = uint16(c)
		t.cost[rangeQpel-i] = uint16(c)
	}
	frng := rangeQpel / 4
	for j := 0; j < 4; j++ {
		f := make([]uint16, 2*frng+1)
		for i := -frng; i <= frng; i++ {
			f[frng+i] = t.at(4*i + j)
		}
		t.fpel[j] = f
	}
	return t
}

func (t *MVTable) at(d int) uint16 {
	i := t.rng + d
	if i < 0 {
		i = 0
	} else if i >= len(t.cost) {
		i = len(t.cost) - 1
	}
	return t.cost[i]
}

// Lambda returns the lambda the table was built for.
func (t *MVTable) Lambda() int { return t.lambda }

// Range returns the half-width of the table in quarter pels.
func (t *MVTable) Range() int { return t.rng }

// Cost returns the cost of an MV difference d in quarter pels. Differences
// beyond the table saturate.
func (t *MVTable) Cost(d int) int { return int(t.at(d)) }

// Around returns a view for which At(v) is the cost of coding v with
// predictor pred, both in quarter pels.
func (t *MVTable) Around(pred int) Row {
	return Row{tab: t.cost, off: t.rng - pred}
}

// AroundFpel returns a view for which At(x) is the cost of the full-pel
// position x, that is of quarter-pel 4*x, with predictor pred in quarter
// pels.
func (t *MVTable) AroundFpel(pred int) Row {
	j := -pred & 3
	return Row{tab: t.fpel[j], off: t.rng/4 + (-pred >> 2)}
}

// Row is a predictor-relative view of an MVTable.
type Row struct {
	tab []uint16
	off int
}

// At returns the cost of v.
func (r Row) At(v int) int {
	i := r.off + v
	if uint(i) >= uint(len(r.tab)) {
		if i < 0 {
			i = 0
		} else {
			i = len(r.tab) - 1
		}
	}
	return int(r.tab[i])
}

// Cache builds MV tables lazily, one per QP.
type Cache struct {
	mu   sync.Mutex
	rng  int
	tabs [MaxQP + 1]*MVTable
}

// NewCache returns a cache whose tables cover [-rangeQpel, rangeQpel].
func NewCache(rangeQpel int) *Cache {
	if rangeQpel <= 0 {
		rangeQpel = DefaultRange
	}
	return &Cache{rng: rangeQpel}
}

// Table returns the table for qp, building it on first use.
func (c *Cache) Table(qp int) *MVTable {
	qp = clampQP(qp)
	c.mu.Lock()
	defer c.mu.Unlock()
	if t := c.tabs[qp]; t != nil {
		return t
	}
	t := NewMVTable(Lambda(qp), c.rng)
	c.tabs[qp] = t
	return t
}

// RefCost returns the cost of coding reference index ref out of numRefs.
func RefCost(qp, numRefs, ref int) int {
	return Lambda(qp) * TE(numRefs-1, ref)
}
