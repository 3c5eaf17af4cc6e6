package avcore

import (
	"context"
	"fmt"
	"testing"

	"github.com/deepteams/avcore/internal/me"
)

func BenchmarkAnalyzePair(b *testing.B) {
	ref := gradient(640, 480, 0, 0)
	cur := gradient(640, 480, 3, 2)
	for _, method := range []me.Method{me.Dia, me.Hex, me.UMH} {
		b.Run(method.String(), func(b *testing.B) {
			opts := DefaultOptions()
			opts.ME.Method = method
			b.SetBytes(int64(len(cur.Y)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := AnalyzePair(context.Background(), cur, ref, opts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSequence(b *testing.B) {
	for _, refs := range []int{1, 4} {
		b.Run(fmt.Sprintf("refs%d", refs), func(b *testing.B) {
			pics := make([]*Picture, 8)
			for i := range pics {
				pics[i] = gradient(352, 288, 2*i, i)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				seq, err := NewSequence(SequenceOptions{Analysis: DefaultOptions(), Refs: refs})
				if err != nil {
					b.Fatal(err)
				}
				for _, p := range pics {
					if _, err := seq.Push(context.Background(), p); err != nil {
						b.Fatal(err)
					}
				}
				seq.Close()
			}
		})
	}
}
