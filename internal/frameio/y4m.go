package frameio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Y4M errors.
var (
	ErrY4MHeader = errors.New("y4m: invalid stream header")
	ErrY4MFrame  = errors.New("y4m: invalid frame header")
	ErrY4MChroma = errors.New("y4m: only 8-bit 4:2:0 is supported")
)

const y4mMagic = "YUV4MPEG2"

// MaxDimension bounds the width and height accepted from a stream header.
const MaxDimension = 1 << 14

// Y4MHeader holds the stream parameters of a YUV4MPEG2 file.
type Y4MHeader struct {
	Width, Height int
	FPSNum        int
	FPSDen        int
	Interlace     byte   // 'p', 't', 'b' or 'm'
	Params        string // remaining parameters, space separated
}

// Y4MReader reads 4:2:0 pictures from a YUV4MPEG2 stream.
type Y4MReader struct {
	r   *bufio.Reader
	hdr Y4MHeader
	n   int
}

// NewY4MReader parses the stream header of r.
func NewY4MReader(r io.Reader) (*Y4MReader, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrY4MHeader, err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != y4mMagic {
		return nil, ErrY4MHeader
	}
	hdr := Y4MHeader{FPSNum: 25, FPSDen: 1, Interlace: 'p'}
	var extra []string
	for _, f := range fields[1:] {
		val := f[1:]
		switch f[0] {
		case 'W':
			hdr.Width, err = strconv.Atoi(val)
		case 'H':
			hdr.Height, err = strconv.Atoi(val)
		case 'F':
			num, den, ok := strings.Cut(val, ":")
			if !ok {
				return nil, ErrY4MHeader
			}
			if hdr.FPSNum, err = strconv.Atoi(num); err == nil {
				hdr.FPSDen, err = strconv.Atoi(den)
			}
		case 'I':
			if val != "" {
				hdr.Interlace = val[0]
			}
		case 'C':
			if !strings.HasPrefix(val, "420") || strings.Contains(val, "p1") {
				return nil, ErrY4MChroma
			}
		default:
			extra = append(extra, f)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrY4MHeader, f, err)
		}
	}
	if hdr.Width <= 0 || hdr.Height <= 0 || hdr.Width > MaxDimension || hdr.Height > MaxDimension {
		return nil, ErrY4MHeader
	}
	hdr.Params = strings.Join(extra, " ")
	return &Y4MReader{r: br, hdr: hdr}, nil
}

// Header returns the stream parameters.
func (y *Y4MReader) Header() Y4MHeader { return y.hdr }

// Frames returns the number of pictures read so far.
func (y *Y4MReader) Frames() int { return y.n }

// Next reads the next picture. It returns io.EOF at the end of the stream.
func (y *Y4MReader) Next() (*Picture, error) {
	line, err := y.r.ReadString('\n')
	if err == io.EOF && line == "" {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrY4MFrame, err)
	}
	if !strings.HasPrefix(line, "FRAME") {
		return nil, ErrY4MFrame
	}
	p := NewPicture(y.hdr.Width, y.hdr.Height)
	for _, plane := range [][]byte{p.Y, p.Cb, p.Cr} {
		if _, err := io.ReadFull(y.r, plane); err != nil {
			return nil, fmt.Errorf("y4m: frame %d: %w", y.n, err)
		}
	}
	y.n++
	return p, nil
}

// Y4MWriter writes 4:2:0 pictures as a YUV4MPEG2 stream.
type Y4MWriter struct {
	w   *bufio.Writer
	hdr Y4MHeader
}

// NewY4MWriter writes the stream header for hdr to w.
func NewY4MWriter(w io.Writer, hdr Y4MHeader) (*Y4MWriter, error) {
	if hdr.FPSNum <= 0 || hdr.FPSDen <= 0 {
		hdr.FPSNum, hdr.FPSDen = 25, 1
	}
	if hdr.Interlace == 0 {
		hdr.Interlace = 'p'
	}
	bw := bufio.NewWriter(w)
	_, err := fmt.Fprintf(bw, "%s W%d H%d F%d:%d I%c C420jpeg\n", y4mMagic, hdr.Width, hdr.Height, hdr.FPSNum, hdr.FPSDen, hdr.Interlace)
	if err != nil {
		return nil, err
	}
	return &Y4MWriter{w: bw, hdr: hdr}, nil
}

// Write appends p, whose size must match the header.
func (y *Y4MWriter) Write(p *Picture) error {
	if p.Width != y.hdr.Width || p.Height != y.hdr.Height {
		return fmt.Errorf("y4m: picture %dx%d in a %dx%d stream", p.Width, p.Height, y.hdr.Width, y.hdr.Height)
	}
	if _, err := y.w.WriteString("FRAME\n"); err != nil {
		return err
	}
	cw, ch := p.ChromaSize()
	if err := writePlane(y.w, p.Y, p.YStride, p.Width, p.Height); err != nil {
		return err
	}
	if err := writePlane(y.w, p.Cb, p.CStride, cw, ch); err != nil {
		return err
	}
	return writePlane(y.w, p.Cr, p.CStride, cw, ch)
}

// Flush writes buffered data to the underlying writer.
func (y *Y4MWriter) Flush() error { return y.w.Flush() }

func writePlane(w io.Writer, p []byte, stride, width, height int) error {
	for row := 0; row < height; row++ {
		if _, err := w.Write(p[row*stride : row*stride+width]); err != nil {
			return err
		}
	}
	return nil
}
