package hdrreport

import (
	"fmt"
	"io"
	"os"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// MaxLength is the largest line length, in bytes, a histogram records.
const MaxLength int64 = 1 << 20

// NewHistogram returns a histogram of line lengths in bytes.
func NewHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(0, MaxLength, 3)
}

// Record adds a line length, clamping it to MaxLength.
func Record(hist *hdrhistogram.Histogram, length int) error {
	return hist.RecordValue(min(int64(length), MaxLength))
}

func WriteReportCSV(filename string, hist *hdrhistogram.Histogram) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	for _, bar := range hist.Distribution() {
		if _, err := f.Write([]byte(bar.String())); err != nil {
			f.Close()
			return err
		}
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

var summaryBuckets = [][2]int64{
	{0, 1},
	{1, 16},
	{16, 64},
	{64, 128},
	{128, 256},
	{256, 512},
	{512, 1024},
	{1024, 4096},
	{4096, 16384},
	{16384, MaxLength + 1},
}

func PrintLengthSummary(w io.Writer, hist *hdrhistogram.Histogram) {
	bars := hist.Distribution()
	fmt.Fprintf(w, " FROM      TO #LINES\n")
	for _, b := range summaryBuckets {
		fmt.Fprintf(w, "%5d %7d %d\n", b[0], b[1], SumBars(b[0], b[1], bars))
	}
}

// Given a sorted `[]hdrhistogram.Bar`, return the sum of every `Bar` in the
// Range of [from, to). Inclusive of from, exclusive of to.
func SumBars(from int64, to int64, bars []hdrhistogram.Bar) int64 {
	count := int64(0)
	for _, bar := range bars {
		if bar.From >= to {
			// short circuit if we've passed the range
			// we're interested in.
			break
		}
		if bar.From >= from {
			count += bar.Count
		}
	}
	return count
}
