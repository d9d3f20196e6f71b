package l15

import (
	"context"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MapSegment copies the part of seg that overlaps img into img and returns
// the number of lines copied. Segment rows run south to north and columns
// east to west, the image is north-up with the western column first, so
// both axes are reversed during the copy.
func MapSegment(img *Image, seg *Segment) int {
	dst, src := img.Coverage, seg.Coverage

	south := max(dst.South, src.South)
	north := min(dst.North, src.North)
	east := max(dst.East, src.East)
	west := min(dst.West, src.West)

	nlin := north - south + 1
	ncol := west - east + 1
	if nlin <= 0 || ncol <= 0 {
		return 0
	}
	if len(seg.Counts) < seg.Lines()*seg.Columns() {
		return 0
	}

	for il := 0; il < nlin; il++ {
		ld := dst.North - north + il
		ls := south - src.South + nlin - il - 1

		if ls < len(seg.LineInfo) {
			img.LineInfo[ld] = seg.LineInfo[ls]
		}

		rowDst := img.Counts[ld*img.Columns : (ld+1)*img.Columns]
		rowSrc := seg.Counts[ls*seg.Columns() : (ls+1)*seg.Columns()]
		cd := dst.West - west
		cs := west - src.East
		for ic := 0; ic < ncol; ic++ {
			rowDst[cd+ic] = rowSrc[cs-ic]
		}
	}

	if !img.identified {
		img.identified = true
		img.SpacecraftID = seg.Identification.SatelliteID
		img.ChannelID = seg.Identification.ChannelID
		img.Depth = int(seg.Structure.BitsPerPixel)
		img.SegmentID = seg.Identification.SequenceNumber
	}
	return nlin
}

// SegmentResult reports what happened to one segment file during ReadImage.
type SegmentResult struct {
	Path    string
	Skipped bool // no overlap with the requested coverage
	Lines   int
	Bytes   int
	Err     error
}

// Reader assembles images from segment files.
type Reader struct {
	// Decompressor is used for compressed payloads, they fail without one
	Decompressor Decompressor
	// Workers bounds the number of segments decoded at once, 0 means one per segment
	Workers int
	// OnSegment is called once per segment file, in file order, after all of them are decoded
	OnSegment func(SegmentResult)
}

// ReadImage with a default Reader.
func ReadImage(files []string, cov *Coverage) (*Image, error) {
	return (&Reader{}).ReadImage(context.Background(), files, cov)
}

// ReadImage allocates an image for cov (the full disk of the first segment's
// channel when cov is nil) and maps every overlapping segment into it.
// Payloads are decoded concurrently and mapped in the order of files.
// Segments that fail to read are logged and left out.
func (r *Reader) ReadImage(ctx context.Context, files []string, cov *Coverage) (*Image, error) {
	want, err := r.requested(files, cov)
	if err != nil {
		return nil, err
	}
	img, err := NewImage(want)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	if r.Workers > 0 {
		g.SetLimit(r.Workers)
	}

	jobs := make([]*segmentJob, len(files))
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			jobs[i] = r.readOne(path, want)
			if jobs[i].Err == nil && !jobs[i].Skipped {
				logrus.Debugf("Reading: %s", path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Segments are mapped in file order so overlapping lines always come
	// from the last file that covers them.
	for _, job := range jobs {
		job.apply(img)
		if r.OnSegment != nil {
			r.OnSegment(job.SegmentResult)
		}
	}
	return img, nil
}

type segmentJob struct {
	SegmentResult
	seg *Segment
}

func (j *segmentJob) apply(img *Image) {
	if j.Err != nil {
		logrus.Warnf("skipping segment %s: %v", j.Path, j.Err)
		return
	}
	if j.seg == nil {
		return
	}
	j.Lines = MapSegment(img, j.seg)
	j.seg = nil
	logrus.Tracef("mapped %s lines from %s", color.CyanString("%d", j.Lines), j.Path)
}

func (r *Reader) readOne(path string, want Coverage) *segmentJob {
	job := &segmentJob{SegmentResult: SegmentResult{Path: path}}

	seg, f, err := openSegment(path)
	if err != nil {
		job.Err = err
		return job
	}
	defer f.Close()

	if !seg.Coverage.Overlaps(want) {
		job.Skipped = true
		logrus.Tracef("Skipping: %s", path)
		return job
	}
	if err := seg.readCounts(f, r.Decompressor); err != nil {
		job.Err = err
		return job
	}
	job.Bytes = int(f.DataBytes())
	job.seg = seg
	return job
}

func (r *Reader) requested(files []string, cov *Coverage) (Coverage, error) {
	if cov != nil {
		return *cov, nil
	}
	for _, path := range files {
		c, err := SegmentCoverage(path)
		if err != nil {
			continue
		}
		id, err := ChannelID(c.Channel)
		if err != nil {
			continue
		}
		return FullDisk(id), nil
	}
	return FullDisk(1), nil
}
