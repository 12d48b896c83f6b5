package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Motion detection constants.
const (
	// GaussianBlurSize is the kernel size for blur-based noise reduction.
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold applied to the frame difference.
	DiffThreshold = 25
)

// MotionDetector gates the landmark detector: frame differencing against
// the previous frame decides whether anything in front of the camera moved
// enough to be worth running hand detection on.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a MotionDetector. The threshold is the
// percentage of pixels that must change between frames to count as motion
// (1.0 means 1%).
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares the frame against the previous one and reports whether
// motion was seen, along with the percentage of changed pixels. The first
// frame only establishes the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(GaussianBlurSize, GaussianBlurSize), 0, 0, gocv.BorderDefault)

	if !m.initialized {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(thresh)
	total := thresh.Rows() * thresh.Cols()

	blurred.CopyTo(&m.prevGray)

	if total == 0 {
		return false, 0
	}

	changePercent := float64(changed) / float64(total) * 100.0
	return changePercent > m.threshold, changePercent
}

// Reset clears the baseline frame so the next Detect call re-initializes.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = false
}

// Close releases the retained previous frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prevGray.Close()
}
