package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestNewMotionDetector(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
	}{
		{
			name:      "default threshold",
			threshold: 1.0,
		},
		{
			name:      "high threshold",
			threshold: 5.0,
		},
		{
			name:      "low threshold",
			threshold: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(tt.threshold)
			if md == nil {
				t.Fatal("NewMotionDetector returned nil")
			}
			defer md.Close()

			if md.threshold != tt.threshold {
				t.Errorf("threshold = %f, want %f", md.threshold, tt.threshold)
			}

			if md.initialized {
				t.Error("motion detector should not be initialized initially")
			}
		})
	}
}

func TestMotionDetector_NoMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0) // 1% threshold
	defer md.Close()

	// Create two identical black frames
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()

	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	// First frame initializes the detector
	detected, changePercent := md.Detect(&frame1)
	if detected {
		t.Error("first frame should not detect motion")
	}
	if changePercent != 0 {
		t.Errorf("first frame changePercent = %f, want 0", changePercent)
	}

	// Second identical frame should not detect motion
	detected, changePercent = md.Detect(&frame2)
	if detected {
		t.Errorf("identical frames should not detect motion, changePercent = %f", changePercent)
	}
}

func TestMotionDetector_WithMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0) // 1% threshold
	defer md.Close()

	// Create a black frame (all zeros)
	blackFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer blackFrame.Close()

	// Create a white frame (all 255s)
	whiteFrame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer whiteFrame.Close()
	whiteFrame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	// Initialize with black frame
	md.Detect(&blackFrame)

	// White frame should trigger motion
	detected, changePercent := md.Detect(&whiteFrame)
	if !detected {
		t.Errorf("expected motion between black and white frames, changePercent = %f", changePercent)
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	if !md.initialized {
		t.Fatal("detector should be initialized after first frame")
	}

	md.Reset()
	if md.initialized {
		t.Error("detector should not be initialized after reset")
	}

	// After reset the next frame re-establishes the baseline
	detected, _ := md.Detect(&frame)
	if detected {
		t.Error("baseline frame after reset should not detect motion")
	}
}

func TestMotionDetector_NilFrame(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	detected, changePercent := md.Detect(nil)
	if detected || changePercent != 0 {
		t.Errorf("nil frame should report no motion, got %v %f", detected, changePercent)
	}
}
