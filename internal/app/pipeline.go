package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/pose"
)

// runCapture is the camera-side loop: frames in, pose signals out. It
// runs at its own cadence, decoupled from the render tick; results land
// in the single-slot mailbox where the newest signal wins.
//
// Loop logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion, switch to active mode (ActiveFPS) and run hand detection
// 3. Estimate a pose signal from the first detected hand
// 4. After 2s without motion, drop back to idle mode
func (a *App) runCapture(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.Camera().ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()
				if !activeMode {
					activeMode = true
					a.Camera().SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.Camera().SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			det := a.Detector()
			if !activeMode || det == nil {
				frame.Close()
				continue
			}

			hands, err := det.Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			if len(hands) == 0 {
				// Not an error: the stabilizer holds the last pose.
				continue
			}

			// At most one tracked hand; extra detections are ignored.
			if sig, ok := pose.Estimate(&hands[0]); ok {
				a.mailbox.Put(sig)
			}
		}
	}
}

// runTicks is the render-side loop: a strict 60 Hz sequence of mailbox
// read, stabilizer update, engine advance and focus advance. The only
// shared mutable state crossing from the capture side is the mailbox
// slot.
func (a *App) runTicks(stopCh chan struct{}) {
	interval := time.Second / time.Duration(RenderFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stopCh:
			return
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			if dt <= 0 || dt > 0.25 {
				// Clamp scheduler hiccups so a stalled tick cannot
				// teleport the blend.
				dt = float32(interval.Seconds())
			}

			sig := a.mailbox.Take()
			a.engine.Tick(dt, sig)
			a.focus.Update(dt)
		}
	}
}
