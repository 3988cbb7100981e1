package ocr

import (
	"image"
	"testing"

	"github.com/ironsheep/vision-tools/internal/detection"
)

func TestToDetections(t *testing.T) {
	words := []word{
		{box: image.Rect(0, 0, 10, 10), text: " AB12 ", confidence: 91},
		{box: image.Rect(12, 0, 20, 10), text: "   ", confidence: 99},
		{box: image.Rect(22, 0, 30, 10), text: "CD", confidence: 140},
		{box: image.Rect(32, 0, 40, 10), text: "X", confidence: -3},
	}

	got := toDetections(words, 0)
	if len(got) != 3 {
		t.Fatalf("got %d detections, want 3 (empty word dropped)", len(got))
	}
	if got[0].Text != "AB12" {
		t.Errorf("text not trimmed: %q", got[0].Text)
	}
	if got[0].Confidence != 0.91 {
		t.Errorf("confidence: got %v, want 0.91", got[0].Confidence)
	}
	if got[1].Confidence != 1 {
		t.Errorf("confidence above 100 not clamped: %v", got[1].Confidence)
	}
	if got[2].Confidence != 0 {
		t.Errorf("negative confidence not clamped: %v", got[2].Confidence)
	}
	if got[0].Box != image.Rect(0, 0, 10, 10) {
		t.Errorf("box changed: %v", got[0].Box)
	}
}

func TestToDetections_MinConfidence(t *testing.T) {
	words := []word{
		{text: "LOW", confidence: 30},
		{text: "HIGH", confidence: 80},
	}
	got := toDetections(words, 0.5)
	if len(got) != 1 || got[0].Text != "HIGH" {
		t.Errorf("got %v, want only HIGH", got)
	}
}

func TestTranslate(t *testing.T) {
	dets := []detection.TextDetection{
		{Box: image.Rect(0, 0, 4, 4), Text: "A"},
		{Box: image.Rect(5, 1, 9, 4), Text: "B"},
	}
	moved := Translate(dets, image.Pt(10, 20))

	if moved[0].Box != image.Rect(10, 20, 14, 24) || moved[1].Box != image.Rect(15, 21, 19, 24) {
		t.Errorf("got %v", moved)
	}
	if dets[0].Box != image.Rect(0, 0, 4, 4) {
		t.Error("Translate modified its input")
	}
}

func TestOptionsDefaults(t *testing.T) {
	if got := (Options{}).withDefaults().Language; got != DefaultLanguage {
		t.Errorf("language: got %q, want %q", got, DefaultLanguage)
	}
	if got := (Options{Language: "deu"}).withDefaults().Language; got != "deu" {
		t.Errorf("explicit language overridden: %q", got)
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo(Options{})
	if info.Backend == "" {
		t.Error("Backend should be set")
	}
	if !info.Available && info.Error == "" {
		t.Error("unavailable engine should report an error")
	}
	t.Logf("OCR info: %+v", info)
}
