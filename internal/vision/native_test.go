package vision

import (
	"image"
	"image/color"
	"testing"
)

func TestNative_Threshold(t *testing.T) {
	ch := image.NewGray(image.Rect(0, 0, 3, 1))
	ch.Pix[0], ch.Pix[1], ch.Pix[2] = 99, 100, 101

	mask, err := NewNative().Threshold(ch, 100)
	if err != nil {
		t.Fatalf("Threshold failed: %v", err)
	}

	want := []uint8{0, 0, 255}
	for i, w := range want {
		if mask.Pix[i] != w {
			t.Errorf("pixel %d: got %d, want %d", i, mask.Pix[i], w)
		}
	}
}

func TestNative_ThresholdLevelZero(t *testing.T) {
	ch := image.NewGray(image.Rect(0, 0, 2, 1))
	ch.Pix[1] = 1

	mask, err := NewNative().Threshold(ch, 0)
	if err != nil {
		t.Fatalf("Threshold failed: %v", err)
	}
	if mask.Pix[0] != 0 || mask.Pix[1] != 255 {
		t.Errorf("got %v, want [0 255]", mask.Pix)
	}
}

func TestNative_SplitChannelsOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}

	chans, err := NewNative().SplitChannels(img)
	if err != nil {
		t.Fatalf("SplitChannels failed: %v", err)
	}
	if len(chans) != 3 {
		t.Fatalf("channel count: got %d, want 3", len(chans))
	}

	want := []uint8{30, 20, 10} // blue, green, red
	for i, w := range want {
		if got := chans[i].GrayAt(1, 1).Y; got != w {
			t.Errorf("channel %d: got %d, want %d", i, got, w)
		}
	}
}

func TestNative_SplitChannelsEmpty(t *testing.T) {
	if _, err := NewNative().SplitChannels(image.NewRGBA(image.Rectangle{})); err == nil {
		t.Error("expected error for empty image")
	}
}

func TestNative_Dilate(t *testing.T) {
	mask := createMask(9, 9, image.Rect(4, 4, 5, 5))

	grown, err := NewNative().Dilate(mask)
	if err != nil {
		t.Fatalf("Dilate failed: %v", err)
	}

	for _, p := range []image.Point{{4, 4}, {3, 4}, {5, 4}, {4, 3}, {4, 5}} {
		if grown.GrayAt(p.X, p.Y).Y != 255 {
			t.Errorf("pixel %v should be foreground after dilation", p)
		}
	}
	for _, p := range []image.Point{{2, 4}, {6, 4}, {4, 2}, {4, 6}, {0, 0}} {
		if grown.GrayAt(p.X, p.Y).Y != 0 {
			t.Errorf("pixel %v should stay background", p)
		}
	}
}

func TestNative_BlurKernelSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	n := NewNative()

	for _, k := range []int{0, 2, 4, -3} {
		if _, err := n.Blur(img, k); err == nil {
			t.Errorf("kernel size %d should be rejected", k)
		}
	}
	if _, err := n.Blur(img, 1); err != nil {
		t.Errorf("kernel size 1: %v", err)
	}
}

func TestNative_BlurUniform(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 200, 100, 50, 255
	}

	out, err := NewNative().Blur(img, 5)
	if err != nil {
		t.Fatalf("Blur failed: %v", err)
	}

	r, g, b, _ := out.At(10, 10).RGBA()
	if d := int(r>>8) - 200; d < -1 || d > 1 {
		t.Errorf("red drifted to %d", r>>8)
	}
	if d := int(g>>8) - 100; d < -1 || d > 1 {
		t.Errorf("green drifted to %d", g>>8)
	}
	if d := int(b>>8) - 50; d < -1 || d > 1 {
		t.Errorf("blue drifted to %d", b>>8)
	}
}

func TestNative_NilInputs(t *testing.T) {
	n := NewNative()
	if _, err := n.Threshold(nil, 10); err == nil {
		t.Error("Threshold(nil) should fail")
	}
	if _, err := n.Dilate(nil); err == nil {
		t.Error("Dilate(nil) should fail")
	}
	if _, err := n.ExtractContours(nil); err == nil {
		t.Error("ExtractContours(nil) should fail")
	}
	if _, err := n.EdgeDetect(nil, 0, 50, 5); err == nil {
		t.Error("EdgeDetect(nil) should fail")
	}
}

func TestNew(t *testing.T) {
	p, err := New("")
	if err != nil {
		t.Fatalf("New(\"\") failed: %v", err)
	}
	if _, ok := p.(*Native); !ok {
		t.Errorf("default backend: got %T, want *Native", p)
	}

	if _, err := New("no-such-backend"); err == nil {
		t.Error("unknown backend should be rejected")
	}

	found := false
	for _, name := range Backends() {
		if name == "native" {
			found = true
		}
	}
	if !found {
		t.Errorf("Backends() = %v, missing native", Backends())
	}
}
