package video

import "testing"

func TestDefaultRenderOptions(t *testing.T) {
	opts := DefaultRenderOptions()

	if opts.Width != 1280 || opts.Height != 720 {
		t.Errorf("default size = %dx%d, want 1280x720", opts.Width, opts.Height)
	}
	if opts.WaveMode != "cline" || opts.WaveColor != "white" {
		t.Errorf("default waveform = %s/%s", opts.WaveMode, opts.WaveColor)
	}
	if opts.VideoCodec != "libx264" || opts.AudioCodec != "aac" {
		t.Errorf("default codecs = %s/%s", opts.VideoCodec, opts.AudioCodec)
	}
}

func TestWithDefaults(t *testing.T) {
	opts := RenderOptions{Width: 640, Height: 360, WaveColor: "cyan"}
	filled := opts.withDefaults()

	if filled.Width != 640 || filled.Height != 360 {
		t.Errorf("explicit size overridden: %dx%d", filled.Width, filled.Height)
	}
	if filled.WaveColor != "cyan" {
		t.Errorf("explicit color overridden: %s", filled.WaveColor)
	}
	if filled.WaveMode != "cline" || filled.VideoCodec != "libx264" {
		t.Errorf("unset fields not filled: %s/%s", filled.WaveMode, filled.VideoCodec)
	}

	zero := RenderOptions{}.withDefaults()
	if zero != DefaultRenderOptions() {
		t.Errorf("zero value did not fill to defaults: %+v", zero)
	}
}

func TestWaveformKwargs(t *testing.T) {
	opts := RenderOptions{
		Width:     640,
		Height:    360,
		WaveMode:  "line",
		WaveColor: "cyan",
	}

	kwargs := opts.waveformKwargs()
	if kwargs["s"] != "640x360" {
		t.Errorf("size kwarg = %v, want 640x360", kwargs["s"])
	}
	if kwargs["mode"] != "line" || kwargs["colors"] != "cyan" {
		t.Errorf("waveform kwargs = %v", kwargs)
	}
}

func TestOutputKwargs(t *testing.T) {
	opts := DefaultRenderOptions()
	kwargs := opts.outputKwargs()

	want := map[string]string{
		"pix_fmt": "yuv420p",
		"vcodec":  "libx264",
		"acodec":  "aac",
		"b:a":     "192k",
		"format":  "mp4",
		"strict":  "experimental",
	}
	for key, value := range want {
		if kwargs[key] != value {
			t.Errorf("kwargs[%q] = %v, want %q", key, kwargs[key], value)
		}
	}
}
