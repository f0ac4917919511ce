// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	"github.com/kisstp2006/fluxion-go/scene"
)

// Clip is a fully decoded audio buffer implementing [scene.Clip].
// Decoding happens once, at scene parse time; playback streams from
// the buffer.
type Clip struct {
	buf    *beep.Buffer
	format beep.Format
}

// Duration returns the play length of the decoded clip.
func (c *Clip) Duration() time.Duration {
	return c.format.SampleRate.D(c.buf.Len())
}

// Streamer returns a fresh streamer over the whole clip, so the same
// clip can play multiple times concurrently.
func (c *Clip) Streamer() beep.StreamSeeker {
	return c.buf.Streamer(0, c.buf.Len())
}

// Format returns the decoded sample format.
func (c *Clip) Format() beep.Format { return c.format }

// BeepDecoder is a [scene.AudioDecoder] over the beep codec set.
// The codec is selected by the source extension: wav, ogg, mp3.
type BeepDecoder struct {

	// Files reads the audio source bytes.
	Files scene.Fetcher
}

// Decode fetches and fully decodes the audio source at src.
func (d *BeepDecoder) Decode(ctx context.Context, src string) (scene.Clip, error) {
	data, err := d.Files.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("assets: audio fetch: %w", err)
	}
	rc := io.NopCloser(bytes.NewReader(data))
	var (
		st beep.StreamSeekCloser
		f  beep.Format
	)
	switch ext := strings.ToLower(path.Ext(src)); ext {
	case ".wav":
		st, f, err = wav.Decode(rc)
	case ".ogg":
		st, f, err = vorbis.Decode(rc)
	case ".mp3":
		st, f, err = mp3.Decode(rc)
	default:
		return nil, fmt.Errorf("assets: unsupported audio format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: audio decode %s: %w", src, err)
	}
	defer st.Close()
	buf := beep.NewBuffer(f)
	buf.Append(st)
	return &Clip{buf: buf, format: f}, nil
}
