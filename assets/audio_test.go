// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFetcher map[string][]byte

func (m mapFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, ok := m[url]
	if !ok {
		return nil, fmt.Errorf("not found: %s", url)
	}
	return data, nil
}

func (m mapFetcher) Resolve(base, ref string) string { return ref }

// wavBytes builds a minimal 16-bit mono PCM file with n samples.
func wavBytes(n int) []byte {
	var b bytes.Buffer
	dataLen := uint32(n * 2)
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, 36+dataLen)
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&b, binary.LittleEndian, uint32(44100))
	binary.Write(&b, binary.LittleEndian, uint32(44100*2))
	binary.Write(&b, binary.LittleEndian, uint16(2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, dataLen)
	for i := range n {
		binary.Write(&b, binary.LittleEndian, int16(i*100))
	}
	return b.Bytes()
}

func TestBeepDecoderWav(t *testing.T) {
	d := &BeepDecoder{Files: mapFetcher{"sfx/beep.wav": wavBytes(441)}}
	clip, err := d.Decode(context.Background(), "sfx/beep.wav")
	require.NoError(t, err)
	assert.Equal(t, beep.SampleRate(44100).D(441), clip.Duration())

	ac := clip.(*Clip)
	st := ac.Streamer()
	assert.Equal(t, 441, st.Len())
}

func TestBeepDecoderErrors(t *testing.T) {
	d := &BeepDecoder{Files: mapFetcher{"a.flac": {1, 2, 3}, "b.wav": {1, 2, 3}}}

	_, err := d.Decode(context.Background(), "a.flac")
	assert.ErrorContains(t, err, "unsupported audio format")

	_, err = d.Decode(context.Background(), "b.wav")
	assert.Error(t, err, "truncated data must fail, not panic")

	_, err = d.Decode(context.Background(), "missing.wav")
	assert.Error(t, err)
}
