// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFontLibrary(t *testing.T) {
	fl := NewFontLibrary(mapFetcher{"fonts/pixel.ttf": []byte("facebytes")})

	require.NoError(t, fl.LoadFace(context.Background(), "Pixel", "fonts/pixel.ttf"))
	assert.True(t, fl.Has("Pixel"))
	assert.Equal(t, []byte("facebytes"), fl.Face("Pixel"))

	assert.Error(t, fl.LoadFace(context.Background(), "Nope", "fonts/nope.ttf"))
	assert.False(t, fl.Has("Nope"))

	w, h := fl.Measure("Pixel", 10, "hello")
	assert.Equal(t, float32(30), w)
	assert.Equal(t, float32(10), h)
}
