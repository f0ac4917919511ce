// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// AudioClip is a named, decoded audio source owned by the scene's audio
// list rather than the render tree. The source is decoded during parsing
// but playback never starts there: autoplay is recorded as an intent and
// triggered by [Scene.Activate], so audio on a loaded-but-inactive scene
// stays silent.
type AudioClip struct {
	NodeBase

	// Src is the resolved URL of the audio source.
	Src string

	// SrcRef is the source exactly as authored.
	SrcRef string

	// Loop restarts playback at the end of the clip.
	Loop bool

	// Volume is the playback gain, 0..1.
	Volume float32

	// Autoplay records the intent to start playback on scene activation.
	Autoplay bool

	// StopOnSceneChange scopes playback to the scene lifetime: such
	// clips are stopped when the scene is disposed.
	StopOnSceneChange bool

	// Clip is the decoded buffer handle, or nil if decoding failed
	// (the clip is then valid but silent).
	Clip Clip `copier:"-"`
}

// NewAudioClip returns a new named audio clip with default playback flags.
func NewAudioClip(name string) *AudioClip {
	au := &AudioClip{}
	au.init(au, "Audio", name)
	au.Volume = 1
	au.StopOnSceneChange = true
	return au
}

// Dispose drops the decoded buffer. A decode completing after disposal
// is discarded by [AudioClip.SetClip].
func (au *AudioClip) Dispose() {
	if !au.dispose() {
		return
	}
	au.Clip = nil
}

// SetClip installs the decoded buffer, unless the clip was disposed
// while decoding was in flight.
func (au *AudioClip) SetClip(c Clip) {
	if au.disposed.Load() {
		return
	}
	au.Clip = c
}
