// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"bytes"
	"context"
	"encoding/xml"
	"image"
	"image/color"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"cogentcore.org/core/colors"
	"cogentcore.org/core/math32"
	"golang.org/x/net/html/charset"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// element is one parsed document element: tag, string attributes, and
// children in document order. No schema is applied at this stage.
type element struct {
	tag      string
	attrs    map[string]string
	children []*element
}

func (el *element) attr(name string) (string, bool) {
	v, ok := el.attrs[name]
	return v, ok
}

func (el *element) str(name, def string) string {
	if v, ok := el.attrs[name]; ok {
		return v
	}
	return def
}

func (el *element) float(name string, def float32) float32 {
	v, ok := el.attrs[name]
	if !ok {
		return def
	}
	f, err := math32.ParseFloat32(v)
	if err != nil {
		slog.Error("scene: bad numeric attribute", "tag", el.tag, "attr", name, "value", v)
		return def
	}
	return f
}

func (el *element) bool(name string, def bool) bool {
	v, ok := el.attrs[name]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Error("scene: bad boolean attribute", "tag", el.tag, "attr", name, "value", v)
		return def
	}
	return b
}

func (el *element) int(name string, def int) int {
	v, ok := el.attrs[name]
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Error("scene: bad integer attribute", "tag", el.tag, "attr", name, "value", v)
		return def
	}
	return i
}

func (el *element) color(name string) (color.RGBA, string, bool) {
	v, ok := el.attrs[name]
	if !ok {
		return color.RGBA{}, "", false
	}
	c, err := colors.FromString(v)
	if err != nil {
		slog.Error("scene: bad color attribute", "tag", el.tag, "attr", name, "value", v)
		return color.RGBA{}, "", false
	}
	return c, v, true
}

// parseElements reads the document into a generic element tree, returning
// the top-level elements. The decoder is deliberately permissive: scenes
// authored by hand or older tools still parse.
func parseElements(reader io.Reader) ([]*element, error) {
	decoder := xml.NewDecoder(reader)
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel
	var top []*element
	var stack []*element
	for {
		t, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			el := &element{tag: se.Name.Local, attrs: make(map[string]string, len(se.Attr))}
			for _, at := range se.Attr {
				el.attrs[at.Name.Local] = at.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else {
				top = append(top, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return top, nil
}

// Loader parses scene documents into populated [Scene] values, driving
// the external collaborators for textures, fonts, audio, and file IO.
// Any collaborator may be nil, in which case the corresponding resource
// kind is left unloaded (useful headlessly).
type Loader struct {

	// Render provides camera size defaults, the texture cache, and
	// async-load tracking.
	Render RenderContext

	// Fonts registers font faces and measures text.
	Fonts FontLibrary

	// Audio decodes audio sources during parsing.
	Audio AudioDecoder

	// Files reads documents and resources and resolves relative paths.
	Files Fetcher
}

// Load fetches and parses the scene document at the given URL. It never
// returns an error: any failure to fetch or parse is logged and yields
// an empty scene, so a broken document degrades gracefully instead of
// crashing the host.
func (l *Loader) Load(ctx context.Context, url string) *Scene {
	if l.Files == nil {
		slog.Error("scene.Loader: no file fetcher configured", "url", url)
		return NewScene("")
	}
	data, err := l.Files.Fetch(ctx, url)
	if err != nil {
		slog.Error("scene.Loader: document fetch failed", "url", url, "err", err)
		return NewScene("")
	}
	return l.LoadData(ctx, data, url)
}

// LoadData parses an in-memory scene document. Relative resource paths
// resolve against baseURL. Like [Loader.Load] it never returns an error.
func (l *Loader) LoadData(ctx context.Context, data []byte, baseURL string) *Scene {
	top, err := parseElements(bytes.NewReader(data))
	if err != nil {
		slog.Error("scene.Loader: document parse failed", "url", baseURL, "err", err)
		return NewScene("")
	}
	var root *element
	for _, el := range top {
		if el.tag == "Scene" {
			if root != nil {
				slog.Error("scene.Loader: multiple Scene elements", "url", baseURL)
				return NewScene("")
			}
			root = el
		}
	}
	if root == nil {
		slog.Error("scene.Loader: no Scene element", "url", baseURL)
		return NewScene("")
	}

	sc := NewScene(root.str("name", ""))
	sc.BaseURL = baseURL

	l.loadFonts(ctx, sc, root)

	for _, el := range root.children {
		switch el.tag {
		case "Font":
			// handled by the pre-pass
		case "Camera":
			sc.SetCamera(l.convertCamera(el))
		case "Camera3D":
			sc.SetCamera3D(l.convertCamera3D(el))
		case "Audio":
			if au := l.convertAudio(ctx, sc, el); au != nil {
				sc.AddAudio(au)
			}
		case "DirectionalLight", "PointLight", "SpotLight":
			if lt := convertLight(el); lt != nil {
				sc.AddLight(lt)
			}
		case "Skybox":
			sc.Sky = convertSkybox(el)
		case "Mesh":
			if md := convertMeshDef(el); md != nil {
				sc.SetMeshDef(md)
			}
		case "Material":
			if mt := convertMaterialDef(el); mt != nil {
				sc.SetMaterialDef(mt)
			}
		default:
			if n := l.convertNode(ctx, sc, el); n != nil {
				sc.Add(n)
			}
		}
	}
	return sc
}

// loadFonts registers and loads every Font declaration concurrently,
// before any node is processed: text measurement during node conversion
// requires the faces to already be registered. Failures are logged per
// face and never block the batch.
func (l *Loader) loadFonts(ctx context.Context, sc *Scene, root *element) {
	var wg sync.WaitGroup
	for _, el := range root.children {
		if el.tag != "Font" {
			continue
		}
		family := el.str("family", "")
		src, _ := el.attr("src")
		if family == "" || src == "" {
			slog.Error("scene.Loader: Font requires family and src", "url", sc.BaseURL)
			continue
		}
		ff := &FontFace{Family: family, Src: l.resolve(sc, src), SrcRef: src}
		sc.SetFontFace(ff)
		if l.Fonts == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Fonts.LoadFace(ctx, ff.Family, ff.Src); err != nil {
				slog.Error("scene.Loader: font load failed", "family", ff.Family, "src", ff.Src, "err", err)
			}
		}()
	}
	wg.Wait()
}

func (l *Loader) resolve(sc *Scene, ref string) string {
	if l.Files == nil {
		return ref
	}
	return l.Files.Resolve(sc.BaseURL, ref)
}

// convertNode dispatches one element to its node constructor, applies
// the attributes shared by every kind, and recurses into children.
// Unknown tags return nil and are simply skipped by the caller.
func (l *Loader) convertNode(ctx context.Context, sc *Scene, el *element) Node {
	var n Node
	switch el.tag {
	case "Sprite":
		n = l.convertSprite(ctx, sc, el)
	case "AnimatedSprite":
		n = l.convertAnimatedSprite(ctx, sc, el)
	case "Text":
		n = l.convertText(el)
	case "ClickableArea":
		n = convertClickableArea(el)
	case "MeshNode":
		n = convertMeshNode(sc, el)
	default:
		slog.Warn("scene.Loader: unknown element ignored", "tag", el.tag, "url", sc.BaseURL)
		return nil
	}
	if n == nil {
		return nil
	}
	applyCommonAttrs(n, el)
	for _, cel := range el.children {
		if cel.tag == "Animation" {
			// consumed by AnimatedSprite construction, not a node
			continue
		}
		if kid := l.convertNode(ctx, sc, cel); kid != nil {
			n.AsNodeBase().AddChild(kid)
		}
	}
	if tx, ok := n.(*Text); ok && tx.Clickable && !tx.HasHitRegion() {
		// clickable shortcut: a synthesized region inheriting the text
		// bounds, only when no explicit one was declared
		ca := NewClickableArea(tx.Name + "HitRegion")
		ca.Synthesized = true
		tx.AddChild(ca)
	}
	return n
}

// applyCommonAttrs handles the attributes honored uniformly on every
// node kind. Note the capitalized Active: that is the authoring
// convention for the document format, distinct from the runtime field;
// the lowercase spelling is accepted too. followCamera reinterprets the
// authored x,y as a camera-relative offset, exactly once, here.
func applyCommonAttrs(n Node, el *element) {
	nb := n.AsNodeBase()
	nb.Active = el.bool("Active", el.bool("active", true))
	nb.Visible = el.bool("visible", true)
	nb.Layer = el.int("layer", 0)
	if n2, ok := n.(interface{ AsNode2D() *Node2D }); ok {
		nd := n2.AsNode2D()
		if op, has := el.attr("opacity"); has {
			f, err := math32.ParseFloat32(op)
			if err != nil {
				slog.Error("scene: bad opacity", "tag", el.tag, "value", op)
			} else {
				nd.SetOpacity(f)
			}
		}
		if el.bool("followCamera", false) {
			nd.FollowCamera = true
			nd.Base = nd.Pos
		}
	}
}

func apply2DAttrs(nd *Node2D, el *element) {
	nd.Pos.Set(el.float("x", 0), el.float("y", 0))
	if w, ok := el.attr("width"); ok {
		if f, err := math32.ParseFloat32(w); err == nil {
			nd.Size.X = f
		}
	}
	if h, ok := el.attr("height"); ok {
		if f, err := math32.ParseFloat32(h); err == nil {
			nd.Size.Y = f
		}
	}
	nd.Rotation = el.float("rotation", 0)
}

func (l *Loader) convertSprite(ctx context.Context, sc *Scene, el *element) Node {
	sp := NewSprite(el.str("name", ""))
	apply2DAttrs(&sp.Node2D, el)
	if src, ok := el.attr("imageSrc"); ok {
		sp.SrcRef = src
		sp.ImageSrc = l.resolve(sc, src)
		l.loadTexture(ctx, &sp.Node2D, sp.ImageSrc)
	}
	return sp
}

func (l *Loader) convertAnimatedSprite(ctx context.Context, sc *Scene, el *element) Node {
	as := NewAnimatedSprite(el.str("name", ""))
	apply2DAttrs(&as.Node2D, el)
	if src, ok := el.attr("imageSrc"); ok {
		as.SrcRef = src
		as.ImageSrc = l.resolve(sc, src)
		l.loadTexture(ctx, &as.Node2D, as.ImageSrc)
	}
	for _, cel := range el.children {
		if cel.tag != "Animation" {
			continue
		}
		an := &Animation{
			Name:     cel.str("name", ""),
			Speed:    cel.float("speed", 0),
			Loop:     cel.bool("loop", false),
			Autoplay: cel.bool("autoplay", false),
		}
		if frames, ok := cel.attr("frames"); ok {
			an.Kind, an.Indices, an.Paths = ParseFrames(frames)
		}
		as.AddAnimation(an)
	}
	return as
}

func (l *Loader) convertText(el *element) Node {
	tx := NewText(el.str("name", ""))
	apply2DAttrs(&tx.Node2D, el)
	_, hasW := el.attr("width")
	_, hasH := el.attr("height")
	tx.ExplicitSize = hasW || hasH
	tx.Text = el.str("text", "")
	tx.Family = el.str("font", el.str("family", ""))
	// fontSize has a legacy capitalized spelling; both map to one field
	tx.FontSize = el.float("fontSize", el.float("FontSize", defaultFontSize))
	if c, ref, ok := el.color("color"); ok {
		tx.Color = c
		tx.ColorRef = ref
	}
	tx.Clickable = el.bool("clickable", false)
	if l.Fonts != nil && !tx.ExplicitSize {
		tx.Measure(l.Fonts)
	}
	return tx
}

func convertClickableArea(el *element) Node {
	ca := NewClickableArea(el.str("name", ""))
	ca.Pos.Set(el.float("x", 0), el.float("y", 0))
	// width/height are nullable: omitted means inherit parent bounds,
	// which is distinct from zero and must survive as nil
	if w, ok := el.attr("width"); ok {
		if f, err := math32.ParseFloat32(w); err == nil {
			ca.W = &f
		}
	}
	if h, ok := el.attr("height"); ok {
		if f, err := math32.ParseFloat32(h); err == nil {
			ca.H = &f
		}
	}
	return ca
}

func (l *Loader) convertCamera(el *element) *Camera {
	cm := NewCamera(el.str("name", ""))
	cm.Pos.Set(el.float("x", 0), el.float("y", 0))
	cm.Zoom = el.float("zoom", 1)
	cm.Rotation = el.float("rotation", 0)
	cm.Size, cm.ExplicitSize = l.cameraSize(el)
	applyCommonAttrs(cm, el)
	return cm
}

func (l *Loader) convertCamera3D(el *element) *Camera3D {
	cm := NewCamera3D(el.str("name", ""))
	cm.Pos.Set(el.float("x", 0), el.float("y", 0), el.float("z", 0))
	cm.Target.Set(el.float("targetX", 0), el.float("targetY", 0), el.float("targetZ", 0))
	cm.FOV = el.float("fov", 60)
	cm.Near = el.float("near", 0.1)
	cm.Far = el.float("far", 1000)
	cm.Size, cm.ExplicitSize = l.cameraSize(el)
	applyCommonAttrs(cm, el)
	return cm
}

// cameraSize returns the declared width/height, or the render target
// resolution when the document omits them. The default is resolved at
// parse time from the context, never a hardcoded constant, and is not
// written back on save.
func (l *Loader) cameraSize(el *element) (math32.Vector2, bool) {
	w, hasW := el.attr("width")
	h, hasH := el.attr("height")
	if hasW && hasH {
		var sz math32.Vector2
		fw, errW := math32.ParseFloat32(w)
		fh, errH := math32.ParseFloat32(h)
		if errW == nil && errH == nil {
			sz.Set(fw, fh)
			return sz, true
		}
		slog.Error("scene: bad camera size", "width", w, "height", h)
	}
	var sz math32.Vector2
	if l.Render != nil {
		tw, th := l.Render.TargetSize()
		sz.Set(tw, th)
	}
	return sz, false
}

// convertAudio decodes the audio source during parsing (awaited, unlike
// textures) but records autoplay only as an intent: playback starts at
// scene activation, never here.
func (l *Loader) convertAudio(ctx context.Context, sc *Scene, el *element) *AudioClip {
	au := NewAudioClip(el.str("name", ""))
	src, ok := el.attr("src")
	if !ok {
		slog.Error("scene.Loader: Audio requires src", "url", sc.BaseURL)
		return nil
	}
	au.SrcRef = src
	au.Src = l.resolve(sc, src)
	au.Loop = el.bool("loop", false)
	au.Volume = el.float("volume", 1)
	au.Autoplay = el.bool("autoplay", false)
	au.StopOnSceneChange = el.bool("stopOnSceneChange", true)
	applyCommonAttrs(au, el)
	if l.Audio != nil {
		clip, err := l.Audio.Decode(ctx, au.Src)
		if err != nil {
			// valid but silent: the clip node stays, without a buffer
			slog.Error("scene.Loader: audio decode failed", "src", au.Src, "err", err)
		} else {
			au.SetClip(clip)
		}
	}
	return au
}

func convertLight(el *element) Light {
	var lt Light
	switch el.tag {
	case "DirectionalLight":
		dl := NewDirectionalLight(el.str("name", ""))
		dl.Dir.Set(el.float("dirX", 0), el.float("dirY", -1), el.float("dirZ", 0))
		lt = dl
	case "PointLight":
		pl := NewPointLight(el.str("name", ""))
		pl.Pos.Set(el.float("x", 0), el.float("y", 0), el.float("z", 0))
		lt = pl
	case "SpotLight":
		sl := NewSpotLight(el.str("name", ""))
		sl.Pos.Set(el.float("x", 0), el.float("y", 0), el.float("z", 0))
		sl.Dir.Set(el.float("dirX", 0), el.float("dirY", -1), el.float("dirZ", 0))
		sl.InnerAngle = el.float("innerAngle", 30)
		sl.OuterAngle = el.float("outerAngle", 45)
		lt = sl
	default:
		return nil
	}
	lb := lt.AsLightBase()
	if c, ref, ok := el.color("color"); ok {
		lb.Color = c
		lb.ColorRef = ref
	}
	lb.Intensity = el.float("intensity", 1)
	lb.On = el.bool("on", true)
	return lt
}

func convertSkybox(el *element) *Skybox {
	sb := NewSkybox()
	if c, ref, ok := el.color("color"); ok {
		sb.Color = c
		sb.ColorRef = ref
	}
	if c, ref, ok := el.color("ambientColor"); ok {
		sb.AmbientColor = c
		sb.AmbientColorRef = ref
	}
	sb.Source = el.str("source", "")
	sb.Equirectangular = el.bool("equirectangular", false)
	for i, at := range skyboxFaceAttrs {
		sb.Faces[i] = el.str(at, "")
	}
	return sb
}

func convertMeshDef(el *element) *MeshDef {
	name := el.str("name", "")
	if name == "" {
		slog.Error("scene.Loader: Mesh declaration requires name")
		return nil
	}
	md := NewMeshDef(name, el.str("source", ""))
	readPrimitiveParams(md, el)
	return md
}

func readPrimitiveParams(md *MeshDef, el *element) {
	md.Size.Set(el.float("sizeX", md.Size.X), el.float("sizeY", md.Size.Y), el.float("sizeZ", md.Size.Z))
	md.Radius = el.float("radius", md.Radius)
	md.Segments = el.int("segments", md.Segments)
}

func convertMaterialDef(el *element) *MaterialDef {
	name := el.str("name", "")
	if name == "" {
		slog.Error("scene.Loader: Material declaration requires name")
		return nil
	}
	mt := NewMaterialDef(name)
	if c, ref, ok := el.color("color"); ok {
		mt.Color = c
		mt.ColorRef = ref
	}
	if c, ref, ok := el.color("emissive"); ok {
		mt.Emissive = c
		mt.EmissiveRef = ref
	}
	mt.Metallic = el.float("metallic", 0)
	mt.Roughness = el.float("roughness", 1)
	mt.TextureSrc = el.str("texture", "")
	return mt
}

func convertMeshNode(sc *Scene, el *element) Node {
	mn := NewMeshNode(el.str("name", ""))
	mn.Source = el.str("source", "")
	mn.Pos.Set(el.float("x", 0), el.float("y", 0), el.float("z", 0))
	mn.Rot.Set(el.float("rotX", 0), el.float("rotY", 0), el.float("rotZ", 0))
	mn.Scale.Set(el.float("scaleX", 1), el.float("scaleY", 1), el.float("scaleZ", 1))
	mn.MaterialName = el.str("material", "")
	if PrimitiveByName(mn.Source) != PrimitiveNone {
		mn.Inline = NewMeshDef(mn.Name, mn.Source)
		readPrimitiveParams(mn.Inline, el)
	}
	mn.Bind(sc)
	return mn
}

// loadTexture kicks off an asynchronous texture load for a 2D node.
// Unlike audio and fonts this is fire-and-forget: the scene is usable
// with the texture still in flight, drawing nothing until it lands.
// The load is registered with the render context so the host can await
// all assets, and a completion arriving after the node was disposed is
// released rather than applied.
func (l *Loader) loadTexture(ctx context.Context, nd *Node2D, src string) {
	if l.Render == nil || l.Files == nil || src == "" {
		return
	}
	if tex, ok := l.Render.AcquireTexture(src); ok {
		nd.SetTexture(l.Render, src, tex)
		return
	}
	done := make(chan error, 1)
	l.Render.TrackLoad(src, done)
	go func() {
		data, err := l.Files.Fetch(ctx, src)
		if err != nil {
			slog.Error("scene.Loader: texture fetch failed", "src", src, "err", err)
			done <- err
			return
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			slog.Error("scene.Loader: texture decode failed", "src", src, "err", err)
			done <- err
			return
		}
		tex := l.Render.CreateTexture(src, img)
		nd.SetTexture(l.Render, src, tex)
		done <- nil
	}()
}
