// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strings"

	"cogentcore.org/core/colors"
)

// WriteXML serializes the scene as a document the parser accepts,
// walking the declaration order captured at parse time — never the
// layer-sorted draw order — so layer edits do not reorder the saved
// file. Attributes equal to their type defaults are omitted to keep
// diffs small, and values the parser produced unmodified round-trip
// losslessly.
func (sc *Scene) WriteXML(w io.Writer, indent bool) error {
	xe := NewXMLEncoder(w)
	if !indent {
		xe.Indent("")
	}
	xe.Start("Scene")
	if sc.Name != "" {
		xe.Attr("name", sc.Name)
	}
	sc.writeResources(xe)
	for _, d := range sc.declAndStrays() {
		switch v := d.(type) {
		case Node:
			sc.writeNode(xe, v)
		case Light:
			writeLight(xe, v)
		default:
			slog.Warn("scene: skipping unrecognized declaration", "decl", fmt.Sprintf("%T", d))
		}
	}
	xe.End()
	return xe.Flush()
}

// XMLString returns the serialized document as a string.
func (sc *Scene) XMLString() (string, error) {
	var b strings.Builder
	if err := sc.WriteXML(&b, true); err != nil {
		return "", err
	}
	return b.String(), nil
}

// declAndStrays returns the declaration order plus, defensively, any
// entity present in the semantic containers but missing from it (e.g.
// added by code that bypassed the scene mutators), appended at the end.
func (sc *Scene) declAndStrays() []any {
	out := make([]any, len(sc.decl))
	copy(out, sc.decl)
	seen := make(map[any]bool, len(sc.decl))
	for _, d := range sc.decl {
		seen[d] = true
	}
	if sc.Camera != nil && !seen[any(Node(sc.Camera))] {
		out = append(out, Node(sc.Camera))
	}
	if sc.Camera3D != nil && !seen[any(Node(sc.Camera3D))] {
		out = append(out, Node(sc.Camera3D))
	}
	for _, root := range sc.Objects {
		if !seen[any(root)] {
			out = append(out, root)
		}
	}
	for _, au := range sc.Audio {
		if !seen[any(Node(au))] {
			out = append(out, Node(au))
		}
	}
	for _, lt := range sc.Lights {
		if !seen[any(lt)] {
			out = append(out, lt)
		}
	}
	return out
}

// writeResources emits the scene-level non-node declarations — fonts,
// skybox, meshes, materials — before any node content, each group in
// its own insertion order. Pending registry entries were auto-created
// by references, were never declared, and are not written.
func (sc *Scene) writeResources(xe *XMLEncoder) {
	wrote := false
	for _, kv := range sc.Fonts.Order {
		wrote = true
		ff := kv.Value
		xe.Start("Font")
		xe.Attr("family", ff.Family)
		xe.Attr("src", srcAttr(ff.SrcRef, ff.Src))
		xe.End()
	}
	if sb := sc.Sky; sb != nil {
		wrote = true
		xe.Start("Skybox")
		writeColor(xe, "color", sb.Color, sb.ColorRef, color.RGBA{0, 0, 0, 255})
		writeColor(xe, "ambientColor", sb.AmbientColor, sb.AmbientColorRef, color.RGBA{64, 64, 64, 255})
		attrStr(xe, "source", sb.Source)
		attrBool(xe, "equirectangular", sb.Equirectangular, false)
		if sb.HasFaces() {
			for i, at := range skyboxFaceAttrs {
				xe.Attr(at, sb.Faces[i])
			}
		}
		xe.End()
	}
	for _, kv := range sc.Meshes.Order {
		md, err := kv.Value.Value()
		if !kv.Value.Resolved() || err != nil || md == nil {
			continue
		}
		wrote = true
		xe.Start("Mesh")
		xe.Attr("name", md.Name)
		attrStr(xe, "source", md.Source)
		writePrimitiveParams(xe, md)
		xe.End()
	}
	for _, kv := range sc.Materials.Order {
		mt, err := kv.Value.Value()
		if !kv.Value.Resolved() || err != nil || mt == nil {
			continue
		}
		wrote = true
		xe.Start("Material")
		xe.Attr("name", mt.Name)
		writeColor(xe, "color", mt.Color, mt.ColorRef, color.RGBA{255, 255, 255, 255})
		writeColor(xe, "emissive", mt.Emissive, mt.EmissiveRef, color.RGBA{})
		attrFloat(xe, "metallic", mt.Metallic, 0)
		attrFloat(xe, "roughness", mt.Roughness, 1)
		attrStr(xe, "texture", mt.TextureSrc)
		xe.End()
	}
	if wrote {
		xe.BlankLine()
	}
}

func writePrimitiveParams(xe *XMLEncoder, md *MeshDef) {
	attrFloat(xe, "sizeX", md.Size.X, 1)
	attrFloat(xe, "sizeY", md.Size.Y, 1)
	attrFloat(xe, "sizeZ", md.Size.Z, 1)
	attrFloat(xe, "radius", md.Radius, 0.5)
	if md.Segments != 32 {
		xe.Attr("segments", fmt.Sprintf("%d", md.Segments))
	}
}

// writeNode emits one node (and its children) by concrete kind,
// mirroring the parser's attribute set. Unrecognized kinds are skipped
// with a warning: a partial document beats a failed save.
func (sc *Scene) writeNode(xe *XMLEncoder, n Node) {
	switch v := n.(type) {
	case *AnimatedSprite:
		xe.Start("AnimatedSprite")
		attrStr(xe, "name", v.Name)
		write2D(xe, &v.Node2D, true)
		attrStr(xe, "imageSrc", srcAttr(v.SrcRef, v.ImageSrc))
		writeCommon(xe, &v.NodeBase)
		for _, an := range v.Animations {
			xe.Start("Animation")
			attrStr(xe, "name", an.Name)
			attrStr(xe, "frames", an.FramesString())
			attrFloat(xe, "speed", an.Speed, 0)
			attrBool(xe, "loop", an.Loop, false)
			attrBool(xe, "autoplay", an.Autoplay, false)
			xe.End()
		}
		sc.writeChildren(xe, &v.NodeBase)
		xe.End()
	case *Sprite:
		xe.Start("Sprite")
		attrStr(xe, "name", v.Name)
		write2D(xe, &v.Node2D, true)
		attrStr(xe, "imageSrc", srcAttr(v.SrcRef, v.ImageSrc))
		writeCommon(xe, &v.NodeBase)
		sc.writeChildren(xe, &v.NodeBase)
		xe.End()
	case *Text:
		xe.Start("Text")
		attrStr(xe, "name", v.Name)
		// a measured size is derived state and stays unwritten; an
		// authored size round-trips
		write2D(xe, &v.Node2D, false)
		if v.ExplicitSize {
			xe.Attr("width", fstr(v.Size.X))
			xe.Attr("height", fstr(v.Size.Y))
		}
		attrStr(xe, "text", v.Text)
		attrStr(xe, "font", v.Family)
		attrFloat(xe, "fontSize", v.FontSize, defaultFontSize)
		writeColor(xe, "color", v.Color, v.ColorRef, color.RGBA{0, 0, 0, 255})
		attrBool(xe, "clickable", v.Clickable, false)
		writeCommon(xe, &v.NodeBase)
		sc.writeChildren(xe, &v.NodeBase)
		xe.End()
	case *ClickableArea:
		xe.Start("ClickableArea")
		attrStr(xe, "name", v.Name)
		attrFloat(xe, "x", v.Pos.X, 0)
		attrFloat(xe, "y", v.Pos.Y, 0)
		// nil bounds mean inherit-from-parent and stay absent, never 0
		if v.W != nil {
			xe.Attr("width", fstr(*v.W))
		}
		if v.H != nil {
			xe.Attr("height", fstr(*v.H))
		}
		writeCommon(xe, &v.NodeBase)
		sc.writeChildren(xe, &v.NodeBase)
		xe.End()
	case *MeshNode:
		xe.Start("MeshNode")
		attrStr(xe, "name", v.Name)
		attrStr(xe, "source", v.Source)
		attrFloat(xe, "x", v.Pos.X, 0)
		attrFloat(xe, "y", v.Pos.Y, 0)
		attrFloat(xe, "z", v.Pos.Z, 0)
		attrFloat(xe, "rotX", v.Rot.X, 0)
		attrFloat(xe, "rotY", v.Rot.Y, 0)
		attrFloat(xe, "rotZ", v.Rot.Z, 0)
		attrFloat(xe, "scaleX", v.Scale.X, 1)
		attrFloat(xe, "scaleY", v.Scale.Y, 1)
		attrFloat(xe, "scaleZ", v.Scale.Z, 1)
		attrStr(xe, "material", v.MaterialName)
		if v.Inline != nil {
			writePrimitiveParams(xe, v.Inline)
		}
		writeCommon(xe, &v.NodeBase)
		sc.writeChildren(xe, &v.NodeBase)
		xe.End()
	case *Camera:
		xe.Start("Camera")
		attrStr(xe, "name", v.Name)
		attrFloat(xe, "x", v.Pos.X, 0)
		attrFloat(xe, "y", v.Pos.Y, 0)
		attrFloat(xe, "zoom", v.Zoom, 1)
		attrFloat(xe, "rotation", v.Rotation, 0)
		if v.ExplicitSize {
			xe.Attr("width", fstr(v.Size.X))
			xe.Attr("height", fstr(v.Size.Y))
		}
		writeCommon(xe, &v.NodeBase)
		xe.End()
	case *Camera3D:
		xe.Start("Camera3D")
		attrStr(xe, "name", v.Name)
		attrFloat(xe, "x", v.Pos.X, 0)
		attrFloat(xe, "y", v.Pos.Y, 0)
		attrFloat(xe, "z", v.Pos.Z, 0)
		attrFloat(xe, "targetX", v.Target.X, 0)
		attrFloat(xe, "targetY", v.Target.Y, 0)
		attrFloat(xe, "targetZ", v.Target.Z, 0)
		attrFloat(xe, "fov", v.FOV, 60)
		attrFloat(xe, "near", v.Near, 0.1)
		attrFloat(xe, "far", v.Far, 1000)
		if v.ExplicitSize {
			xe.Attr("width", fstr(v.Size.X))
			xe.Attr("height", fstr(v.Size.Y))
		}
		writeCommon(xe, &v.NodeBase)
		xe.End()
	case *AudioClip:
		xe.Start("Audio")
		attrStr(xe, "name", v.Name)
		xe.Attr("src", srcAttr(v.SrcRef, v.Src))
		attrBool(xe, "loop", v.Loop, false)
		attrFloat(xe, "volume", v.Volume, 1)
		attrBool(xe, "autoplay", v.Autoplay, false)
		attrBool(xe, "stopOnSceneChange", v.StopOnSceneChange, true)
		writeCommon(xe, &v.NodeBase)
		xe.End()
	default:
		slog.Warn("scene: skipping unrecognized node kind", "kind", n.Kind(), "name", n.AsNodeBase().Name)
	}
}

func (sc *Scene) writeChildren(xe *XMLEncoder, nb *NodeBase) {
	for _, kid := range nb.Children {
		if ca, ok := kid.(*ClickableArea); ok && ca.Synthesized {
			// the clickable shortcut re-synthesizes it on load
			continue
		}
		sc.writeNode(xe, kid)
	}
}

func writeLight(xe *XMLEncoder, lt Light) {
	lb := lt.AsLightBase()
	xe.Start(lt.Kind())
	attrStr(xe, "name", lb.Name)
	switch v := lt.(type) {
	case *DirectionalLight:
		attrFloat(xe, "dirX", v.Dir.X, 0)
		attrFloat(xe, "dirY", v.Dir.Y, -1)
		attrFloat(xe, "dirZ", v.Dir.Z, 0)
	case *PointLight:
		attrFloat(xe, "x", v.Pos.X, 0)
		attrFloat(xe, "y", v.Pos.Y, 0)
		attrFloat(xe, "z", v.Pos.Z, 0)
	case *SpotLight:
		attrFloat(xe, "x", v.Pos.X, 0)
		attrFloat(xe, "y", v.Pos.Y, 0)
		attrFloat(xe, "z", v.Pos.Z, 0)
		attrFloat(xe, "dirX", v.Dir.X, 0)
		attrFloat(xe, "dirY", v.Dir.Y, -1)
		attrFloat(xe, "dirZ", v.Dir.Z, 0)
		attrFloat(xe, "innerAngle", v.InnerAngle, 30)
		attrFloat(xe, "outerAngle", v.OuterAngle, 45)
	}
	writeColor(xe, "color", lb.Color, lb.ColorRef, color.RGBA{255, 255, 255, 255})
	attrFloat(xe, "intensity", lb.Intensity, 1)
	attrBool(xe, "on", lb.On, true)
	xe.End()
}

// write2D emits the shared 2D attributes. A followCamera node's Base is
// written back as x,y — the inverse of the parser's reinterpretation —
// so the authored offset, not the camera-shifted runtime position, is
// what lands in the file.
func write2D(xe *XMLEncoder, nd *Node2D, withSize bool) {
	pos := nd.Pos
	if nd.FollowCamera {
		pos = nd.Base
	}
	attrFloat(xe, "x", pos.X, 0)
	attrFloat(xe, "y", pos.Y, 0)
	if withSize {
		attrFloat(xe, "width", nd.Size.X, placeholderSize)
		attrFloat(xe, "height", nd.Size.Y, placeholderSize)
	}
	attrFloat(xe, "rotation", nd.Rotation, 0)
}

// writeCommon emits the attributes every node kind shares. Active keeps
// its capitalized document spelling.
func writeCommon(xe *XMLEncoder, nb *NodeBase) {
	if n2, ok := nb.this.(interface{ AsNode2D() *Node2D }); ok {
		nd := n2.AsNode2D()
		attrFloat(xe, "opacity", nd.Opacity(), 1)
		attrBool(xe, "followCamera", nd.FollowCamera, false)
	}
	if nb.Layer != 0 {
		xe.Attr("layer", fmt.Sprintf("%d", nb.Layer))
	}
	attrBool(xe, "Active", nb.Active, true)
	attrBool(xe, "visible", nb.Visible, true)
}

// fstr formats a float attribute value as its minimal decimal
// representation, so unmodified values round-trip without rounding noise.
func fstr(f float32) string {
	return fmt.Sprintf("%g", f)
}

func attrFloat(xe *XMLEncoder, name string, v, def float32) {
	if v == def {
		return
	}
	xe.Attr(name, fstr(v))
}

func attrBool(xe *XMLEncoder, name string, v, def bool) {
	if v == def {
		return
	}
	xe.Attr(name, fmt.Sprintf("%t", v))
}

func attrStr(xe *XMLEncoder, name, v string) {
	if v == "" {
		return
	}
	xe.Attr(name, v)
}

// writeColor emits a color attribute: the authored string verbatim when
// retained, otherwise #RRGGBB hex; omitted entirely at the default.
func writeColor(xe *XMLEncoder, name string, c color.RGBA, ref string, def color.RGBA) {
	if ref != "" {
		xe.Attr(name, ref)
		return
	}
	if c == def {
		return
	}
	xe.Attr(name, colors.AsHex(c)[:7])
}

// srcAttr prefers the authored reference over the resolved URL, so
// saving never rewrites relative paths to absolute form.
func srcAttr(ref, resolved string) string {
	if ref != "" {
		return ref
	}
	return resolved
}
