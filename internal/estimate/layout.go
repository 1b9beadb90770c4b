package estimate

import "smeta/internal/model"

// LayoutConfig holds the fixed constants of the box diagram.
type LayoutConfig struct {
	OriginX float64
	OriginY float64
	// Pitch is the horizontal distance between consecutive chapter boxes.
	Pitch float64

	LeafWidth  float64
	LeafHeight float64

	TopMargin   float64
	LeftMargin  float64
	Gap         float64
	WidthMargin float64
}

func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		OriginX:     50,
		OriginY:     50,
		Pitch:       400,
		LeafWidth:   200,
		LeafHeight:  50,
		TopMargin:   50,
		LeftMargin:  20,
		Gap:         10,
		WidthMargin: 40,
	}
}

type Box struct {
	Ref         model.NodeRef  `json:"ref" yaml:"ref"`
	Parent      *model.NodeRef `json:"parent,omitempty" yaml:"parent,omitempty"`
	DisplayKind model.Kind     `json:"displayKind" yaml:"displayKind"`
	Title       string         `json:"title" yaml:"title"`
	Depth       int            `json:"depth" yaml:"depth"`

	// X/Y are scene coordinates; RelX/RelY are relative to the parent box.
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	RelX   float64 `json:"relX" yaml:"relX"`
	RelY   float64 `json:"relY" yaml:"relY"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

type Diagram struct {
	Boxes []Box `json:"boxes" yaml:"boxes"`

	index map[model.NodeRef]int
}

func (d Diagram) Box(ref model.NodeRef) (Box, bool) {
	i, ok := d.index[ref]
	if !ok {
		return Box{}, false
	}
	return d.Boxes[i], true
}

type size struct{ w, h float64 }

// Layout places chapters left to right and stacks each container's children
// top-down. Resources are fixed-size leaves; chapters and works grow to fit.
func Layout(t *Tree, cfg LayoutConfig) Diagram {
	sizes := make([]size, t.Len())
	rel := make([][2]float64, t.Len())

	var measure func(idx int) size
	measure = func(idx int) size {
		n := &t.Nodes[idx]
		if n.Kind() == model.KindResource {
			sizes[idx] = size{w: cfg.LeafWidth, h: cfg.LeafHeight}
			return sizes[idx]
		}
		y := cfg.TopMargin
		maxW := 0.0
		for _, ch := range n.Children {
			rel[ch] = [2]float64{cfg.LeftMargin, y}
			s := measure(ch)
			if s.w > maxW {
				maxW = s.w
			}
			y += s.h + cfg.Gap
		}
		sizes[idx] = size{w: maxW + cfg.WidthMargin, h: y}
		return sizes[idx]
	}
	for i, r := range t.Roots {
		rel[r] = [2]float64{cfg.OriginX + float64(i)*cfg.Pitch, cfg.OriginY}
		measure(r)
	}

	d := Diagram{
		Boxes: make([]Box, 0, t.Len()),
		index: make(map[model.NodeRef]int, t.Len()),
	}
	abs := make([][2]float64, t.Len())
	t.Walk(func(idx int, n *Node, depth int) bool {
		b := Box{
			Ref:         n.Ref,
			DisplayKind: n.DisplayKind,
			Title:       n.Title,
			Depth:       depth,
			RelX:        rel[idx][0],
			RelY:        rel[idx][1],
			Width:       sizes[idx].w,
			Height:      sizes[idx].h,
		}
		abs[idx] = rel[idx]
		if n.Parent >= 0 {
			pref := t.Nodes[n.Parent].Ref
			b.Parent = &pref
			abs[idx] = [2]float64{abs[n.Parent][0] + rel[idx][0], abs[n.Parent][1] + rel[idx][1]}
		}
		b.X, b.Y = abs[idx][0], abs[idx][1]
		if _, exists := d.index[n.Ref]; !exists {
			d.index[n.Ref] = len(d.Boxes)
		}
		d.Boxes = append(d.Boxes, b)
		return true
	})
	return d
}
