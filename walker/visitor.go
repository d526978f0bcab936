package walker

// VisitFunc is called when the walker enters or leaves a typed node.
type VisitFunc func(wc *WalkContext) Action

// Visitor is a set of callbacks keyed by node type. A nil or missing entry
// means the visitor is not interested in that type.
type Visitor struct {
	// Name identifies the visitor in logs
	Name string
	// Enter is called before a node's children are walked
	Enter map[NodeType]VisitFunc
	// Leave is called after a node's children are walked. It is not called
	// when the visitor's Enter returned SkipChildren or Stop for that node.
	Leave map[NodeType]VisitFunc
	// Ref is called for every reference node, before it is followed
	Ref RefHandler
}

// NewVisitor creates an empty visitor.
func NewVisitor(name string) *Visitor {
	return &Visitor{
		Name:  name,
		Enter: make(map[NodeType]VisitFunc),
		Leave: make(map[NodeType]VisitFunc),
	}
}

// OnEnter registers fn for entering nodes of the given types.
func (v *Visitor) OnEnter(fn VisitFunc, types ...NodeType) *Visitor {
	if v.Enter == nil {
		v.Enter = make(map[NodeType]VisitFunc)
	}
	for _, t := range types {
		v.Enter[t] = fn
	}
	return v
}

// OnLeave registers fn for leaving nodes of the given types.
func (v *Visitor) OnLeave(fn VisitFunc, types ...NodeType) *Visitor {
	if v.Leave == nil {
		v.Leave = make(map[NodeType]VisitFunc)
	}
	for _, t := range types {
		v.Leave[t] = fn
	}
	return v
}

// OnRef registers fn for reference nodes.
func (v *Visitor) OnRef(fn RefHandler) *Visitor {
	v.Ref = fn
	return v
}

type entry[F any] struct {
	visitor int
	fn      F
}

// Dispatch is a set of visitors merged into per-type callback lists. For
// each node, callbacks run in the order the visitors were given to Merge.
type Dispatch struct {
	names []string
	enter [numTypes][]entry[VisitFunc]
	leave [numTypes][]entry[VisitFunc]
	refs  []entry[RefHandler]
}

// Merge combines visitors into a single dispatch table. Nil visitors are
// ignored.
func Merge(visitors ...*Visitor) *Dispatch {
	d := &Dispatch{}
	for _, v := range visitors {
		if v == nil {
			continue
		}
		idx := len(d.names)
		d.names = append(d.names, v.Name)
		for t := range numTypes {
			if fn := v.Enter[t]; fn != nil {
				d.enter[t] = append(d.enter[t], entry[VisitFunc]{idx, fn})
			}
			if fn := v.Leave[t]; fn != nil {
				d.leave[t] = append(d.leave[t], entry[VisitFunc]{idx, fn})
			}
		}
		if v.Ref != nil {
			d.refs = append(d.refs, entry[RefHandler]{idx, v.Ref})
		}
	}
	return d
}

// Len returns the number of merged visitors.
func (d *Dispatch) Len() int {
	return len(d.names)
}

// Interested reports whether any visitor handles nodes of type t.
func (d *Dispatch) Interested(t NodeType) bool {
	return t.IsValid() && (len(d.enter[t]) > 0 || len(d.leave[t]) > 0)
}
