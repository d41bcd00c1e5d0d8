package protocol

// PatchOp is the type of patch operation.
type PatchOp uint8

// Patch operation constants.
const (
	PatchSetAttr     PatchOp = 0x02 // Set attribute
	PatchRemoveAttr  PatchOp = 0x03 // Remove attribute
	PatchAddClass    PatchOp = 0x10 // Add CSS class
	PatchRemoveClass PatchOp = 0x11 // Remove CSS class
	PatchToggleClass PatchOp = 0x12 // Toggle CSS class
	PatchSetData     PatchOp = 0x15 // Set data attribute
	PatchURLReplace  PatchOp = 0x30 // Replace the current history entry
)

// String returns the string representation of the patch operation.
func (op PatchOp) String() string {
	switch op {
	case PatchSetAttr:
		return "SetAttr"
	case PatchRemoveAttr:
		return "RemoveAttr"
	case PatchAddClass:
		return "AddClass"
	case PatchRemoveClass:
		return "RemoveClass"
	case PatchToggleClass:
		return "ToggleClass"
	case PatchSetData:
		return "SetData"
	case PatchURLReplace:
		return "URLReplace"
	default:
		return "Unknown"
	}
}

// Param is one ordered query parameter of a URL patch.
type Param struct {
	Key   string
	Value string
}

// Patch is a single page operation.
type Patch struct {
	Op     PatchOp
	Target string  // Element id; empty for URL patches
	Key    string  // Attribute/data key
	Value  string  // Attribute value, class name, or href for URL patches
	Params []Param // Ordered query of a URL patch
}

// PatchesFrame is a batch of patches with a sequence number.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes a patches frame payload.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
	return e.Bytes()
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	e.WriteString(p.Target)

	switch p.Op {
	case PatchSetAttr, PatchSetData:
		e.WriteString(p.Key)
		e.WriteString(p.Value)

	case PatchRemoveAttr:
		e.WriteString(p.Key)

	case PatchAddClass, PatchRemoveClass, PatchToggleClass:
		e.WriteString(p.Value)

	case PatchURLReplace:
		e.WriteString(p.Value)
		e.WriteUvarint(uint64(len(p.Params)))
		for _, param := range p.Params {
			e.WriteString(param.Key)
			e.WriteString(param.Value)
		}
	}
}

// DecodePatches decodes a patches frame payload.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)

	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}

	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	patches := make([]Patch, count)
	for i := range patches {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, err
		}
	}

	return &PatchesFrame{Seq: seq, Patches: patches}, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	opByte, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(opByte)

	if p.Target, err = d.ReadString(); err != nil {
		return err
	}

	switch p.Op {
	case PatchSetAttr, PatchSetData:
		if p.Key, err = d.ReadString(); err != nil {
			return err
		}
		p.Value, err = d.ReadString()

	case PatchRemoveAttr:
		p.Key, err = d.ReadString()

	case PatchAddClass, PatchRemoveClass, PatchToggleClass:
		p.Value, err = d.ReadString()

	case PatchURLReplace:
		if p.Value, err = d.ReadString(); err != nil {
			return err
		}
		var n int
		if n, err = d.ReadCollectionCount(); err != nil {
			return err
		}
		p.Params = make([]Param, n)
		for i := range p.Params {
			if p.Params[i].Key, err = d.ReadString(); err != nil {
				return err
			}
			if p.Params[i].Value, err = d.ReadString(); err != nil {
				return err
			}
		}
	}
	return err
}

// NewSetAttrPatch sets an attribute on an element.
func NewSetAttrPatch(target, key, value string) Patch {
	return Patch{Op: PatchSetAttr, Target: target, Key: key, Value: value}
}

// NewRemoveAttrPatch removes an attribute from an element.
func NewRemoveAttrPatch(target, key string) Patch {
	return Patch{Op: PatchRemoveAttr, Target: target, Key: key}
}

// NewAddClassPatch adds a CSS class to an element.
func NewAddClassPatch(target, class string) Patch {
	return Patch{Op: PatchAddClass, Target: target, Value: class}
}

// NewRemoveClassPatch removes a CSS class from an element.
func NewRemoveClassPatch(target, class string) Patch {
	return Patch{Op: PatchRemoveClass, Target: target, Value: class}
}

// NewToggleClassPatch toggles a CSS class on an element.
func NewToggleClassPatch(target, class string) Patch {
	return Patch{Op: PatchToggleClass, Target: target, Value: class}
}

// NewSetDataPatch sets a data-* attribute on an element.
func NewSetDataPatch(target, key, value string) Patch {
	return Patch{Op: PatchSetData, Target: target, Key: key, Value: value}
}

// NewURLReplacePatch replaces the current history entry with href.
// params is the ordered query of href, for clients that rebuild the URL.
func NewURLReplacePatch(href string, params []Param) Patch {
	return Patch{Op: PatchURLReplace, Value: href, Params: params}
}

// EncodePatchesFrame wraps a patches frame in a sequenced, final Frame and
// returns the wire bytes.
func EncodePatchesFrame(pf *PatchesFrame) ([]byte, error) {
	return NewFrame(FramePatches, FlagSequenced|FlagFinal, EncodePatches(pf)).Encode()
}
