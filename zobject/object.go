// Package zobject implements the Z-machine's object tree: attribute flags,
// parent/sibling/child links, and property lists, with the v1-3/v4+ record
// layout split.
package zobject

import (
	"github.com/nwidger/zif/memory"
	"github.com/nwidger/zif/zstring"
)

// Object is a decoded view of one object-table record. Mutating methods
// write back through the same Memory the record was read from.
type Object struct {
	BaseAddress     uint32
	Id              uint16
	Name            string
	Attributes      uint64 // top 32 bits valid v1-3; top 48 bits valid v4+
	Parent          uint16
	Sibling         uint16
	Child           uint16
	PropertyPointer uint16
}

// DefaultPropertiesSize returns the byte length of the default-property
// table that precedes the object records (31 words v1-3, 63 words v4+).
func DefaultPropertiesSize(version uint8) uint16 {
	if version >= 4 {
		return 63 * 2
	}
	return 31 * 2
}

func recordSize(version uint8) uint32 {
	if version >= 4 {
		return 14
	}
	return 9
}

// GetObject decodes object objId's record from the table based at
// objectTableBase.
func GetObject(objId uint16, objectTableBase uint16, mem *memory.Memory, version uint8, alphabets *zstring.Alphabets, abbreviationTableBase uint16) Object {
	if objId == 0 {
		panic("zobject: object 0 does not exist")
	}

	objectBase := uint32(objectTableBase) + uint32(DefaultPropertiesSize(version)) + uint32(objId-1)*recordSize(version)

	if version >= 4 {
		propertyPtr := mem.Read16(objectBase + 12)
		name, _ := decodeName(mem, propertyPtr, version, alphabets, abbreviationTableBase)

		return Object{
			Id:              objId,
			Name:            name,
			Attributes:      uint64(mem.Read32(objectBase))<<32 | uint64(mem.Read16(objectBase+4))<<16,
			Parent:          mem.Read16(objectBase + 6),
			Sibling:         mem.Read16(objectBase + 8),
			Child:           mem.Read16(objectBase + 10),
			PropertyPointer: propertyPtr,
			BaseAddress:     objectBase,
		}
	}

	propertyPtr := mem.Read16(objectBase + 7)
	name, _ := decodeName(mem, propertyPtr, version, alphabets, abbreviationTableBase)

	return Object{
		Id:              objId,
		Name:            name,
		Attributes:      uint64(mem.Read32(objectBase)) << 32,
		Parent:          uint16(mem.Read8(objectBase + 4)),
		Sibling:         uint16(mem.Read8(objectBase + 5)),
		Child:           uint16(mem.Read8(objectBase + 6)),
		PropertyPointer: propertyPtr,
		BaseAddress:     objectBase,
	}
}

func decodeName(mem *memory.Memory, propertyPtr uint16, version uint8, alphabets *zstring.Alphabets, abbreviationTableBase uint16) (string, uint32) {
	if propertyPtr == 0 {
		return "", 0
	}
	nameLength := mem.Read8(uint32(propertyPtr))
	if nameLength == 0 {
		return "", 0
	}
	return zstring.Decode(mem.Bytes(), uint32(propertyPtr)+1, version, alphabets, abbreviationTableBase)
}

// TestAttribute reports whether attribute bit n (0 = most significant) is
// set.
func (o *Object) TestAttribute(attribute uint16) bool {
	mask := uint64(1) << (63 - attribute)
	return o.Attributes&mask == mask
}

func (o *Object) writeAttributes(mem *memory.Memory, version uint8) {
	mem.Write32(o.BaseAddress, uint32(o.Attributes>>32))
	if version >= 4 {
		mem.Write16(o.BaseAddress+4, uint16(o.Attributes>>16))
	}
}

// SetAttribute sets attribute bit n.
func (o *Object) SetAttribute(attribute uint16, mem *memory.Memory, version uint8) {
	o.Attributes |= uint64(1) << (63 - attribute)
	o.writeAttributes(mem, version)
}

// ClearAttribute clears attribute bit n.
func (o *Object) ClearAttribute(attribute uint16, mem *memory.Memory, version uint8) {
	o.Attributes &^= uint64(1) << (63 - attribute)
	o.writeAttributes(mem, version)
}

// SetParent rewrites the parent link.
func (o *Object) SetParent(parent uint16, version uint8, mem *memory.Memory) {
	if version >= 4 {
		mem.Write16(o.BaseAddress+6, parent)
	} else {
		mem.Write8(o.BaseAddress+4, uint8(parent))
	}
	o.Parent = parent
}

// SetSibling rewrites the sibling link.
func (o *Object) SetSibling(sibling uint16, version uint8, mem *memory.Memory) {
	if version >= 4 {
		mem.Write16(o.BaseAddress+8, sibling)
	} else {
		mem.Write8(o.BaseAddress+5, uint8(sibling))
	}
	o.Sibling = sibling
}

// SetChild rewrites the child link.
func (o *Object) SetChild(child uint16, version uint8, mem *memory.Memory) {
	if version >= 4 {
		mem.Write16(o.BaseAddress+10, child)
	} else {
		mem.Write8(o.BaseAddress+6, uint8(child))
	}
	o.Child = child
}

// Remove unlinks num from its parent's child/sibling chain, implementing
// the `remove` operation.
func Remove(num uint16, objectTableBase uint16, mem *memory.Memory, version uint8, alphabets *zstring.Alphabets, abbrBase uint16) {
	obj := GetObject(num, objectTableBase, mem, version, alphabets, abbrBase)
	if obj.Parent == 0 {
		return
	}
	parent := GetObject(obj.Parent, objectTableBase, mem, version, alphabets, abbrBase)

	if parent.Child == num {
		parent.SetChild(obj.Sibling, version, mem)
	} else {
		sibling := GetObject(parent.Child, objectTableBase, mem, version, alphabets, abbrBase)
		for sibling.Sibling != num {
			sibling = GetObject(sibling.Sibling, objectTableBase, mem, version, alphabets, abbrBase)
		}
		sibling.SetSibling(obj.Sibling, version, mem)
	}
	obj.SetParent(0, version, mem)
	obj.SetSibling(0, version, mem)
}

// Insert detaches child from any current parent and inserts it as the
// first child of parent, implementing the `insert` operation.
func Insert(childNum, parentNum uint16, objectTableBase uint16, mem *memory.Memory, version uint8, alphabets *zstring.Alphabets, abbrBase uint16) {
	Remove(childNum, objectTableBase, mem, version, alphabets, abbrBase)

	child := GetObject(childNum, objectTableBase, mem, version, alphabets, abbrBase)
	parent := GetObject(parentNum, objectTableBase, mem, version, alphabets, abbrBase)

	child.SetSibling(parent.Child, version, mem)
	child.SetParent(parentNum, version, mem)
	parent.SetChild(childNum, version, mem)
}
