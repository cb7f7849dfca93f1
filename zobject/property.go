package zobject

import (
	"fmt"

	"github.com/nwidger/zif/memory"
)

// Property is a decoded view of one property-list entry.
type Property struct {
	Id                   uint8
	Length               uint8
	DataAddress          uint32
	PropertyHeaderLength uint8
	Address              uint32
}

// GetPropertyLength works backward from the address of a property's first
// data byte to recover its length, per the version-dependent header-byte
// encoding.
func GetPropertyLength(mem *memory.Memory, addr uint32, version uint8) uint16 {
	if addr == 0 {
		return 0
	}

	prevByte := mem.Read8(addr - 1)
	if version <= 3 {
		return uint16(prevByte>>5) + 1
	}
	if prevByte&0b1000_0000 != 0 {
		if prevByte&0b11_1111 == 0 {
			return 64
		}
		return uint16(prevByte & 0b11_1111)
	}
	return uint16((prevByte>>6)&1) + 1
}

func (o *Object) propertyListStart(mem *memory.Memory) uint32 {
	nameLength := mem.Read8(uint32(o.PropertyPointer))
	return uint32(o.PropertyPointer) + 1 + uint32(nameLength)*2
}

// GetPropertyByAddress decodes the property header at propertyAddr.
func (o *Object) GetPropertyByAddress(propertyAddr uint32, mem *memory.Memory, version uint8) Property {
	sizeByte := mem.Read8(propertyAddr)
	length := (sizeByte >> 5) + 1
	id := sizeByte & 0b1_1111
	headerLength := uint8(1)

	if version >= 4 {
		if sizeByte>>7 == 1 {
			length = mem.Read8(propertyAddr+1) & 0b11_1111
			if length == 0 {
				length = 64 // 12.4.2.1.1: a stored length of 0 means 64
			}
			id = sizeByte & 0b11_1111
			headerLength = 2
		} else {
			length = ((sizeByte >> 6) & 1) + 1
			id = sizeByte & 0b11_1111
		}
	}

	dataAddress := propertyAddr + uint32(headerLength)

	return Property{
		Id:                   id,
		Length:               length,
		DataAddress:          dataAddress,
		PropertyHeaderLength: headerLength,
		Address:              propertyAddr,
	}
}

// GetProperty scans the object's property list for propertyId, falling
// back to the table's default-property value when absent.
func (o *Object) GetProperty(propertyId uint8, mem *memory.Memory, version uint8, objectTableBase uint16) (Property, uint16) {
	currentPtr := o.propertyListStart(mem)

	for mem.Read8(currentPtr) != 0 {
		property := o.GetPropertyByAddress(currentPtr, mem, version)
		if property.Id == propertyId {
			value := uint16(mem.Read8(property.DataAddress))
			if property.Length >= 2 {
				value = mem.Read16(property.DataAddress)
			}
			return property, value
		}
		currentPtr += uint32(property.PropertyHeaderLength) + uint32(property.Length)
	}

	defaultAddr := uint32(objectTableBase) + 2*uint32(propertyId-1)
	return Property{Id: propertyId}, mem.Read16(defaultAddr)
}

// GetPropertyAddr returns the data address of propertyId on this object,
// or 0 if absent.
func (o *Object) GetPropertyAddr(propertyId uint8, mem *memory.Memory, version uint8) uint32 {
	currentPtr := o.propertyListStart(mem)

	for mem.Read8(currentPtr) != 0 {
		property := o.GetPropertyByAddress(currentPtr, mem, version)
		if property.Id == propertyId {
			return property.DataAddress
		}
		currentPtr += uint32(property.PropertyHeaderLength) + uint32(property.Length)
	}
	return 0
}

// SetProperty writes a 1- or 2-byte property value in place; it is an
// error for the property's declared length to be anything else.
func (o *Object) SetProperty(propertyId uint8, value uint16, mem *memory.Memory, version uint8) {
	currentPtr := o.propertyListStart(mem)

	for mem.Read8(currentPtr) != 0 {
		property := o.GetPropertyByAddress(currentPtr, mem, version)
		if property.Id == propertyId {
			switch property.Length {
			case 1:
				mem.Write8(property.DataAddress, uint8(value))
			case 2:
				mem.Write16(property.DataAddress, value)
			default:
				panic(fmt.Sprintf("zobject: property %d has length %d, can't store a word", propertyId, property.Length))
			}
			return
		}
		currentPtr += uint32(property.PropertyHeaderLength) + uint32(property.Length)
	}

	panic(fmt.Sprintf("zobject: object %d has no property %d", o.Id, propertyId))
}

// GetNextProperty implements `get_next_prop`: propertyId 0 requests the
// first property on the object; otherwise the property following
// propertyId is returned (0 if propertyId was last).
func (o *Object) GetNextProperty(propertyId uint8, mem *memory.Memory, version uint8) uint8 {
	if propertyId == 0 {
		start := o.propertyListStart(mem)
		if mem.Read8(start) == 0 {
			return 0
		}
		return o.GetPropertyByAddress(start, mem, version).Id
	}

	property, _ := o.GetProperty(propertyId, mem, version, 0)
	nextAddr := property.DataAddress + uint32(property.Length)
	if mem.Read8(nextAddr) == 0 {
		return 0
	}
	return o.GetPropertyByAddress(nextAddr, mem, version).Id
}
