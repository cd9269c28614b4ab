package rtti

import "hash/fnv"

// TypeId uniquely identifies the structure of a described type. Two
// types with identical structure — same flags, same component ids —
// always combine to the same TypeId regardless of which package
// described them first.
type TypeId uint32

// combine folds flag and an ordered list of component ids into a single
// TypeId. The fold is associative (processed left to right over a
// fixed FNV state) and injective up to structural equality: changing
// the flag or any component id, or their order, changes the result.
func combine(flag TypeFlags, components ...TypeId) TypeId {
	h := fnv.New32a()
	var buf [4]byte
	putU32(buf[:], uint32(flag))
	h.Write(buf[:])
	for _, c := range components {
		putU32(buf[:], uint32(c))
		h.Write(buf[:])
	}
	return TypeId(h.Sum32())
}

func putU32(buf []byte, v uint32) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
	buf[2] = byte(v >> 16)
	buf[3] = byte(v >> 24)
}

// ScalarTypeId derives a stable id for a native scalar from its name.
// Native scalar ids are a closed set assigned once at registration time
// (see Register in registry.go); a named constant, not a hash, would
// work equally well, but hashing the name keeps every scalar kind's id
// derivation uniform with composite derivation below.
func ScalarTypeId(name string) TypeId {
	h := fnv.New32a()
	h.Write([]byte(name))
	return combine(FlagScalar|FlagNative, TypeId(h.Sum32()))
}

// EnumTypeId derives an enum's id from its underlying scalar id.
func EnumTypeId(underlying TypeId) TypeId {
	return combine(FlagEnum, underlying)
}

// PairTypeId derives a pair's id from its key and value ids, order
// significant.
func PairTypeId(key, value TypeId) TypeId {
	return combine(FlagPair, key, value)
}

// ListTypeId derives a list's id from its element id.
func ListTypeId(element TypeId) TypeId {
	return combine(FlagList, element)
}

// DicoTypeId derives a dico's id from its key and value ids, order
// significant.
func DicoTypeId(key, value TypeId) TypeId {
	return combine(FlagDico, key, value)
}

// ObjectTypeId derives a reflected class's id from its class name, so
// that every process describing the same class agrees on its id
// without a shared registration order.
func ObjectTypeId(className string) TypeId {
	h := fnv.New32a()
	h.Write([]byte(className))
	return combine(FlagObject, TypeId(h.Sum32()))
}
