package traits

import "unsafe"

// promoteNumeric converts the value at srcPtr (of kind srcKind) into
// dstPtr (of kind dstKind), succeeding only when the conversion is
// exactly reversible — spec §4.4's "no precision loss, no overflow;
// otherwise fail" rule, checked per-value rather than per-kind-pair so
// e.g. int64(3) promotes to float32 but int64(1<<40) does not.
func promoteNumeric(srcKind NumericKind, srcPtr unsafe.Pointer, dstKind NumericKind, dstPtr unsafe.Pointer) bool {
	switch srcKind {
	case KindInt32:
		return writeFromInt64(dstKind, dstPtr, int64(*(*int32)(srcPtr)))
	case KindInt64:
		return writeFromInt64(dstKind, dstPtr, *(*int64)(srcPtr))
	case KindFloat32:
		return writeFromFloat64(dstKind, dstPtr, float64(*(*float32)(srcPtr)))
	case KindFloat64:
		return writeFromFloat64(dstKind, dstPtr, *(*float64)(srcPtr))
	default:
		return false
	}
}

func writeFromInt64(dstKind NumericKind, dstPtr unsafe.Pointer, v int64) bool {
	switch dstKind {
	case KindInt32:
		r := int32(v)
		if int64(r) != v {
			return false
		}
		*(*int32)(dstPtr) = r
	case KindInt64:
		*(*int64)(dstPtr) = v
	case KindFloat32:
		r := float32(v)
		if int64(r) != v {
			return false
		}
		*(*float32)(dstPtr) = r
	case KindFloat64:
		r := float64(v)
		if int64(r) != v {
			return false
		}
		*(*float64)(dstPtr) = r
	default:
		return false
	}
	return true
}

func writeFromFloat64(dstKind NumericKind, dstPtr unsafe.Pointer, v float64) bool {
	switch dstKind {
	case KindInt32:
		r := int32(v)
		if float64(r) != v {
			return false
		}
		*(*int32)(dstPtr) = r
	case KindInt64:
		r := int64(v)
		if float64(r) != v {
			return false
		}
		*(*int64)(dstPtr) = r
	case KindFloat32:
		r := float32(v)
		if float64(r) != v {
			return false
		}
		*(*float32)(dstPtr) = r
	case KindFloat64:
		*(*float64)(dstPtr) = v
	default:
		return false
	}
	return true
}
