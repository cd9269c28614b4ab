package rtti

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestDeepCtxEnterDetectsRevisit(t *testing.T) {
	ctx := NewDeepCtx()
	var a, b int
	pa, pb := unsafe.Pointer(&a), unsafe.Pointer(&b)

	require.False(t, ctx.Enter(pa, pb), "first visit should not be flagged as already seen")
	require.True(t, ctx.Enter(pa, pb), "second visit of the same pair must be detected")
}

func TestDeepCtxNilIsAlwaysUnseen(t *testing.T) {
	var ctx *DeepCtx
	var a int
	require.False(t, ctx.Enter(unsafe.Pointer(&a), unsafe.Pointer(&a)))
	require.False(t, ctx.Enter(unsafe.Pointer(&a), unsafe.Pointer(&a)))
}

func TestCopyCtxRemembersSharedReferences(t *testing.T) {
	ctx := NewCopyCtx()
	var src int
	key := unsafe.Pointer(&src)

	_, ok := ctx.Lookup(key)
	require.False(t, ok)

	ctx.Remember(key, "copied-value")
	got, ok := ctx.Lookup(key)
	require.True(t, ok)
	require.Equal(t, "copied-value", got)
}

func TestCopyCtxNilIsInert(t *testing.T) {
	var ctx *CopyCtx
	var src int
	key := unsafe.Pointer(&src)

	ctx.Remember(key, "ignored")
	_, ok := ctx.Lookup(key)
	require.False(t, ok)
}
