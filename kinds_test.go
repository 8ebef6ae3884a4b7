package scope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindIs_BuiltinTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		ancestor Kind
		want     bool
	}{
		{"kind matches itself", KindBody, KindBody, true},
		{"child matches root", KindBody, KindFailure, true},
		{"setup matches root", KindSetup, KindFailure, true},
		{"canceled descends from body", KindCanceled, KindBody, true},
		{"canceled matches root transitively", KindCanceled, KindFailure, true},
		{"siblings do not match", KindBody, KindSetup, false},
		{"parent does not match child", KindBody, KindCanceled, false},
		{"root matches only root", KindFailure, KindBody, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.kind.Is(tt.ancestor))
		})
	}
}

func TestRegister_ExtendsTaxonomy(t *testing.T) {
	validation := Register("KINDS_TEST_VALIDATION", KindBody)
	missingField := Register("KINDS_TEST_MISSING_FIELD", validation)

	require.True(t, validation.Is(KindBody))
	require.True(t, missingField.Is(validation))
	require.True(t, missingField.Is(KindBody))
	require.True(t, missingField.Is(KindFailure))
	require.False(t, missingField.Is(KindSetup))
}

func TestRegister_UnknownParentAttachesToRoot(t *testing.T) {
	child := Register("KINDS_TEST_ORPHAN_CHILD", "KINDS_TEST_ORPHAN_PARENT")

	require.True(t, child.Is(KindFailure))
	require.True(t, child.Is("KINDS_TEST_ORPHAN_PARENT"))
}

func TestParent(t *testing.T) {
	parent, ok := Parent(KindCanceled)
	require.True(t, ok)
	require.Equal(t, KindBody, parent)

	_, ok = Parent(KindFailure)
	require.False(t, ok)

	_, ok = Parent("KINDS_TEST_NEVER_REGISTERED")
	require.False(t, ok)
}

func TestCovers(t *testing.T) {
	tests := []struct {
		name string
		set  []Kind
		kind Kind
		want bool
	}{
		{"exact member", []Kind{KindBody}, KindBody, true},
		{"strict descendant of member", []Kind{KindBody}, KindCanceled, true},
		{"non-member sibling", []Kind{KindSetup}, KindBody, false},
		{"empty set covers nothing", nil, KindBody, false},
		{"root covers everything", []Kind{KindFailure}, KindTeardown, true},
		{"any member suffices", []Kind{KindSetup, KindTeardown}, KindTeardown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Covers(tt.set, tt.kind))
		})
	}
}
