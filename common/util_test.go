//go:build unit
// +build unit

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGateName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lower", in: "hadamard", want: "hadamard"},
		{name: "camel", in: "RotateY", want: "rotatey"},
		{name: "underscore", in: "rotate_y", want: "rotatey"},
		{name: "hyphen", in: "rotate-y", want: "rotatey"},
		{name: "mixed", in: "CPhase_Rotation", want: "cphaserotation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeGateName(tt.in))
		})
	}
}

func TestContainsName(t *testing.T) {
	list := []string{"A1", "D2"}
	assert.True(t, ContainsName("A1", list))
	assert.False(t, ContainsName("a1", list))
	assert.False(t, ContainsName("D3", list))
}

func TestIsDirWritable(t *testing.T) {
	assert.Nil(t, IsDirWritable(t.TempDir()))
	assert.NotNil(t, IsDirWritable("/definitely/not/a/dir"))
}
