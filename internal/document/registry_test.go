package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileRegistry_HasSuffix(t *testing.T) {
	r := &FileRegistry{}
	r.Add("/project/src/lib/utils.wgsl")
	r.Add(`C:\shaders\main.wgsl`)
	r.Add("relative/.hidden.wgsl")

	tests := []struct {
		importPath string
		want       bool
	}{
		{"utils.wgsl", true},
		{"lib/utils.wgsl", true},
		{"./lib/utils.wgsl", true},
		{"src/lib/utils.wgsl", true},
		{"tils.wgsl", false},
		{"other/utils.wgsl", false},
		{"main.wgsl", true},
		{`shaders\main.wgsl`, true},
		{".hidden.wgsl", true},
		{"", false},
		{"/absolute/project/src/lib/utils.wgsl", false},
	}
	for _, tt := range tests {
		t.Run(tt.importPath, func(t *testing.T) {
			assert.Equal(t, tt.want, r.HasSuffix(tt.importPath))
		})
	}
}

func TestFileRegistry_Paths(t *testing.T) {
	r := &FileRegistry{}
	r.Add("a.wgsl")
	r.Add("b.wgsl")

	paths := r.Paths()
	paths[0] = "changed"
	assert.Equal(t, []string{"a.wgsl", "b.wgsl"}, r.Paths())
}
