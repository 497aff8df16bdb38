package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/kodiakgen/errors"
)

func TestParseDepends(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"single", "VK_VERSION_1_1", "defined(VK_VERSION_1_1)"},
		{"and", "VK_KHR_surface+VK_KHR_swapchain", "defined(VK_KHR_surface) && defined(VK_KHR_swapchain)"},
		{"or", "VK_VERSION_1_1,VK_KHR_maintenance1", "defined(VK_VERSION_1_1) || defined(VK_KHR_maintenance1)"},
		{
			name: "parenthesized or under and",
			src:  "(VK_KHR_get_physical_device_properties2,VK_VERSION_1_1)+VK_KHR_surface",
			want: "(defined(VK_KHR_get_physical_device_properties2) || defined(VK_VERSION_1_1)) && defined(VK_KHR_surface)",
		},
		{
			name: "mixed operators are translated in place",
			src:  "A+B,C",
			want: "defined(A) && defined(B) || defined(C)",
		},
		{
			name: "nested or keeps its source parentheses",
			src:  "A,(B,C)",
			want: "defined(A) || (defined(B) || defined(C))",
		},
		{
			name: "redundant parentheses are kept",
			src:  "((A))",
			want: "((defined(A)))",
		},
		{
			name: "surrounding blanks are trimmed",
			src:  "  A+B  ",
			want: "defined(A) && defined(B)",
		},
		{
			name: "unknown identifiers are still wrapped",
			src:  "SOME_MACRO",
			want: "defined(SOME_MACRO)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDepends(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Key(got))
		})
	}
}

func TestDependsTopLevelOr(t *testing.T) {
	tests := []struct {
		src  Depends
		want bool
	}{
		{"A", false},
		{"A+B", false},
		{"A,B", true},
		{"A+B,C", true},
		{"(A,B)+C", false},
		{"(A,B),C", true},
		{"((A,B))", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.src), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.src.TopLevelOr())
		})
	}
}

func TestParseDependsErrors(t *testing.T) {
	for _, src := range []string{"A+", ",A", "(A,B", "A)", "A-B", "A+()"} {
		t.Run(src, func(t *testing.T) {
			_, err := ParseDepends(src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
		})
	}
}

func TestRequirement(t *testing.T) {
	tests := []struct {
		name       string
		ext        string
		features   []string
		extensions []string
		depends    string
		want       string
	}{
		{
			name: "extension only",
			ext:  "VK_KHR_swapchain",
			want: "defined(VK_KHR_swapchain)",
		},
		{
			name:       "feature and extension attributes",
			ext:        "VK_KHR_swapchain",
			features:   []string{"VK_VERSION_1_1"},
			extensions: []string{"VK_KHR_device_group"},
			want:       "defined(VK_KHR_swapchain) && defined(VK_VERSION_1_1) && defined(VK_KHR_device_group)",
		},
		{
			name:    "conjunctive depends is not parenthesized",
			ext:     "VK_EXT_x",
			depends: "VK_KHR_a+VK_KHR_b",
			want:    "defined(VK_EXT_x) && defined(VK_KHR_a) && defined(VK_KHR_b)",
		},
		{
			name:    "top level or in depends is parenthesized",
			ext:     "VK_KHR_push_descriptor",
			depends: "VK_VERSION_1_1,VK_KHR_descriptor_update_template",
			want:    "defined(VK_KHR_push_descriptor) && (defined(VK_VERSION_1_1) || defined(VK_KHR_descriptor_update_template))",
		},
		{
			name:    "mixed operators get one outer pair",
			ext:     "VK_KHR_push_descriptor",
			depends: "VK_KHR_push_descriptor+VK_VERSION_1_1,VK_KHR_push_descriptor+VK_KHR_descriptor_update_template",
			want: "defined(VK_KHR_push_descriptor) && (defined(VK_KHR_push_descriptor) && defined(VK_VERSION_1_1) || " +
				"defined(VK_KHR_push_descriptor) && defined(VK_KHR_descriptor_update_template))",
		},
		{
			name:    "parenthesized or under and",
			ext:     "VK_KHR_swapchain",
			depends: "(VK_KHR_get_physical_device_properties2,VK_VERSION_1_1)+VK_KHR_surface",
			want:    "defined(VK_KHR_swapchain) && (defined(VK_KHR_get_physical_device_properties2) || defined(VK_VERSION_1_1)) && defined(VK_KHR_surface)",
		},
		{
			name:    "nested or inside a top level or",
			ext:     "E",
			depends: "A,(B,C)",
			want:    "defined(E) && (defined(A) || (defined(B) || defined(C)))",
		},
		{
			name:    "redundant parentheses",
			ext:     "E",
			depends: "((A))",
			want:    "defined(E) && ((defined(A)))",
		},
		{
			name:    "nested or keeps its own parentheses only",
			ext:     "VK_EXT_y",
			depends: "(VK_KHR_a,VK_VERSION_1_1)+VK_KHR_b",
			want:    "defined(VK_EXT_y) && (defined(VK_KHR_a) || defined(VK_VERSION_1_1)) && defined(VK_KHR_b)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dep, err := ParseDepends(tt.depends)
			require.NoError(t, err)

			got := Requirement(tt.ext, tt.features, tt.extensions, dep)
			assert.Equal(t, tt.want, got.String())
			require.NoError(t, Validate(got))
		})
	}
}
