package pipeline

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// TestEmittedCSnapshots pins the C Emitter's full byte-for-byte output for a
// handful of fixed-shape programs, the same way go-dws's fixture tests pin
// interpreter stdout with go-snaps: any change to the Emitter's fixed output
// order (spec.md §4.7) or to helper-category rendering shows up as a diff
// here instead of silently drifting.
func TestEmittedCSnapshots(t *testing.T) {
	cases := map[string]string{
		"hello_world": `extern void print(string s);
int main() {
    print("hi");
    return 0;
}
`,
		"nullable_coalesce": `extern void print(string s);
int pick(int? x) {
    return x ?? -1;
}
int main() {
    print(f"{pick(null)}");
    return 0;
}
`,
	}

	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			res := runSource(t, source)
			require.Empty(t, res.Diagnostics, "unexpected diagnostics: %v", res.Diagnostics)
			snaps.MatchSnapshot(t, name, res.C)
		})
	}
}
