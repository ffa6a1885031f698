package cli

import "testing"

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derive from input", "", "diagrams/pipeline.mmd", "diagrams/pipeline"},
		{"stdin input", "", "-", "flowchart"},
		{"explicit output", "out/chart", "pipeline.mmd", "out/chart"},
		{"strip format extension", "chart.svg", "pipeline.mmd", "chart"},
		{"keep unknown extension", "chart.backup", "pipeline.mmd", "chart.backup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "png", "pdf", "dot"} {
		if err := validateFormat(f); err != nil {
			t.Errorf("validateFormat(%q) = %v, want nil", f, err)
		}
	}
	if err := validateFormat("gif"); err == nil {
		t.Error("validateFormat(gif) = nil, want error")
	}
}
