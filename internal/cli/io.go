package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowmark/pkg/codec"
	"github.com/matzehuels/flowmark/pkg/flow"
)

// readSource reads flowchart text from path, or from stdin when path
// is "-" or empty.
func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadGraph reads and decodes flowchart text from path.
func loadGraph(path string) (*flow.Graph, string, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, "", err
	}
	g, err := codec.Decode(src)
	if err != nil {
		return nil, "", err
	}
	return g, src, nil
}

// writeOutput writes data to path, or to stdout when path is "-" or
// empty.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
