// Command genmodel writes the reference classifier artifact to disk. It is an
// offline tool: the API server only ever reads the artifact it produces.
//
// Usage:
//
//	genmodel [-out model/soil_model.json.zst]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"soilsafe/internal/classifier"
)

func main() {
	out := flag.String("out", "model/soil_model.json.zst", "output path for the model artifact")
	flag.Parse()

	if err := run(*out); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(out string) error {
	model := classifier.BuildReferenceModel()
	if err := model.Validate(); err != nil {
		return fmt.Errorf("reference model is invalid: %w", err)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating artifact file: %w", err)
	}
	defer f.Close()

	if err := classifier.Encode(f, model); err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing artifact file: %w", err)
	}

	fmt.Printf("wrote %s (version %s, %d trees)\n", out, model.Version, len(model.Trees))
	return nil
}
