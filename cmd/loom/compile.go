package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loom-ui/loom/cmd/loom/internal/config"
	"github.com/loom-ui/loom/cmd/loom/internal/ui"
	"github.com/loom-ui/loom/pkg/artifact"
	"github.com/loom-ui/loom/pkg/template"
)

func newCompileCommand() *cobra.Command {
	var outDir string
	var cwd string

	cmd := &cobra.Command{
		Use:   "compile [artifacts...]",
		Short: "Compile parse artifacts into template descriptors",
		Long: `Compiles one or more parse artifacts (JSON node trees produced by the
grammar layer) into template descriptor files. With no arguments, every
.ui.json file under the configured artifact directory is compiled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cwd != "" {
				if err := os.Chdir(cwd); err != nil {
					return fmt.Errorf("failed to change directory to %s: %w", cwd, err)
				}
			}
			return runCompile(args, outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory for descriptors (default from loom.yaml)")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Working directory of the project (defaults to current)")

	return cmd
}

func runCompile(args []string, outDir string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.OutDir
	}

	files := args
	if len(files) == 0 {
		files, err = findArtifacts(cfg.ArtifactDir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no artifacts found under %s", cfg.ArtifactDir)
		}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var compiled, templates, errors, warnings int

	for _, file := range files {
		res, err := compileArtifact(cfg.ArtifactDir, file, outDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.RenderError(err))
			errors++
			continue
		}

		compiled++
		templates += len(res.Templates)

		if len(res.Diagnostics) > 0 {
			fmt.Fprintln(os.Stderr, ui.RenderDiagnostics(res.Diagnostics))
		}
		for _, diag := range res.Diagnostics {
			if diag.Severity == template.SeverityWarning {
				warnings++
			} else {
				errors++
			}
		}
	}

	fmt.Println(ui.RenderSummary(compiled, templates, errors, warnings))

	// Diagnostics are advisory; only hard parse errors fail the run.
	if compiled < len(files) {
		return fmt.Errorf("%d artifact(s) failed to compile", len(files)-compiled)
	}
	return nil
}

// compileArtifact compiles one artifact file and writes its descriptor into
// the output directory under a name derived from the artifact's path.
func compileArtifact(root, file, outDir string) (*artifact.Result, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	res, err := artifact.Compile(data)
	if err != nil {
		return nil, err
	}

	encoded, err := artifact.EncodeResult(res)
	if err != nil {
		return nil, fmt.Errorf("failed to encode descriptors for %s: %w", file, err)
	}

	outPath := filepath.Join(outDir, descriptorName(root, file))
	if err := os.WriteFile(outPath, encoded, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	log.Printf("[Compile] %s -> %s (%d template(s))", file, outPath, len(res.Templates))
	return res, nil
}

// descriptorName maps an artifact path to its descriptor file name. The path
// relative to the artifact root is flattened into the name, so artifacts
// sharing a basename in different subdirectories cannot overwrite each
// other's descriptors: a/list.ui.json becomes a_list.tpl.json.
func descriptorName(root, file string) string {
	name := filepath.Clean(file)
	if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
		name = rel
	}
	name = strings.TrimSuffix(name, ".ui.json")
	name = strings.TrimSuffix(name, ".json")
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	name = strings.TrimPrefix(name, "_")
	return name + ".tpl.json"
}

func findArtifacts(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if !info.IsDir() && strings.HasSuffix(path, ".ui.json") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
