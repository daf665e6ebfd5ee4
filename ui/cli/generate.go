// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bridgen/bridgen/internal/i18n"
	"github.com/bridgen/bridgen/internal/java"
	"github.com/bridgen/bridgen/internal/logging"
	"github.com/bridgen/bridgen/internal/model"
	"github.com/bridgen/bridgen/internal/registry"
	"github.com/bridgen/bridgen/internal/rules"
	"github.com/bridgen/bridgen/internal/scan"
	"github.com/bridgen/bridgen/internal/typemap"
	"github.com/bridgen/bridgen/util/mapst"
	"github.com/bridgen/bridgen/util/slicest"
)

func newGenerateCmd() *cobra.Command {
	var rulePaths []string
	var outputDir string
	var javaPackage string
	var nullAnnotation string
	var glueFile string

	cmd := &cobra.Command{
		Use:   "generate <definition.yaml>",
		Short: "Generate Java bindings and cgo glue from a binding definition",
		Long: `Reads a binding definition file, scans the Go package it binds
against, resolves all type conversions over the rule graph and writes the
Java sources plus the Go glue file. Every run is recorded in the registry
together with the hashes of the emitted artifacts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defPath := args[0]
			fmt.Println(i18n.T("generate.start", defPath))

			tm, set, err := loadRulesAndDefinition(defPath, rulePaths)
			if err != nil {
				return err
			}

			idx, err := scan.Package(set.Package)
			if err != nil {
				return errors.New(i18n.T("generate.error_scan", err))
			}
			if err := scan.Resolve(set, idx); err != nil {
				return errors.New(i18n.T("generate.error_scan", err))
			}
			fmt.Println(i18n.T("generate.scan_done", idx.Package, len(idx.Types), len(idx.Funcs)))

			// Seed the conversion cache with mappings persisted by
			// earlier runs so resolution is stable across invocations.
			seedPersistedMappings(tm)

			if javaPackage == "" {
				javaPackage = appConfig.Java.Package
			}
			if outputDir == "" {
				outputDir = appConfig.Java.OutputDir
			}
			if outputDir == "" {
				outputDir = "java"
			}
			if nullAnnotation == "" {
				nullAnnotation = appConfig.Java.NullAnnotation
			}

			gen := java.NewGenerator(java.Config{
				OutputDir:             outputDir,
				PackageName:           javaPackage,
				NullAnnotationPackage: nullAnnotation,
				GlueFileName:          glueFile,
			}, tm)
			if err := gen.Register(set); err != nil {
				return errors.New(i18n.T("generate.error_emit", err))
			}

			run := model.GenerationRun{
				ID:         newRunID(),
				Package:    set.Package,
				Definition: defPath,
				StartedAt:  time.Now(),
				Status:     "running",
			}
			recordRun(run)

			files, err := gen.Generate(set)
			if err != nil {
				finishRun(run.ID, "failed")
				return errors.New(i18n.T("generate.error_emit", err))
			}

			for _, f := range files {
				if err := writeArtifact(run.ID, f); err != nil {
					finishRun(run.ID, "failed")
					return err
				}
			}
			persistMappings(tm)
			finishRun(run.ID, "ok")
			if st := registry.Get(); st != nil {
				_ = st.LogAction("GENERATE", fmt.Sprintf("definition: %s, artifacts: %d", defPath, len(files)))
				fmt.Println(i18n.T("generate.run_recorded", run.ID))
			}

			fmt.Println(i18n.T("generate.success", len(files), outputDir))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&rulePaths, "rules", "r", nil, "Additional typemap rule module files (repeatable)")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory for generated .java files")
	cmd.Flags().StringVar(&javaPackage, "java-package", "", "Java package of the generated classes")
	cmd.Flags().StringVar(&nullAnnotation, "null-annotation", "", "Package providing @NonNull/@Nullable annotations")
	cmd.Flags().StringVar(&glueFile, "glue-file", "", "Name of the generated Go glue file")

	return cmd
}

// loadRulesAndDefinition builds the conversion typemap (builtin rules plus
// any user modules) and parses the binding definition.
func loadRulesAndDefinition(defPath string, rulePaths []string) (*typemap.TypeMap, *model.BindingSet, error) {
	tm, err := rules.Builtin()
	if err != nil {
		return nil, nil, errors.New(i18n.T("generate.error_rules", err))
	}
	for _, p := range rulePaths {
		id, mod, err := rules.LoadModule(p)
		if err != nil {
			return nil, nil, errors.New(i18n.T("generate.error_rules", err))
		}
		if err := tm.Merge(id, mod); err != nil {
			return nil, nil, errors.New(i18n.T("generate.error_rules", err))
		}
	}

	set, err := rules.LoadDefinition(defPath)
	if err != nil {
		return nil, nil, err
	}
	return tm, set, nil
}

func writeArtifact(runID string, f java.File) error {
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.Path, f.Content, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", f.Path, err)
	}
	if st := registry.Get(); st != nil {
		sum := sha256.Sum256(f.Content)
		err := st.AddArtifact(model.Artifact{
			RunID:  runID,
			Path:   f.Path,
			Kind:   f.Kind,
			SHA256: hex.EncodeToString(sum[:]),
		})
		if err != nil {
			logging.Warnf("could not record artifact %s: %v", f.Path, err)
		}
	}
	return nil
}

func seedPersistedMappings(tm *typemap.TypeMap) {
	st := registry.Get()
	if st == nil {
		return
	}
	mappings, err := st.GetAllMappings()
	if err != nil {
		logging.Warnf("could not load persisted mappings: %v", err)
		return
	}
	outgoing := slicest.Filter(mappings, func(m model.Mapping) bool {
		return m.Direction == "outgoing"
	})
	pinned := slicest.ToMap(outgoing, func(m model.Mapping) (string, string) {
		return m.HostType, m.ForeignType
	})
	mapst.Each(pinned, func(host, foreign string) {
		if tm.SeedHostToForeign(host, foreign) {
			logging.Debugf("seeded mapping %s -> %s", host, foreign)
		}
	})
}

func persistMappings(tm *typemap.TypeMap) {
	st := registry.Get()
	if st == nil {
		return
	}
	mapst.Each(tm.CachedHostToForeign(), func(host, foreign string) {
		err := st.SaveMapping(model.Mapping{
			HostType:    host,
			ForeignType: foreign,
			Direction:   "outgoing",
		})
		if err != nil {
			logging.Warnf("could not persist mapping %s: %v", host, err)
		}
	})
}

func recordRun(run model.GenerationRun) {
	if st := registry.Get(); st != nil {
		if err := st.RecordRun(run); err != nil {
			logging.Warnf("could not record run: %v", err)
		}
	}
}

func finishRun(id, status string) {
	if st := registry.Get(); st != nil {
		if err := st.FinishRun(id, status); err != nil {
			logging.Warnf("could not finish run: %v", err)
		}
	}
}

func newRunID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return "run-" + hex.EncodeToString(b[:])
}
