// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/bridgen/bridgen/internal/i18n"
	"github.com/bridgen/bridgen/internal/registry"
)

func newBundleCmd() *cobra.Command {
	var inputDir string

	cmd := &cobra.Command{
		Use:   "bundle [output-file]",
		Short: "Create a compressed (zstd) tar bundle of generated artifacts",
		Long: `Packs the generated Java sources from the output directory into a
single Zstandard-compressed tar archive, suitable for handing to the JVM
build or attaching to a release.

If no output file is specified, a default filename
'bridgen-bundle-YYYY-MM-DD.tar.zst' is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputFile string
			if len(args) == 0 {
				outputFile = fmt.Sprintf("bridgen-bundle-%s.tar.zst", time.Now().Format("2006-01-02"))
			} else {
				outputFile = args[0]
				if !strings.HasSuffix(outputFile, ".zst") {
					outputFile += ".zst"
				}
			}

			dir := inputDir
			if dir == "" {
				dir = appConfig.Java.OutputDir
			}
			if dir == "" {
				dir = "java"
			}

			fmt.Println(i18n.T("bundle.starting"))
			n, err := writeBundle(dir, outputFile)
			if err != nil {
				return errors.New(i18n.T("bundle.error_write", err))
			}
			if n == 0 {
				_ = os.Remove(outputFile)
				fmt.Println(i18n.T("bundle.empty", dir))
				return nil
			}
			if st := registry.Get(); st != nil {
				_ = st.LogAction("BUNDLE", fmt.Sprintf("%d files -> %s", n, outputFile))
			}
			fmt.Println(i18n.T("bundle.success", outputFile))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "dir", "d", "", "Directory containing generated artifacts")

	return cmd
}

// writeBundle tars every regular file under dir into a zstd-compressed
// archive at outputFile and returns the number of files packed.
func writeBundle(dir, outputFile string) (int, error) {
	outf, err := os.Create(outputFile)
	if err != nil {
		return 0, err
	}
	defer func() { _ = outf.Close() }()

	zw, err := zstd.NewWriter(outf)
	if err != nil {
		return 0, err
	}
	tw := tar.NewWriter(zw)

	count := 0
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		_ = f.Close()
		if err != nil {
			return err
		}
		count++
		return nil
	})
	if walkErr != nil {
		if os.IsNotExist(walkErr) {
			_ = tw.Close()
			_ = zw.Close()
			return 0, nil
		}
		return 0, walkErr
	}

	if err := tw.Close(); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return count, nil
}
