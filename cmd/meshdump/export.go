package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/meshdump/pkg/engine"
	"github.com/chazu/meshdump/pkg/host"
	"github.com/chazu/meshdump/pkg/kernel"
	"github.com/chazu/meshdump/pkg/kernel/manifold"
	"github.com/chazu/meshdump/pkg/kernel/sdfx"
	"github.com/chazu/meshdump/pkg/meshbin"
	"github.com/chazu/meshdump/pkg/tessellate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultExt is appended to the script name when --output is not given.
const DefaultExt = ".mesh"

type exportFlags struct {
	Output            string
	ColorChannel      string
	AllowMissingColor bool
	Cells             int
	Kernel            string
}

func newExportCmd(c *cli) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:   "export SCRIPT",
		Short: "Evaluate a scene script and write its mesh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.export(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVarP(&f.Output, "output", "o", "", "output file (default: SCRIPT with "+DefaultExt+" extension)")
	cmd.Flags().StringVar(&f.ColorChannel, "color-channel", "", "color channel to export (default: the script's channel)")
	cmd.Flags().BoolVar(&f.AllowMissingColor, "allow-missing-color", false, "export black when the color channel is missing")
	cmd.Flags().IntVar(&f.Cells, "cells", sdfx.DefaultMeshCells, "marching-cubes cells along the longest axis (sdfx)")
	cmd.Flags().StringVar(&f.Kernel, "kernel", "sdfx", "geometry kernel: sdfx or manifold")
	return cmd
}

func outputPath(script, output string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(script, filepath.Ext(script)) + DefaultExt
}

// newKernel returns the named geometry kernel.
func newKernel(name string, cells int) (kernel.Kernel, error) {
	switch name {
	case "sdfx":
		return sdfx.NewWithCells(cells), nil
	case "manifold":
		return manifold.New()
	}
	return nil, fmt.Errorf("unknown kernel %q (want sdfx or manifold)", name)
}

func (c *cli) export(cmd *cobra.Command, script string, f exportFlags) error {
	if f.Cells <= 0 {
		return fmt.Errorf("--cells must be positive, got %d", f.Cells)
	}
	k, err := newKernel(f.Kernel, f.Cells)
	if err != nil {
		return err
	}
	out := outputPath(script, f.Output)
	log := c.log.With(zap.String("script", script), zap.String("output", out))

	src, err := os.ReadFile(script)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	sc, evalErrs, err := engine.NewEngine().Evaluate(string(src))
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", script, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			log.Error("script error", zap.Int("line", e.Line), zap.String("message", e.Message))
		}
		return fmt.Errorf("evaluate %s: %w", script, evalErrs[0])
	}
	log.Debug("scene evaluated",
		zap.Int("parts", sc.PartCount()),
		zap.String("colorChannel", sc.ColorChannel))

	merged, err := tessellate.Flatten(sc, k)
	if err != nil {
		return err
	}
	log.Debug("scene tessellated",
		zap.Int("vertices", merged.VertexCount()),
		zap.Int("triangles", merged.TriangleCount()),
		zap.String("kernel", f.Kernel))

	channel := f.ColorChannel
	if channel == "" {
		channel = sc.ColorChannel
	}
	opts := host.Options{ColorChannel: channel, AllowMissingColor: f.AllowMissingColor}
	if merged.IsEmpty() {
		// An empty scene has no channels at all; it still encodes as a
		// header-only file.
		log.Warn("scene has no geometry")
		opts.AllowMissingColor = true
	}

	m, err := host.Extract(merged, opts)
	if err != nil {
		var mc *host.MissingChannelError
		if errors.As(err, &mc) {
			log.Error("color channel missing",
				zap.String("channel", mc.Name),
				zap.Strings("available", mc.Available))
		}
		return fmt.Errorf("extract: %w", err)
	}

	if err := meshbin.EncodeFile(out, m); err != nil {
		return err
	}
	size := meshbin.EncodedSize(uint64(m.VertexCount()), uint64(m.IndexCount()))
	log.Info("mesh written",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("indices", m.IndexCount()),
		zap.Uint64("bytes", size))

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d vertices, %d triangles, %d bytes\n",
		out, m.VertexCount(), m.TriangleCount(), size)
	return nil
}
