package main

import (
	"fmt"
	"io"

	"github.com/chazu/meshdump/pkg/meshbin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newInfoCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Summarize a mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.info(cmd.OutOrStdout(), args[0])
		},
	}
}

func newDumpCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "Print every vertex and triangle of a mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.dump(cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *cli) info(w io.Writer, path string) error {
	buf, err := meshbin.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := meshbin.Inspect(buf)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	c.log.Debug("inspected", zap.String("path", path), zap.Int("fileBytes", len(buf)))

	fmt.Fprintf(w, "file:      %s\n", path)
	fmt.Fprintf(w, "vertices:  %d\n", info.VertexCount)
	fmt.Fprintf(w, "indices:   %d\n", info.IndexCount)
	fmt.Fprintf(w, "triangles: %d\n", info.Triangles)
	fmt.Fprintf(w, "bytes:     %d\n", info.Bytes)
	if info.Trailing > 0 {
		fmt.Fprintf(w, "trailing:  %d\n", info.Trailing)
	}
	if info.VertexCount > 0 {
		fmt.Fprintf(w, "min:       %s\n", formatVec3(info.Min))
		fmt.Fprintf(w, "max:       %s\n", formatVec3(info.Max))
	}
	if !info.IndicesInRange() {
		fmt.Fprintf(w, "warning:   index %d out of range for %d vertices\n", info.MaxIndex, info.VertexCount)
	}
	return nil
}

func (c *cli) dump(w io.Writer, path string) error {
	m, err := meshbin.DecodeFile(path)
	if err != nil {
		return err
	}
	c.log.Debug("decoded", zap.String("path", path), zap.Stringer("mesh", m))

	fmt.Fprintf(w, "# %s\n", m)
	for i, v := range m.Vertices {
		fmt.Fprintf(w, "v %d p %s n %s c %s\n", i,
			formatVec3(v.Position), formatVec3(v.Normal), formatVec3(v.Color))
	}
	for i, t := range m.Triangles {
		fmt.Fprintf(w, "f %d %d %d %d\n", i, t[0], t[1], t[2])
	}
	return nil
}

func formatVec3(v mgl32.Vec3) string {
	return fmt.Sprintf("%g %g %g", v[0], v[1], v[2])
}
