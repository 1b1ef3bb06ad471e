package main

import (
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/taigrr/graft/pkg/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BE9FD"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BD93F9")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#44475A"))
)

// Node hierarchies are cyclic through parent links, so dumps stay shallow.
var dumper = spew.ConfigState{Indent: "  ", MaxDepth: 4, DisablePointerAddresses: true}

func newInspectCmd() *cobra.Command {
	var dump bool
	cmd := &cobra.Command{
		Use:   "inspect <part.glb>...",
		Short: "Print the skeleton and mesh statistics of glTF parts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				p, err := models.LoadPart(path)
				if err != nil {
					return err
				}
				if dump {
					dumper.Fdump(cmd.OutOrStdout(), p)
					continue
				}
				printPart(cmd.OutOrStdout(), path, p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the decoded part structure")
	return cmd
}

func printPart(w io.Writer, path string, p *models.Part) {
	lipgloss.Fprintln(w, titleStyle.Render(path))

	if r := p.SkinnedMesh(); r != nil {
		lipgloss.Fprintln(w, faintStyle.Render(
			"skinned "+meshSummary(r.SharedMesh)+fmt.Sprintf(", %d bones", len(r.Bones))))
		lipgloss.Fprintln(w, boneTable(r).Render())
	}
	if r := p.MeshRenderer(); r != nil {
		lipgloss.Fprintln(w, faintStyle.Render("static "+meshSummary(r.SharedMesh)))
	}
	if p.SkinnedMesh() == nil && p.MeshRenderer() == nil {
		lipgloss.Fprintln(w, faintStyle.Render("no renderers"))
	}
}

func meshSummary(m *models.Mesh) string {
	size := m.Size()
	return fmt.Sprintf("%q: %d vertices, %d triangles, %.2f x %.2f x %.2f",
		m.Name, m.VertexCount(), m.TriangleCount(), size.X, size.Y, size.Z)
}

func boneTable(r *models.SkinnedMeshRenderer) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("#", "bone", "parent", "rest position", "vertices").
		Rows(boneRows(r)...)
}

// boneRows lists every bone with the number of vertices it influences.
// The rest position comes from the inverse bind pose.
func boneRows(r *models.SkinnedMeshRenderer) [][]string {
	m := r.SharedMesh
	counts := make([]int, len(r.Bones))
	for _, bw := range m.BoneWeights {
		for k, idx := range bw.BoneIndex {
			if bw.Weight[k] > 0 && idx >= 0 && idx < len(counts) {
				counts[idx]++
			}
		}
	}

	rows := make([][]string, len(r.Bones))
	for i, b := range r.Bones {
		name, parent := "<missing>", ""
		if b != nil {
			name = b.Name
			if p := b.Parent(); p != nil {
				parent = p.Name
			}
		}
		rest := "-"
		if i < len(m.BindPoses) {
			t := m.BindPoses[i].Inverse().Translation()
			rest = fmt.Sprintf("%.3f %.3f %.3f", t.X, t.Y, t.Z)
		}
		rows[i] = []string{strconv.Itoa(i), name, parent, rest, strconv.Itoa(counts[i])}
	}
	return rows
}
