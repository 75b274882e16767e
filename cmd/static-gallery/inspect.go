package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/handiism/static-gallery/internal/gallery"
)

func newInspectCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the collections of an existing gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gallery.Load(outputDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Gallery %s (format %d)\n", outputDir, g.Version)
			fmt.Fprintf(out, "Thumbnails %s, display %s, backgrounds %s\n", g.ResThumb, g.ResDisplay, g.ResBackground)

			var pictures, backgrounds int
			rows := make([][]string, 0, len(g.CollectionKeys))
			for _, st := range g.Stats() {
				pictures += st.Pictures
				backgrounds += st.Backgrounds
				rows = append(rows, []string{
					st.Name,
					st.Title,
					humanize.Comma(int64(st.Pictures)),
					humanize.Comma(int64(st.Backgrounds)),
				})
			}
			footer := []string{"Total", strconv.Itoa(len(rows)), humanize.Comma(int64(pictures)), humanize.Comma(int64(backgrounds))}

			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Title", "Pictures", "Backgrounds"},
				rows,
				footer,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))

			if len(g.Archives) > 0 {
				keys := make([]string, 0, len(g.Archives))
				for k := range g.Archives {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "Archive %s: %s\n", k, g.Archives[k])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Gallery output directory")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
