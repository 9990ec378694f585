package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/festival-guide/internal/catalog"
	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/spf13/cobra"
)

func newQualityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quality",
		Short: "Load the dataset and report cells that degraded during derivation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.catalog.Get(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), s.Meta())
			}
			return printQuality(cmd.OutOrStdout(), s.Meta())
		},
	}
}

func printQuality(w io.Writer, m catalog.Meta) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "source\t%s\n", m.Source)
	fmt.Fprintf(tw, "encoding\t%s\n", m.Encoding)
	fmt.Fprintf(tw, "rows\t%d\n", m.Rows)
	fmt.Fprintf(tw, "month column\t%t\n", m.HasMonth)

	statuses := make([]string, 0, len(m.Quality.VisitorStatus))
	for s := range m.Quality.VisitorStatus {
		statuses = append(statuses, string(s))
	}
	slices.Sort(statuses)
	for _, s := range statuses {
		fmt.Fprintf(tw, "visitors %s\t%d\n", s, m.Quality.VisitorStatus[domain.CountStatus(s)])
	}

	fmt.Fprintf(tw, "unknown month\t%d\n", m.Quality.UnknownMonth)
	fmt.Fprintf(tw, "centroid misses\t%d\n", m.Quality.CentroidMisses)
	if len(m.Quality.MissingColumns) > 0 {
		fmt.Fprintf(tw, "missing columns\t%s\n", strings.Join(m.Quality.MissingColumns, ", "))
	}
	return tw.Flush()
}
