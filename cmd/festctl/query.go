package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/spf13/cobra"
)

func newFilterCmd(a *app) *cobra.Command {
	var crit domain.Criteria

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List festivals starting in a month, optionally by region and category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("month") {
				crit.Month = a.cfg.DefaultMonth
			}
			out, err := a.catalog.Filter(cmd.Context(), crit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return printFestivals(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().IntVar(&crit.Month, "month", 0, "start month 1-12 (default $DEFAULT_MONTH)")
	cmd.Flags().StringVar(&crit.Region, "region", domain.AllOption, "exact region name, or All")
	cmd.Flags().StringArrayVar(&crit.Categories, "category", nil, "festival category, repeatable; All or none selects every category")
	return cmd
}

func newRankingCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Rank festivals by foreign visitors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.RankingLimit
			}
			out, err := a.catalog.Ranking(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return printRanking(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "number of festivals (default $RANKING_LIMIT)")
	return cmd
}

func newSeasonalCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "seasonal",
		Short: "Show the most visited festivals of each season",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.SeasonalLimit
			}
			picks, err := a.catalog.Seasonal(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), picks)
			}
			return printSeasonal(cmd.OutOrStdout(), picks)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "festivals per season (default $SEASONAL_LIMIT)")
	return cmd
}

func visitorsCell(v domain.VisitorCount) string {
	if v.Known() {
		return strconv.Itoa(v.Value)
	}
	return string(v.Status)
}

func printFestivals(w io.Writer, fs []domain.Festival) error {
	if len(fs) == 0 {
		_, err := fmt.Fprintln(w, "no festivals match")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREGION\tVENUE\tCATEGORY\tMONTH\tVISITORS\tLAT\tLON")
	for _, f := range fs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%.4f\t%.4f\n",
			f.Name, f.Region, f.Venue, f.Category, f.Month, visitorsCell(f.Visitors), f.Geo.Lat, f.Geo.Lon)
	}
	return tw.Flush()
}

func printRanking(w io.Writer, fs []domain.Festival) error {
	if len(fs) == 0 {
		_, err := fmt.Fprintln(w, "no festivals with reported visitors")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tVISITORS\tCATEGORY")
	for i, f := range fs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i+1, f.Name, f.Visitors.Value, f.Category)
	}
	return tw.Flush()
}

func printSeasonal(w io.Writer, picks []domain.SeasonPicks) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range picks {
		fmt.Fprintf(tw, "%s (%d, %d, %d)\n", p.Season.Name, p.Season.Months[0], p.Season.Months[1], p.Season.Months[2])
		if len(p.Festivals) == 0 {
			fmt.Fprintln(tw, "  -")
			continue
		}
		for i, f := range p.Festivals {
			fmt.Fprintf(tw, "  %d\t%s\t%d\n", i+1, f.Name, f.Visitors.Value)
		}
	}
	return tw.Flush()
}
