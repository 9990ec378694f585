package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/festival-guide/internal/adapter/xlsx"
	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		out      string
		crit     domain.Criteria
		ranking  int
		seasonal int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write filtered festivals, the ranking, and seasonal picks to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !flags.Changed("month") {
				crit.Month = a.cfg.DefaultMonth
			}
			if !flags.Changed("ranking-limit") {
				ranking = a.cfg.RankingLimit
			}
			if !flags.Changed("seasonal-limit") {
				seasonal = a.cfg.SeasonalLimit
			}

			ctx := cmd.Context()
			report := xlsx.Report{Criteria: crit}
			var err error
			if report.Festivals, err = a.catalog.Filter(ctx, crit); err != nil {
				return err
			}
			if report.Ranking, err = a.catalog.Ranking(ctx, ranking); err != nil {
				return err
			}
			if report.Seasonal, err = a.catalog.Seasonal(ctx, seasonal); err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := xlsx.WriteReport(f, report); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			a.logger.Info("report exported", "path", out, "festivals", len(report.Festivals))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output workbook path (required)")
	cmd.Flags().IntVar(&crit.Month, "month", 0, "start month 1-12 (default $DEFAULT_MONTH)")
	cmd.Flags().StringVar(&crit.Region, "region", domain.AllOption, "exact region name, or All")
	cmd.Flags().StringArrayVar(&crit.Categories, "category", nil, "festival category, repeatable")
	cmd.Flags().IntVar(&ranking, "ranking-limit", 0, "ranking size (default $RANKING_LIMIT)")
	cmd.Flags().IntVar(&seasonal, "seasonal-limit", 0, "festivals per season (default $SEASONAL_LIMIT)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
