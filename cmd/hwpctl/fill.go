package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hwp-tools/hwpctl/pkg/hwpctl"
	"github.com/hwp-tools/hwpctl/pkg/hwpctl/datasource"
)

func fillCmd() *cobra.Command {
	var (
		sheet     string
		hasHeader bool
		output    string
	)
	cmd := &cobra.Command{
		Use:   "fill [data.xlsx|data.csv]",
		Short: "Create a document with one table filled from a spreadsheet",
		Long: `fill loads a rectangular value matrix from an .xlsx or .csv file,
creates a fresh document with a table sized to the data, fills it
row-major and saves the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := loadValues(args[0], sheet)
			if err != nil {
				return err
			}
			if len(values) == 0 || len(values[0]) == 0 {
				return fmt.Errorf("%s contains no data", args[0])
			}

			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			sess, err := newSession(cfg, logger)
			if err != nil {
				return err
			}
			if err := sess.Connect(); err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.CreateDocument(); err != nil {
				return err
			}
			ref, err := sess.CreateTable(len(values), len(values[0]))
			if err != nil {
				return err
			}
			err = sess.FillTable(ref, values, hwpctl.FillOptions{
				HasHeader:     hasHeader,
				FromFirstCell: true,
			})
			if err != nil {
				return err
			}
			if err := sess.Save(output); err != nil {
				return err
			}
			fmt.Printf("filled %dx%d table, saved to %s\n", ref.Rows, ref.Cols, output)
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (default: first sheet)")
	cmd.Flags().BoolVar(&hasHeader, "header", false, "Bold the first row")
	cmd.Flags().StringVarP(&output, "output", "o", "filled.hwp", "Output document path")
	return cmd
}

func loadValues(path, sheet string) ([][]any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return datasource.FromXLSX(path, sheet)
	case ".csv":
		return datasource.FromCSV(path)
	default:
		return nil, fmt.Errorf("unsupported data format %q", filepath.Ext(path))
	}
}
