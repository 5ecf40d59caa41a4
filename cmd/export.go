package main

import (
	"fmt"
	"os"
	"path/filepath"

	"clinical-registry/cmd/bootstrap"
	"clinical-registry/internal/repository"
	"clinical-registry/internal/usecase"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the patient table to a CSV, XLSX or PDF file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.Load(envFile)
			if err != nil {
				return err
			}

			db, err := bootstrap.OpenDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			}()

			exportUsecase := usecase.NewExportUsecase(db, log, repository.NewPatientRecordRepository())
			file, err := exportUsecase.Render(cmd.Context(), format)
			if err != nil {
				return err
			}

			if out == "" {
				out = file.FileName
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			if err := os.WriteFile(out, file.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			log.Infof("Wrote %s (%d bytes)", out, len(file.Data))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv, xlsx or pdf")
	cmd.Flags().StringVar(&out, "out", "", "output file (defaults to patients.<format>)")

	return cmd
}
